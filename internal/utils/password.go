package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// argonParams décrit le coût d'un hash argon2id
type argonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultArgonParams : environ 20ms par login
var DefaultArgonParams = argonParams{Memory: 32 * 1024, Time: 1, Threads: 4, KeyLen: 32}

const saltLen = 16

var ErrMalformedHash = errors.New("hash de mot de passe invalide")

// argonHash est un hash argon2id décodé depuis sa forme PHC
type argonHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

func (h argonHash) encode() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key))
}

func decodeArgonHash(encoded string) (argonHash, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return argonHash{}, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argonHash{}, ErrMalformedHash
	}

	var h argonHash
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Threads); err != nil {
		return argonHash{}, ErrMalformedHash
	}
	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return argonHash{}, ErrMalformedHash
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(h.key) == 0 {
		return argonHash{}, ErrMalformedHash
	}
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

func deriveKey(password string, salt []byte, p argonParams) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// HashPassword renvoie le hash argon2id du mot de passe, au format PHC
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	h := argonHash{params: DefaultArgonParams, salt: salt}
	h.key = deriveKey(password, salt, h.params)
	return h.encode(), nil
}

// VerifyPassword accepte les hash argon2id et les hash bcrypt des comptes importés
func VerifyPassword(password, encoded string) (bool, error) {
	if IsBcryptHash(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}

	h, err := decodeArgonHash(encoded)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(h.key, deriveKey(password, h.salt, h.params)) == 1, nil
}

// NeedsRehash : vrai pour un hash bcrypt ou un argon2id d'un coût différent du coût courant
func NeedsRehash(encoded string) bool {
	if IsBcryptHash(encoded) {
		return true
	}
	h, err := decodeArgonHash(encoded)
	return err == nil && h.params != DefaultArgonParams
}

func IsArgon2Hash(hash string) bool {
	return strings.HasPrefix(hash, "$argon2id$")
}

func IsBcryptHash(hash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}
	return false
}
