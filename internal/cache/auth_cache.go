package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	AuthCacheTTL = 15 * time.Minute // Cache les vérifications de mot de passe pendant 15 min
)

func authKey(email, password string) string {
	passwordHash := sha256.Sum256([]byte(password))
	return "auth:" + email + ":" + hex.EncodeToString(passwordHash[:])
}

// IsLoginCached vérifie si cette combinaison email/mot de passe a déjà été validée.
// Cela évite de refaire argon2 à chaque login.
func (s *Store) IsLoginCached(ctx context.Context, email, password string) bool {
	result, err := s.rdb.Get(ctx, authKey(email, password)).Result()
	return err == nil && result == "valid"
}

// CacheLogin met en cache une vérification de mot de passe réussie
func (s *Store) CacheLogin(ctx context.Context, email, password string) {
	s.rdb.Set(ctx, authKey(email, password), "valid", AuthCacheTTL)
}

// InvalidateAuthCache supprime toutes les clés auth:email:* (changement de mot de passe)
func (s *Store) InvalidateAuthCache(ctx context.Context, email string) {
	iter := s.rdb.Scan(ctx, 0, "auth:"+email+":*", 100).Iterator()
	for iter.Next(ctx) {
		s.rdb.Del(ctx, iter.Val())
	}
}
