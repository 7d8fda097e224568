package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL = 24 * time.Hour
	ResetTokenTTL  = time.Hour

	purposeAccess = "access"
	purposeReset  = "reset"
)

var ErrWrongTokenPurpose = errors.New("token cannot be used for this operation")

// Claims portés par les jetons du serveur
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

func sign(secret string, claims Claims, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET non configuré")
	}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateJWT crée le jeton de session renvoyé au login
func GenerateJWT(secret, userID, email, username string) (string, error) {
	return sign(secret, Claims{UserID: userID, Email: email, Username: username, Purpose: purposeAccess}, AccessTokenTTL)
}

// GenerateResetToken crée un jeton de réinitialisation valable une heure
func GenerateResetToken(secret, userID string) (string, error) {
	return sign(secret, Claims{UserID: userID, Purpose: purposeReset}, ResetTokenTTL)
}

func parse(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("user_id manquant")
	}
	return claims, nil
}

// ParseAccessToken valide un jeton de session
func ParseAccessToken(secret, tokenString string) (*Claims, error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeAccess {
		return nil, ErrWrongTokenPurpose
	}
	return claims, nil
}

// ParseResetToken valide un jeton de réinitialisation de mot de passe
func ParseResetToken(secret, tokenString string) (*Claims, error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeReset {
		return nil, ErrWrongTokenPurpose
	}
	return claims, nil
}
