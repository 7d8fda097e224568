package middleware

import (
	"log"
	"net/http"
	"strings"

	"marketplace_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired valide le jeton Bearer et place user_id / email dans le contexte Gin
func AuthRequired(secret string) gin.HandlerFunc {
	return authenticate(secret, false)
}

// StreamAuthRequired accepte aussi le jeton dans le paramètre access_token,
// pour les WebSocket ouvertes depuis un navigateur
func StreamAuthRequired(secret string) gin.HandlerFunc {
	return authenticate(secret, true)
}

func authenticate(secret string, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := ""
		switch {
		case authHeader != "":
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("❌ Format Authorization invalide: %v parties", len(parts))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
				return
			}
			token = parts[1]
		case allowQuery:
			token = c.Query("access_token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		claims, err := utils.ParseAccessToken(secret, token)
		if err != nil {
			log.Printf("❌ Erreur parsing JWT: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
