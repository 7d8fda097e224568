package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ParseUUID convertit un identifiant texte en gocql.UUID
func ParseUUID(id string) (gocql.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gocql.UUID{}, err
	}
	return gocql.UUID(uid), nil
}

// PathUUID lit le paramètre de route name ; répond 400 s'il est invalide
func PathUUID(c *gin.Context, name string) (gocql.UUID, bool) {
	id, err := ParseUUID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return gocql.UUID{}, false
	}
	return id, true
}

// AuthUserID renvoie l'utilisateur placé dans le contexte par AuthRequired
func AuthUserID(c *gin.Context) (gocql.UUID, bool) {
	id, err := ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated user"})
		return gocql.UUID{}, false
	}
	return id, true
}
