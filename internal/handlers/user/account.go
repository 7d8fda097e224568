package user

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

func parseUserID(id string) (gocql.UUID, error) {
	return handlers.ParseUUID(id)
}

// LoginHistory renvoie les dates de connexion d'un utilisateur
func (h *Handler) LoginHistory(c *gin.Context) {
	userID := c.Param("userId")
	if _, err := parseUserID(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	u, err := h.loadUser(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Historique de connexion %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching login history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loginHistory": u.LoginHistory})
}

// ListUsers renvoie tous les comptes, sans mot de passe
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ Liste des utilisateurs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteAccount supprime le compte de l'utilisateur authentifié
func (h *Handler) DeleteAccount(c *gin.Context) {
	id, ok := handlers.AuthUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	u, err := h.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture utilisateur %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
		return
	}

	if err := h.users.Delete(ctx, u); err != nil {
		log.Printf("❌ Suppression utilisateur %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
		return
	}
	h.forget(ctx, u)

	log.Printf("🗑️ Compte supprimé : %s", u.Email)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// UpdateProfile modifie username, email et photo de profil de l'utilisateur authentifié
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := handlers.AuthUserID(c)
	if !ok {
		return
	}

	var input struct {
		Username       string `json:"username"`
		Email          string `json:"email" binding:"omitempty,email"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	u, err := h.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture utilisateur %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
		return
	}

	previousEmail := u.Email
	if v := strings.TrimSpace(input.Username); v != "" {
		u.Username = v
	}
	if input.Email != "" {
		u.Email = normalizeEmail(input.Email)
	}
	if input.ProfilePicture != "" {
		u.ProfilePicture = input.ProfilePicture
	}
	u.UpdatedAt = time.Now().UTC()

	if err := h.users.UpdateProfile(ctx, u, previousEmail); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
		log.Printf("❌ Mise à jour du profil %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
		return
	}
	h.cache.InvalidateUserCache(ctx, u.ID.String())
	h.cache.InvalidateAuthCache(ctx, previousEmail)

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": u})
}

// ProfilePicture renvoie la photo de profil d'un utilisateur
func (h *Handler) ProfilePicture(c *gin.Context) {
	userID := c.Param("userId")
	if _, err := parseUserID(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	u, err := h.loadUser(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Photo de profil %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching profile picture"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profilePicture": u.ProfilePicture})
}
