package user

import (
	"errors"
	"log"
	"net/http"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"
	"marketplace_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ChangePassword : POST /api/change-password (ancien mot de passe requis)
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := handlers.AuthUserID(c)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if ok, err := utils.VerifyPassword(input.CurrentPassword, u.Password); err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	if !h.setPassword(c, u.ID, input.NewPassword) {
		return
	}
	h.forget(ctx, u)

	log.Printf("✅ Mot de passe changé pour %s", u.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ForgotPassword envoie un jeton de réinitialisation par e-mail.
// La réponse est identique que le compte existe ou non.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)
	response := gin.H{"message": "If this account exists, a password reset token has been sent"}

	u, err := h.users.GetByEmail(c.Request.Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("⚠️ Réinitialisation demandée pour un email inconnu : %s", email)
		c.JSON(http.StatusOK, response)
		return
	}
	if err != nil {
		log.Printf("❌ Lecture utilisateur %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	token, err := utils.GenerateResetToken(h.jwtSecret, u.ID.String())
	if err != nil {
		log.Printf("❌ Génération du jeton de réinitialisation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	h.sendMail(u.Email, "Password reset", services.PasswordResetEmailHTML(token))

	c.JSON(http.StatusOK, response)
}

// ResetPassword applique un nouveau mot de passe à partir d'un jeton de réinitialisation
func (h *Handler) ResetPassword(c *gin.Context) {
	var input struct {
		ResetToken      string `json:"resetToken" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
		return
	}

	claims, err := utils.ParseResetToken(h.jwtSecret, input.ResetToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}
	id, err := parseUserID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if !h.setPassword(c, u.ID, input.NewPassword) {
		return
	}
	h.forget(ctx, u)

	log.Printf("✅ Mot de passe réinitialisé pour %s", u.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// setPassword hache et enregistre le mot de passe ; répond lui-même en cas d'échec
func (h *Handler) setPassword(c *gin.Context, id gocql.UUID, password string) bool {
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("❌ Hash du mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return false
	}
	err = h.users.UpdatePassword(c.Request.Context(), id, hash)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return false
	}
	if err != nil {
		log.Printf("❌ Mise à jour du mot de passe %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return false
	}
	return true
}
