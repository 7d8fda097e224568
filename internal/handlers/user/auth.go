package user

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"
	"marketplace_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register crée un compte local (mot de passe argon2id)
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Username       string `json:"username" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required,min=8"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("❌ Hash du mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create user"})
		return
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:             gocql.TimeUUID(),
		Username:       strings.TrimSpace(input.Username),
		Email:          normalizeEmail(input.Email),
		Password:       hash,
		ProfilePicture: input.ProfilePicture,
		LoginHistory:   []time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already registered"})
			return
		}
		log.Printf("❌ Création utilisateur %s: %v", u.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create user"})
		return
	}

	log.Printf("✅ Utilisateur créé : %s (%s)", u.Email, u.ID)
	h.sendMail(u.Email, "Welcome to the marketplace", services.WelcomeEmailHTML(u.Username))

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": u})
}

// Login vérifie les identifiants, enregistre la connexion et renvoie un JWT
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	email := normalizeEmail(input.Email)

	u, err := h.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture utilisateur %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if !h.cache.IsLoginCached(ctx, email, input.Password) {
		ok, err := utils.VerifyPassword(input.Password, u.Password)
		if err != nil || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		// bcrypt importé ou coût argon2id obsolète : nouveau hash au login
		if utils.NeedsRehash(u.Password) {
			if hash, err := utils.HashPassword(input.Password); err == nil {
				if err := h.users.UpdatePassword(ctx, u.ID, hash); err != nil {
					log.Printf("⚠️ Migration du hash de %s échouée: %v", email, err)
				} else {
					log.Printf("🔁 Hash du mot de passe de %s régénéré", email)
				}
			}
		}
		h.cache.CacheLogin(ctx, email, input.Password)
	}

	if err := h.users.AppendLogin(ctx, u.ID, time.Now().UTC()); err != nil {
		log.Printf("⚠️ Historique de connexion de %s non enregistré: %v", email, err)
	}
	h.cache.InvalidateUserCache(ctx, u.ID.String())

	token, err := utils.GenerateJWT(h.jwtSecret, u.ID.String(), u.Email, u.Username)
	if err != nil {
		log.Printf("❌ Génération JWT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Login successful",
		"token":          token,
		"userId":         u.ID.String(),
		"username":       u.Username,
		"profilePicture": u.ProfilePicture,
		"email":          u.Email,
	})
}
