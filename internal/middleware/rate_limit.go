package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"marketplace_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	// Limites par endpoint
	LoginMaxAttempts          = 5
	RegisterMaxAttempts       = 3
	ForgotPasswordMaxAttempts = 3
	CheckoutMaxRequests       = 10 // Par minute et par IP

	// Durées de cooldown
	LoginCooldown          = 15 * time.Minute
	RegisterCooldown       = 30 * time.Minute
	ForgotPasswordCooldown = 10 * time.Minute
	CheckoutWindow         = 1 * time.Minute
)

// RateLimiter applique les limites avec des compteurs Redis.
// Redis indisponible ne bloque jamais la requête.
type RateLimiter struct {
	store *cache.Store
}

func NewRateLimiter(store *cache.Store) *RateLimiter {
	return &RateLimiter{store: store}
}

// peekEmail lit le champ email du corps JSON sans le consommer
func peekEmail(c *gin.Context) string {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var input struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(bodyBytes, &input) != nil {
		return ""
	}
	return input.Email
}

// blocked répond 429 si la clé de cooldown est active
func (rl *RateLimiter) blocked(ctx context.Context, c *gin.Context, cooldownKey, message string) bool {
	ttl, err := rl.store.Cooldown(ctx, cooldownKey)
	if err != nil {
		log.Printf("⚠️ Rate limit indisponible: %v", err)
		return false
	}
	if ttl <= 0 {
		return false
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       fmt.Sprintf("%s. Try again in %d minutes", message, int(ttl.Minutes())+1),
		"retry_after": int(ttl.Seconds()),
	})
	return true
}

// exhausted démarre le cooldown quand le compteur a atteint max
func (rl *RateLimiter) exhausted(ctx context.Context, c *gin.Context, key, cooldownKey string, max int64, cooldown time.Duration, message string) bool {
	attempts, err := rl.store.GetRateLimit(ctx, key)
	if err != nil || attempts < max {
		return false
	}
	if err := rl.store.StartCooldown(ctx, cooldownKey, key, cooldown); err != nil {
		log.Printf("⚠️ Activation cooldown %s échouée: %v", cooldownKey, err)
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       fmt.Sprintf("%s. Blocked for %d minutes", message, int(cooldown.Minutes())),
		"retry_after": int(cooldown.Seconds()),
	})
	return true
}

// Login limite les tentatives de connexion échouées par email
func (rl *RateLimiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email
		const msg = "Too many failed login attempts"

		if rl.blocked(ctx, c, cooldownKey, msg) ||
			rl.exhausted(ctx, c, key, cooldownKey, LoginMaxAttempts, LoginCooldown, msg) {
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized, http.StatusBadRequest:
			// Login échoué : incrémenter les tentatives
			if n, err := rl.store.IncrementRateLimit(ctx, key, LoginCooldown); err == nil && n < LoginMaxAttempts {
				c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", LoginMaxAttempts-n))
			}
		case http.StatusOK:
			// Login réussi, réinitialiser les tentatives
			_ = rl.store.DeleteCache(ctx, key, cooldownKey)
		}
	}
}

// Register limite les inscriptions par IP
func (rl *RateLimiter) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := "register_attempts:" + ip
		cooldownKey := "register_cooldown:" + ip
		const msg = "Too many registrations"

		if rl.blocked(ctx, c, cooldownKey, msg) ||
			rl.exhausted(ctx, c, key, cooldownKey, RegisterMaxAttempts, RegisterCooldown, msg) {
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			_, _ = rl.store.IncrementRateLimit(ctx, key, RegisterCooldown)
		}
	}
}

// ForgotPassword limite les demandes de réinitialisation par email
func (rl *RateLimiter) ForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "forgot_password_attempts:" + email
		cooldownKey := "forgot_password_cooldown:" + email
		const msg = "Too many reset requests"

		if rl.blocked(ctx, c, cooldownKey, msg) ||
			rl.exhausted(ctx, c, key, cooldownKey, ForgotPasswordMaxAttempts, ForgotPasswordCooldown, msg) {
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			_, _ = rl.store.IncrementRateLimit(ctx, key, ForgotPasswordCooldown)
		}
	}
}

// Checkout limite la création de liens de paiement par IP (chaque appel crée des objets Stripe)
func (rl *RateLimiter) Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "checkout_requests:" + c.ClientIP()

		n, err := rl.store.IncrementRateLimit(ctx, key, CheckoutWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit checkout indisponible: %v", err)
			c.Next()
			return
		}
		if n > CheckoutMaxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many checkout attempts. Try again in 1 minute",
				"retry_after": int(CheckoutWindow.Seconds()),
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", CheckoutMaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", CheckoutMaxRequests-n))
		c.Next()
	}
}
