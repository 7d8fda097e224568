package user

import (
	"context"
	"log"
	"time"

	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"
)

const mailTimeout = 30 * time.Second

// Handler regroupe les endpoints des comptes utilisateurs
type Handler struct {
	users     repository.UserRepository
	cache     *cache.Store
	mailer    services.Mailer
	jwtSecret string
}

func NewHandler(users repository.UserRepository, store *cache.Store, mailer services.Mailer, jwtSecret string) *Handler {
	return &Handler{users: users, cache: store, mailer: mailer, jwtSecret: jwtSecret}
}

// loadUser passe par le cache Redis (sans mot de passe)
func (h *Handler) loadUser(ctx context.Context, id string) (*models.User, error) {
	return h.cache.GetUser(ctx, id, func(ctx context.Context, id string) (*models.User, error) {
		uid, err := parseUserID(id)
		if err != nil {
			return nil, repository.ErrNotFound
		}
		return h.users.GetByID(ctx, uid)
	})
}

// sendMail envoie en arrière-plan ; la requête HTTP n'attend jamais le serveur SMTP
func (h *Handler) sendMail(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := h.mailer.Send(ctx, to, subject, body); err != nil {
			log.Printf("❌ Envoi e-mail %q à %s échoué: %v", subject, to, err)
		}
	}()
}

func (h *Handler) forget(ctx context.Context, u *models.User) {
	h.cache.InvalidateUserCache(ctx, u.ID.String())
	h.cache.InvalidateAuthCache(ctx, u.Email)
}
