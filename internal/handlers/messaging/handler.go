package messaging

import (
	"context"
	"errors"
	"log"
	"time"

	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"
)

const mailTimeout = 30 * time.Second

type Deps struct {
	Messages      repository.MessageRepository
	Notifications repository.NotificationRepository
	Settings      repository.SettingsRepository
	Users         repository.UserRepository
	Cache         *cache.Store
	Mailer        services.Mailer
}

// Handler regroupe messagerie, notifications et réglages de notification
type Handler struct {
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
	settings      repository.SettingsRepository
	users         repository.UserRepository
	cache         *cache.Store
	mailer        services.Mailer
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		messages:      d.Messages,
		notifications: d.Notifications,
		settings:      d.Settings,
		users:         d.Users,
		cache:         d.Cache,
		mailer:        d.Mailer,
	}
}

// settingsFor renvoie les réglages enregistrés ou, à défaut, ceux par défaut
func (h *Handler) settingsFor(ctx context.Context, userID string) (models.NotificationSettings, error) {
	s, err := h.settings.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return models.NotificationSettings{}, err
	}
	return *s, nil
}

// notify enregistre la notification puis envoie l'e-mail si le destinataire
// a choisi les e-mails immédiats
func (h *Handler) notify(ctx context.Context, n *models.Notification) error {
	if err := h.notifications.Create(ctx, n); err != nil {
		return err
	}

	settings, err := h.settingsFor(ctx, n.UserID)
	if err != nil {
		log.Printf("⚠️ Réglages de %s illisibles, pas d'e-mail: %v", n.UserID, err)
		return nil
	}
	if !settings.WantsImmediateEmail() {
		return nil
	}

	id, err := handlers.ParseUUID(n.UserID)
	if err != nil {
		log.Printf("ℹ️ Destinataire %q sans compte, pas d'e-mail", n.UserID)
		return nil
	}
	u, err := h.cache.GetUser(ctx, n.UserID, func(ctx context.Context, _ string) (*models.User, error) {
		return h.users.GetByID(ctx, id)
	})
	if err != nil {
		log.Printf("⚠️ Utilisateur %s introuvable pour l'e-mail de notification: %v", n.UserID, err)
		return nil
	}

	to, body := u.Email, services.NotificationEmailHTML(n.Message)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := h.mailer.Send(ctx, to, "New notification", body); err != nil {
			log.Printf("❌ E-mail de notification à %s échoué: %v", to, err)
		}
	}()
	return nil
}
