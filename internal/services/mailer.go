package services

import (
	"context"
	"fmt"
	"html"
	"log"

	"marketplace_back_end/internal/config"

	"github.com/wneessen/go-mail"
)

// Mailer envoie les e-mails transactionnels
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewMailer renvoie un SMTPMailer, ou un mailer qui se contente de journaliser
// quand SMTP_HOST n'est pas défini
func NewMailer(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		log.Println("⚠️ SMTP_HOST absent : les e-mails seront seulement journalisés")
		return disabledMailer{}
	}
	return NewSMTPMailer(cfg)
}

type disabledMailer struct{}

func (disabledMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("📤 (SMTP désactivé) e-mail %q pour %s non envoyé", subject, to)
	return nil
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func buildMessage(from, to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := buildMessage(m.cfg.From, to, subject, htmlBody)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSendWithContext(ctx, msg)
}

const emailLayout = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>%s</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">%s</h2>
		%s
	</div>
</body>
</html>`

func layout(title, body string) string {
	t := html.EscapeString(title)
	return fmt.Sprintf(emailLayout, t, t, body)
}

// WelcomeEmailHTML génère l'e-mail de bienvenue
func WelcomeEmailHTML(username string) string {
	return layout("Welcome to the marketplace",
		fmt.Sprintf(`<p>Hello %s,</p><p>Your account has been created. You can now list products and buy from other sellers.</p>`,
			html.EscapeString(username)))
}

// NotificationEmailHTML génère l'e-mail d'une notification
func NotificationEmailHTML(message string) string {
	return layout("New notification",
		fmt.Sprintf(`<p>%s</p>`, html.EscapeString(message)))
}

// PasswordResetEmailHTML génère l'e-mail de réinitialisation
func PasswordResetEmailHTML(resetToken string) string {
	return layout("Password reset",
		fmt.Sprintf(`<p>Use this token to reset your password. It expires in one hour.</p><pre>%s</pre>`,
			html.EscapeString(resetToken)))
}
