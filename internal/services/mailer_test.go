package services

import (
	"context"
	"testing"

	"marketplace_back_end/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("noreply@marketplace.local", "ada@example.com", "Hi", "<p>x</p>")
	require.NoError(t, err)
	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"<ada@example.com>"}, rcpts)

	_, err = buildMessage("noreply@marketplace.local", "not an address", "Hi", "<p>x</p>")
	assert.Error(t, err)
}

func TestTemplatesEscapeInput(t *testing.T) {
	body := NotificationEmailHTML(`<script>alert(1)</script>`)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")

	assert.Contains(t, WelcomeEmailHTML("Ada"), "Hello Ada")
	assert.Contains(t, PasswordResetEmailHTML("tok123"), "tok123")
}

func TestNewMailerWithoutHost(t *testing.T) {
	m := NewMailer(config.SMTPConfig{})
	assert.IsType(t, disabledMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), "ada@example.com", "Hi", "<p>x</p>"))

	assert.IsType(t, &SMTPMailer{}, NewMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587}))
}
