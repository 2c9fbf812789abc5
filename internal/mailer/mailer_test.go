package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/config"
)

func newTestMailer() *Mailer {
	cfg := config.SMTPConfig{
		Host: "smtp.example.com", Port: 587,
		From: "noreply@example.com", TimeoutSec: 10,
	}
	return New(cfg, "Zapisy", "https://api.example.com", 15, zap.NewNop())
}

func TestMagicLink(t *testing.T) {
	m := newTestMailer()

	link := m.MagicLink("tok123", "")
	assert.Equal(t, "https://api.example.com/auth/verify?token=tok123", link)

	link = m.MagicLink("tok123", "inv456")
	assert.Equal(t, "https://api.example.com/auth/verify?token=tok123&invite=inv456", link)
}

func TestMagicLinkEscapesParams(t *testing.T) {
	m := newTestMailer()
	link := m.MagicLink("a b&c", "")
	assert.NotContains(t, link, " ")
	assert.NotContains(t, strings.TrimPrefix(link, "https://api.example.com/auth/verify?token="), "&")
}

func TestMessage(t *testing.T) {
	m := newTestMailer()
	msg := m.Message("jan@edu.uni.pl", "tok123", "inv456")

	assert.Contains(t, msg, "From: noreply@example.com\r\n")
	assert.Contains(t, msg, "To: jan@edu.uni.pl\r\n")
	assert.Contains(t, msg, "Subject: Zapisy - Magic Link\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "https://api.example.com/auth/verify?token=tok123&invite=inv456")
	assert.Contains(t, msg, "Link wygaśnie za 15 minut.")
	assert.Contains(t, msg, "Logowanie do Zapisy")

	// headers and body are separated by a blank line
	assert.Contains(t, msg, "\r\n\r\n")
}
