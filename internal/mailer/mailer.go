// Package mailer delivers magic-link emails over SMTP. Delivery is
// synchronous in the request path with a fixed network timeout; a failure
// surfaces to the caller immediately, there is no queue or retry.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/config"
)

// Mailer sends magic-link emails.
type Mailer struct {
	cfg                config.SMTPConfig
	appName            string
	backendURL         string
	tokenExpireMinutes int
	logger             *zap.Logger
}

// New creates a mailer.
func New(cfg config.SMTPConfig, appName, backendURL string, tokenExpireMinutes int, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:                cfg,
		appName:            appName,
		backendURL:         backendURL,
		tokenExpireMinutes: tokenExpireMinutes,
		logger:             logger,
	}
}

// MagicLink builds the verification URL embedded in the email. A non-empty
// invite code is carried through so the frontend can resume the invite flow
// after login.
func (m *Mailer) MagicLink(token, invite string) string {
	link := m.backendURL + "/auth/verify?token=" + url.QueryEscape(token)
	if invite != "" {
		link += "&invite=" + url.QueryEscape(invite)
	}
	return link
}

// Subject returns the magic-link email subject.
func (m *Mailer) Subject() string {
	return m.appName + " - Magic Link"
}

// Message renders the full RFC 5322 message for the recipient.
func (m *Mailer) Message(to, token, invite string) string {
	link := m.MagicLink(token, invite)
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject())
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "<h2>Logowanie do %s</h2>\r\n", m.appName)
	b.WriteString("<p>Kliknij w link poniżej, aby się zalogować:</p>\r\n")
	fmt.Fprintf(&b, "<p>Jeżeli nie jesteś %s to... Coś poszło nie tak...</p>\r\n", to)
	b.WriteString("<p>A jak tak to fajnie!</p>\r\n")
	fmt.Fprintf(&b, "<p><a href=\"%s\">Zaloguj się</a></p>\r\n", link)
	fmt.Fprintf(&b, "<p>Link wygaśnie za %d minut.</p>\r\n", m.tokenExpireMinutes)
	fmt.Fprintf(&b, "<br/><p>Pozdro,<br>%s</p>\r\n", m.appName)
	return b.String()
}

// SendMagicLink delivers the login email. The whole SMTP conversation is
// bounded by the configured timeout.
func (m *Mailer) SendMagicLink(to, token, invite string) error {
	timeout := time.Duration(m.cfg.TimeoutSec) * time.Second
	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprintf("%d", m.cfg.Port))

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.User != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(m.Message(to, token, invite))); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	if err := client.Quit(); err != nil {
		m.logger.Warn("smtp quit", zap.Error(err))
	}
	m.logger.Info("magic link sent", zap.String("to", to))
	return nil
}
