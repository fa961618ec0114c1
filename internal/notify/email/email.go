// Package email delivers alert notifications over SMTP.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"cicd-dashboard/config"
	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/notify/format"
	"cicd-dashboard/pkg/log"
)

const mimeBoundary = "cicd-alert-boundary"

// Transport owns the SMTP session configuration for the email channel.
type Transport struct {
	l            log.Logger
	cfg          config.SMTPConfig
	recipient    string
	dashboardURL string
	production   bool
}

// New creates the email transport. In non-production mode Deliver
// short-circuits to success without a network call.
func New(l log.Logger, cfg config.SMTPConfig, recipient, dashboardURL string, production bool) *Transport {
	return &Transport{
		l:            l,
		cfg:          cfg,
		recipient:    recipient,
		dashboardURL: dashboardURL,
		production:   production,
	}
}

// Name returns the channel name.
func (t *Transport) Name() string { return "email" }

// Enabled reports whether SMTP credentials are configured.
func (t *Transport) Enabled() bool { return t.cfg.Enabled() }

func (t *Transport) addr() string {
	return fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
}

func (t *Transport) auth() sasl.Client {
	return sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)
}

// Deliver formats the event and submits it to the configured SMTP server.
func (t *Transport) Deliver(ctx context.Context, e alert.Event) error {
	if !t.Enabled() {
		return fmt.Errorf("email channel not configured")
	}

	msg := format.Email(e, t.dashboardURL)

	if !t.production {
		t.l.Infof(ctx, "Demo email notification (not sent): to=%s subject=%q", t.recipient, msg.Subject)
		return nil
	}

	body := t.buildMessage(t.recipient, msg)
	reader := strings.NewReader(body)

	var err error
	if t.cfg.Port == 465 {
		err = smtp.SendMailTLS(t.addr(), t.auth(), t.cfg.From, []string{t.recipient}, reader)
	} else {
		err = smtp.SendMail(t.addr(), t.auth(), t.cfg.From, []string{t.recipient}, reader)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	t.l.Infof(ctx, "Email alert sent to %s", t.recipient)
	return nil
}

// TestConnection verifies SMTP reachability and credentials without sending mail.
func (t *Transport) TestConnection(ctx context.Context) error {
	if !t.Enabled() {
		return fmt.Errorf("email channel not configured")
	}

	tlsConfig := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		client *smtp.Client
		err    error
	)
	if t.cfg.Port == 465 {
		client, err = smtp.DialTLS(t.addr(), tlsConfig)
	} else {
		client, err = smtp.DialStartTLS(t.addr(), tlsConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.Auth(t.auth()); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Noop(); err != nil {
		return fmt.Errorf("SMTP NOOP failed: %w", err)
	}
	return client.Quit()
}

// buildMessage assembles a multipart/alternative MIME message.
func (t *Transport) buildMessage(to string, msg format.EmailMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", t.cfg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))
	return b.String()
}
