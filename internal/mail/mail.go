// Package mail composes and delivers the transactional emails the API sends.
package mail

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net"
	"strconv"
	"text/template"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Transport delivers an already composed RFC 5322 message.
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg io.Reader) error
}

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends messages through an SMTP relay, upgrading with
// STARTTLS when the server offers it.
type SMTPTransport struct {
	addr string
	auth sasl.Client
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	t := &SMTPTransport{addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))}
	if cfg.Username != "" {
		t.auth = sasl.NewPlainClient("", cfg.Username, cfg.Password)
	}
	return t
}

func (t *SMTPTransport) Send(ctx context.Context, from string, to []string, msg io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtp.SendMail(t.addr, t.auth, from, to, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", t.addr, err)
	}
	return nil
}

const resetSubject = "Reset Password Notification"

var resetText = template.Must(template.New("reset").Parse(`Taskify Password Reset

You are receiving this email because we received a password reset request for your account.

Reset your password: {{.URL}}

This password reset link will expire in {{.Minutes}} minutes.

If you did not request a password reset, no further action is required.
`))

var resetHTML = htmltemplate.Must(htmltemplate.New("reset-html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h1>Taskify Password Reset</h1>
  <p>You are receiving this email because we received a password reset request for your account.</p>
  <p><a href="{{.URL}}" style="display:inline-block;padding:10px 18px;background:#2563eb;color:#fff;text-decoration:none;border-radius:4px;">Reset Password</a></p>
  <p>This password reset link will expire in {{.Minutes}} minutes.</p>
  <p>If you did not request a password reset, no further action is required.</p>
</body>
</html>
`))

// ResetMailer sends password reset links.
type ResetMailer struct {
	transport Transport
	from      *mail.Address
	ttl       time.Duration
	now       func() time.Time
}

func NewResetMailer(transport Transport, fromAddress, fromName string, ttl time.Duration) *ResetMailer {
	return &ResetMailer{
		transport: transport,
		from:      &mail.Address{Name: fromName, Address: fromAddress},
		ttl:       ttl,
		now:       time.Now,
	}
}

// SendPasswordReset mails resetURL to the given address.
func (m *ResetMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	var buf bytes.Buffer
	if err := m.compose(&buf, to, resetURL); err != nil {
		return err
	}
	return m.transport.Send(ctx, m.from.Address, []string{to}, &buf)
}

func (m *ResetMailer) compose(w io.Writer, to, resetURL string) error {
	var h mail.Header
	h.SetDate(m.now())
	h.SetAddressList("From", []*mail.Address{m.from})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(resetSubject)
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("failed to generate message id: %w", err)
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("failed to create mail writer: %w", err)
	}
	body, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("failed to create inline body: %w", err)
	}

	data := struct {
		URL     string
		Minutes int
	}{URL: resetURL, Minutes: int(m.ttl.Minutes())}

	if err := writePart(body, "text/plain", resetText, data); err != nil {
		return err
	}
	if err := writePart(body, "text/html", resetHTML, data); err != nil {
		return err
	}

	if err := body.Close(); err != nil {
		return err
	}
	return mw.Close()
}

type renderer interface {
	Execute(w io.Writer, data any) error
}

func writePart(body *mail.InlineWriter, contentType string, tmpl renderer, data any) error {
	var h mail.InlineHeader
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	part, err := body.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if err := tmpl.Execute(part, data); err != nil {
		_ = part.Close()
		return fmt.Errorf("failed to render %s part: %w", contentType, err)
	}
	return part.Close()
}
