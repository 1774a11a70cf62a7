package emailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

var ErrIncompleteConfig = errors.New("smtp host and port are required")

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	// Secure dials TLS directly instead of upgrading with STARTTLS.
	Secure bool
}

type SMTPService struct {
	cfg    SMTPConfig
	logger zerolog.Logger
}

func NewSMTPService(cfg SMTPConfig, logger zerolog.Logger) (*SMTPService, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, ErrIncompleteConfig
	}
	logger = logger.With().Str("component", "SMTPService").Logger()
	return &SMTPService{cfg: cfg, logger: logger}, nil
}

func (e *SMTPService) Send(ctx context.Context, msg models.Email) error {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("parse from address: %w", err)
	}

	conn, err := e.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() {
		_ = c.Close()
	}()

	if !e.cfg.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: e.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if e.cfg.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", e.cfg.User, e.cfg.Password, e.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(from.Address); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(ComposeMessage(msg, time.Now())); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	e.logger.Debug().Ctx(ctx).Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return c.Quit()
}

func (e *SMTPService) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(e.cfg.Host, e.cfg.Port)
	if e.cfg.Secure {
		d := &tls.Dialer{Config: &tls.Config{ServerName: e.cfg.Host, MinVersion: tls.VersionTLS12}}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// ComposeMessage renders a plain-text RFC 5322 message with CRLF line endings.
func ComposeMessage(msg models.Email, at time.Time) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + at.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.Write(bytes.ReplaceAll([]byte(msg.Text), []byte("\n"), []byte("\r\n")))
	b.WriteString("\r\n")
	return b.Bytes()
}
