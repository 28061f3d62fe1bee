package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
)

// SMTPSender delivers mail over SMTP. Transport failures are logged and not
// returned.
type SMTPSender struct {
	Host   string
	Port   string
	User   string
	Pass   string
	From   string
	UseTLS bool

	Logger *slog.Logger
}

func (s *SMTPSender) Send(ctx context.Context, msg Email) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("email recipient is required")
	}

	body, err := buildMessage(s.From, msg)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	if err := s.deliver(ctx, msg.To, body); err != nil {
		s.logger().ErrorContext(ctx, "email delivery failed",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
		return nil
	}

	s.logger().InfoContext(ctx, "email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *SMTPSender) deliver(ctx context.Context, to string, body []byte) error {
	addr := net.JoinHostPort(s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	if !s.UseTLS {
		return smtp.SendMail(addr, auth, s.From, []string{to}, body)
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Quit()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(s.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

// buildMessage renders msg as RFC 5322 text, multipart/alternative when an
// HTML body is present.
func buildMessage(from string, msg Email) ([]byte, error) {
	var buf bytes.Buffer
	writeHeader := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}

	writeHeader("From", from)
	writeHeader("To", msg.To)
	writeHeader("Subject", msg.Subject)
	writeHeader("MIME-Version", "1.0")

	if msg.HTML == "" {
		writeHeader("Content-Type", `text/plain; charset="utf-8"`)
		buf.WriteString("\r\n")
		buf.WriteString(msg.Text)
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	writeHeader("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	for _, p := range []struct{ contentType, body string }{
		{`text/plain; charset="utf-8"`, msg.Text},
		{`text/html; charset="utf-8"`, msg.HTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}
