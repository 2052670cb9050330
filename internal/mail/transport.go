// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

// Sender delivers one fully built message.
type Sender interface {
	Send(ctx context.Context, s Settings, msg []byte) error
}

// SMTPSender talks to the configured SMTP server. Port 465 (or secure=true)
// means implicit TLS; otherwise STARTTLS is used when the server offers it.
type SMTPSender struct{}

// Send dials, authenticates when a user is configured, and transmits msg.
// The context deadline bounds the whole exchange.
func (SMTPSender) Send(ctx context.Context, s Settings, msg []byte) error {
	conn, err := dial(ctx, s)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer func() { _ = c.Close() }()

	if !s.ImplicitTLS() {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if s.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.User, s.Pass, s.Host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(s.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range s.Recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}

	if err := c.Quit(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("smtp quit: %w", err)
	}
	return nil
}

func dial(ctx context.Context, s Settings) (net.Conn, error) {
	d := &net.Dialer{}
	if deadline, ok := ctx.Deadline(); ok {
		d.Timeout = time.Until(deadline)
	}

	if s.ImplicitTLS() {
		td := &tls.Dialer{
			NetDialer: d,
			Config:    &tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12},
		}
		conn, err := td.DialContext(ctx, "tcp", s.Addr())
		if err != nil {
			return nil, fmt.Errorf("smtp dial %s: %w", s.Addr(), err)
		}
		return conn, nil
	}

	conn, err := d.DialContext(ctx, "tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", s.Addr(), err)
	}
	return conn, nil
}
