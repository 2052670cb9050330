// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
)

// Field is one labelled line of a notification.
type Field struct {
	Label string
	Value string
}

// Notification is the content of a submission e-mail.
type Notification struct {
	Subject string
	Title   string
	// ReplyTo is the submitter's address, used when it is valid.
	ReplyTo string
	Fields  []Field
}

var htmlBody = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2 style="margin: 0 0 16px;">{{.Title}}</h2>
<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse; border-color: #ddd;">
{{- range .Fields}}
<tr><th align="left" style="background: #f5f5f5;">{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// BuildMessage renders n as a multipart/alternative RFC 5322 message.
func BuildMessage(s Settings, n Notification, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := writePart(mw, "text/plain; charset=UTF-8", []byte(plainBody(n))); err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, n); err != nil {
		return nil, fmt.Errorf("rendering mail body: %w", err)
	}
	if err := writePart(mw, "text/html; charset=UTF-8", html.Bytes()); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	from := mail.Address{Name: s.FromName, Address: s.From}

	var msg bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, v)
	}
	header("From", from.String())
	header("To", strings.Join(s.Recipients, ", "))
	if replyTo := headerSafe(n.ReplyTo); IsEmail(replyTo) {
		header("Reply-To", replyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", headerSafe(n.Subject)))
	header("Date", now.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `multipart/alternative; boundary="`+mw.Boundary()+`"`)
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType string, data []byte) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating mail part: %w", err)
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write(data); err != nil {
		return fmt.Errorf("writing mail part: %w", err)
	}
	return qp.Close()
}

func plainBody(n Notification) string {
	var b strings.Builder
	if n.Title != "" {
		b.WriteString(n.Title)
		b.WriteString("\n\n")
	}
	for _, f := range n.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	return b.String()
}

// headerSafe removes line breaks so user input cannot add headers.
func headerSafe(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}
