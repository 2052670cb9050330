// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail sends submission notifications over SMTP using the settings
// stored in the content document.
package mail

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/olegiv/sitedesk/internal/content"
)

// Default SMTP ports.
const (
	DefaultPort     = 587
	ImplicitTLSPort = 465
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s looks like a deliverable address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Settings is the SMTP configuration read from settings.smtp.
type Settings struct {
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	FromName   string
	Secure     bool
	Recipients []string
}

// SettingsFrom reads SMTP settings and notification recipients from doc.
// Recipients come from settings.smtp.notifyTo, else settings.notifyEmail.
func SettingsFrom(doc content.Document) Settings {
	smtp := func(key string) string {
		return strings.TrimSpace(doc.String("settings", "smtp", key))
	}

	s := Settings{
		Host:     smtp("host"),
		User:     smtp("user"),
		Pass:     doc.String("settings", "smtp", "pass"),
		From:     smtp("from"),
		FromName: smtp("fromName"),
		Secure:   parseBool(smtp("secure")),
	}
	if s.From == "" && IsEmail(s.User) {
		s.From = s.User
	}

	s.Port, _ = strconv.Atoi(smtp("port"))
	if s.Port <= 0 {
		s.Port = DefaultPort
		if s.Secure {
			s.Port = ImplicitTLSPort
		}
	}

	s.Recipients = ParseRecipients(recipientsValue(doc.Lookup("settings", "smtp", "notifyTo")))
	if len(s.Recipients) == 0 {
		s.Recipients = ParseRecipients(recipientsValue(doc.Lookup("settings", "notifyEmail")))
	}
	return s
}

// Configured reports whether a message could be sent at all.
func (s Settings) Configured() bool {
	return s.Host != "" && s.From != "" && len(s.Recipients) > 0
}

// ImplicitTLS reports whether the connection starts with TLS rather than STARTTLS.
func (s Settings) ImplicitTLS() bool {
	return s.Secure || s.Port == ImplicitTLSPort
}

// Addr returns host:port.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

var recipientSeparators = func(r rune) bool {
	switch r {
	case ',', ';', '\n', '\r', '،':
		return true
	}
	return false
}

// ParseRecipients splits a recipient list on commas, semicolons, newlines and
// Arabic commas, drops invalid addresses and removes case-insensitive duplicates.
func ParseRecipients(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.FieldsFunc(raw, recipientSeparators) {
		addr := strings.TrimSpace(part)
		if !IsEmail(addr) {
			continue
		}
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, addr)
	}
	return out
}

// recipientsValue accepts either a delimited string or an array of strings.
func recipientsValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, content.ToString(item))
		}
		return strings.Join(parts, ",")
	}
	return content.ToString(v)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on", "ssl", "tls":
		return true
	}
	return false
}
