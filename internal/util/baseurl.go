// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers shared by the HTTP layer.
package util

import (
	"net/http"
	"strings"
)

// BaseURL turns site-relative paths into absolute URLs.
// A configured public URL always wins over anything derived from the request.
type BaseURL struct {
	Public string
}

// Origin returns scheme://host for r. Without a public URL the scheme comes
// from X-Forwarded-Proto, then the connection's TLS state; the host defaults
// to localhost.
func (b BaseURL) Origin(r *http.Request) string {
	if public := strings.TrimRight(strings.TrimSpace(b.Public), "/"); public != "" {
		return public
	}

	scheme := "http"
	host := "localhost"
	if r != nil {
		if proto := forwardedProto(r); proto != "" {
			scheme = proto
		} else if r.TLS != nil {
			scheme = "https"
		}
		if r.Host != "" {
			host = r.Host
		}
	}
	return scheme + "://" + host
}

// Absolute resolves path against the origin of r. Absolute URLs and the
// empty string are returned unchanged.
func (b BaseURL) Absolute(r *http.Request, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || IsAbsoluteURL(path) {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.Origin(r) + path
}

// Resolver binds Absolute to a single request.
func (b BaseURL) Resolver(r *http.Request) func(string) string {
	return func(path string) string {
		return b.Absolute(r, path)
	}
}

// IsAbsoluteURL reports whether s carries an http or https scheme.
func IsAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func forwardedProto(r *http.Request) string {
	v := r.Header.Get("X-Forwarded-Proto")
	if v == "" {
		return ""
	}
	// Proxies may append their own value: "https, http".
	first, _, _ := strings.Cut(v, ",")
	first = strings.ToLower(strings.TrimSpace(first))
	if first != "http" && first != "https" {
		return ""
	}
	return first
}
