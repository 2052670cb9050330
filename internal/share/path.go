// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package share

import (
	"net/url"
	"regexp"
	"strings"
)

var schemeHostPrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://[^/?#]*`)

// NormalizePath reduces any front-end location (path, hash route or full
// URL) to the path the rule table matches against.
//
//	"https://site.az/blog/5/?x=1#y" -> "/blog/5"
//	"/elaqe/"                       -> "/elaqe"
//	"" and "/"                      -> "/"
func NormalizePath(raw string) string {
	p := strings.TrimSpace(raw)
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}

	p = schemeHostPrefix.ReplaceAllString(p, "")

	// Hash-routed links ("/#/blog/5") carry the route in the fragment.
	if rest, ok := strings.CutPrefix(p, "/#/"); ok {
		p = "/" + rest
	} else if rest, ok := strings.CutPrefix(p, "#/"); ok {
		p = "/" + rest
	}

	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}

// splitPath returns the non-empty segments of a normalized path.
func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
