// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package share

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxDescription is the hard limit on description length, in characters.
const MaxDescription = 300

var (
	stripPolicy = bluemonday.StrictPolicy()

	// Block-level boundaries become spaces so adjacent paragraphs do not fuse.
	blockBreaks = strings.NewReplacer(
		"<br", " <br",
		"</p>", "</p> ",
		"</div>", "</div> ",
		"</li>", "</li> ",
		"</h1>", "</h1> ", "</h2>", "</h2> ", "</h3>", "</h3> ",
	)
)

// plainText strips markup and collapses whitespace.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(stripPolicy.Sanitize(blockBreaks.Replace(s)))
	return strings.Join(strings.Fields(stripped), " ")
}

// truncate cuts s to at most n characters without adding an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
