// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package share builds link-preview metadata for front-end routes from the
// content document, and renders the crawler-facing preview page.
package share

import (
	"github.com/olegiv/sitedesk/internal/content"
)

// DefaultImage is used when neither the page nor the site settings name an image.
const DefaultImage = "/og-default.jpg"

// Open Graph types.
const (
	TypeWebsite = "website"
	TypeArticle = "article"
)

// Meta is the resolved preview metadata for one front-end path.
type Meta struct {
	Type         string
	SiteName     string
	Title        string
	Description  string // at most MaxDescription characters
	ImageURL     string // absolute
	FrontendPath string // normalized path inside the single-page app
	CanonicalURL string // absolute hash-route URL of FrontendPath
}

// AbsFunc turns a site-relative path into an absolute URL.
type AbsFunc func(path string) string

// page is what a rule extracts before defaults and URL resolution are applied.
type page struct {
	typ         string
	title       string
	description string
	image       string
}

// Resolve computes preview metadata for rawPath. It never fails: unknown
// routes and unknown ids produce the site's default metadata.
func Resolve(doc content.Document, rawPath string, abs AbsFunc) Meta {
	path := NormalizePath(rawPath)

	p, ok := page{}, false
	for _, rule := range Rules {
		params, matched := rule.Match(path)
		if !matched {
			continue
		}
		p, ok = rule.Resolve(doc, params)
		break
	}
	if !ok {
		p = page{}
	}

	return finish(doc, path, p, abs)
}

// ResolveBlogPost resolves the preview of a single blog post. ok is false
// when no post has that id.
func ResolveBlogPost(doc content.Document, id string, abs AbsFunc) (Meta, bool) {
	post := findByID(doc.List("blog", "posts"), id)
	if post == nil {
		return Meta{}, false
	}
	return finish(doc, "/blog/"+id, blogPostPage(post), abs), true
}

// finish applies the site-wide fallback chain and URL resolution.
func finish(doc content.Document, path string, p page, abs AbsFunc) Meta {
	siteName := firstNonEmpty(doc.String("settings", "siteName"), doc.String("settings", "seo", "title"))

	typ := p.typ
	if typ == "" {
		typ = TypeWebsite
	}

	image := firstNonEmpty(
		p.image,
		doc.String("settings", "seo", "image"),
		doc.String("settings", "seo", "ogImage"),
		DefaultImage,
	)

	return Meta{
		Type:     typ,
		SiteName: siteName,
		Title: firstNonEmpty(
			p.title,
			doc.String("settings", "seo", "title"),
			doc.String("settings", "siteName"),
		),
		Description: truncate(firstNonEmpty(
			p.description,
			plainText(doc.String("settings", "seo", "description")),
			doc.String("settings", "siteName"),
		), MaxDescription),
		ImageURL:     abs(image),
		FrontendPath: path,
		CanonicalURL: abs(HashRoute(path)),
	}
}

// HashRoute returns the single-page app URL path for a front-end path.
func HashRoute(path string) string {
	return "/#" + path
}
