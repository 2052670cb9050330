// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package share

import (
	"strings"

	"github.com/olegiv/sitedesk/internal/content"
)

// Rule maps a family of front-end paths to preview metadata.
type Rule struct {
	Name string
	// Match reports whether path belongs to the rule, returning captured ids.
	Match func(path string) ([]string, bool)
	// Resolve extracts page metadata; ok is false when a captured id is unknown.
	Resolve func(doc content.Document, params []string) (page, bool)
}

// Rules is evaluated in order and the first matching rule wins.
// Static pages come before the id patterns.
var Rules = []Rule{
	staticRule("home", "/", "home"),
	staticRule("about", "/haqqimizda", "about"),
	staticRule("blog", "/blog", "blog"),
	staticRule("podcast", "/podcast", "podcast"),
	staticRule("education", "/tedris", "education"),
	staticRule("contact", "/elaqe", "contact"),
	staticRule("privacy", "/mexfilik", "privacy"),
	staticRule("terms", "/qaydalar", "terms"),
	{
		Name:  "blog-post",
		Match: segmentsMatcher("blog", false),
		Resolve: func(doc content.Document, params []string) (page, bool) {
			post := findByID(doc.List("blog", "posts"), params[0])
			if post == nil {
				return page{}, false
			}
			return blogPostPage(post), true
		},
	},
	{
		Name:  "course",
		Match: segmentsMatcher("tedris", true),
		Resolve: func(doc content.Document, params []string) (page, bool) {
			course := findByID(doc.List("education", "courses"), params[0])
			if course == nil {
				return page{}, false
			}
			return itemPage(course), true
		},
	},
	{
		Name:  "podcast-episode",
		Match: segmentsMatcher("podcast", false),
		Resolve: func(doc content.Document, params []string) (page, bool) {
			episode := findByID(doc.List("podcast", "episodes"), params[0])
			if episode == nil {
				return page{}, false
			}
			return itemPage(episode), true
		},
	},
}

// staticRule pulls metadata from doc[section]: its seo block first, then
// its own title and description fields, then its hero.
func staticRule(name, path, section string) Rule {
	return Rule{
		Name: name,
		Match: func(p string) ([]string, bool) {
			return nil, p == path
		},
		Resolve: func(doc content.Document, _ []string) (page, bool) {
			s := func(keys ...string) string {
				return doc.String(append([]string{section}, keys...)...)
			}
			return page{
				typ:   TypeWebsite,
				title: firstNonEmpty(s("seo", "title"), s("title"), s("hero", "title")),
				description: plainText(firstNonEmpty(
					s("seo", "description"),
					s("description"),
					s("subtitle"),
					s("hero", "subtitle"),
					s("hero", "description"),
				)),
				image: firstNonEmpty(s("seo", "image"), s("image"), s("hero", "image")),
			}, true
		},
	}
}

// segmentsMatcher matches /{prefix}/{id} and, when allowPlayer is set,
// /{prefix}/{id}/player.
func segmentsMatcher(prefix string, allowPlayer bool) func(string) ([]string, bool) {
	return func(p string) ([]string, bool) {
		parts := splitPath(p)
		switch {
		case len(parts) == 2 && parts[0] == prefix:
			return []string{parts[1]}, true
		case allowPlayer && len(parts) == 3 && parts[0] == prefix && parts[2] == "player":
			return []string{parts[1]}, true
		}
		return nil, false
	}
}

// findByID returns the first object in list whose id equals id as a string.
func findByID(list []any, id string) map[string]any {
	for _, item := range list {
		obj := content.AsObject(item)
		if obj != nil && content.ToString(obj["id"]) == id {
			return obj
		}
	}
	return nil
}

func blogPostPage(post map[string]any) page {
	p := itemPage(post)
	p.typ = TypeArticle
	if text := paragraphText(post); text != "" {
		p.description = text
	}
	return p
}

func itemPage(item map[string]any) page {
	doc := content.Document(item)
	return page{
		typ:   TypeArticle,
		title: firstNonEmpty(doc.String("seo", "title"), doc.String("title"), doc.String("name")),
		description: plainText(firstNonEmpty(
			doc.String("seo", "description"),
			doc.String("excerpt"),
			doc.String("description"),
			doc.String("shortDescription"),
		)),
		image: firstNonEmpty(
			doc.String("seo", "image"),
			doc.String("image"),
			doc.String("coverImage"),
			doc.String("cover"),
			doc.String("thumbnail"),
		),
	}
}

// paragraphText joins the plain text of every paragraph block of a post.
// Blocks may sit at post.blocks or post.content.blocks.
func paragraphText(post map[string]any) string {
	doc := content.Document(post)
	blocks := doc.List("blocks")
	if blocks == nil {
		blocks = doc.List("content", "blocks")
	}

	var parts []string
	for _, b := range blocks {
		block := content.Document(content.AsObject(b))
		if block.String("type") != "paragraph" {
			continue
		}
		if text := plainText(block.String("data", "text")); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
