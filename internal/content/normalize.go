// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"maps"
	"strconv"
	"strings"
)

// defaultSocialLinks are merged under settings.footer.socialLinks.
var defaultSocialLinks = map[string]any{
	"instagram": "https://www.instagram.com/",
	"facebook":  "https://www.facebook.com/",
	"youtube":   "https://www.youtube.com/",
	"linkedin":  "https://www.linkedin.com/",
	"telegram":  "https://t.me/",
	"tiktok":    "",
}

// defaultFooter is merged under settings.footer. socialLinks is handled separately.
var defaultFooter = map[string]any{
	"description":  "",
	"address":      "Bakı, Azərbaycan",
	"phone":        "",
	"email":        "",
	"workingHours": "",
	"copyright":    "© Bütün hüquqlar qorunur.",
}

// DefaultFooter returns a fresh copy of the built-in footer, including socialLinks.
func DefaultFooter() map[string]any {
	footer := maps.Clone(defaultFooter)
	footer["socialLinks"] = maps.Clone(defaultSocialLinks)
	return footer
}

// Normalize returns the canonical form of any decoded JSON value. It never fails:
// non-object inputs at any level are treated as empty objects.
//
// Guarantees on the result:
//   - clients is an array of {id, name, logoUrl} strings with non-empty ids
//   - home.benefit.fileUrl exists
//   - settings.footer holds every default key; supplied keys win one by one,
//     and socialLinks is merged the same way one level deeper
//
// Keys the normalizer does not know about are kept as they are.
// Normalize(Normalize(x)) equals Normalize(x).
func Normalize(raw any) Document {
	src, _ := asObject(raw)
	doc := Document(maps.Clone(src))
	if doc == nil {
		doc = Document{}
	}

	doc["clients"] = normalizeClients(doc["clients"])

	home := cloneObject(doc["home"])
	benefit := cloneObject(home["benefit"])
	benefit["fileUrl"] = toString(benefit["fileUrl"])
	home["benefit"] = benefit
	doc["home"] = home

	settings := cloneObject(doc["settings"])
	settings["footer"] = mergeFooter(settings["footer"])
	doc["settings"] = settings

	return doc
}

// cloneObject returns a shallow copy of v, or an empty map when v is not an object.
func cloneObject(v any) map[string]any {
	obj, ok := asObject(v)
	if !ok || obj == nil {
		return map[string]any{}
	}
	return maps.Clone(obj)
}

func normalizeClients(v any) []any {
	list, _ := v.([]any)
	clients := make([]any, 0, len(list))
	for i, item := range list {
		obj, _ := asObject(item)
		id := strings.TrimSpace(toString(obj["id"]))
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		clients = append(clients, map[string]any{
			"id":      id,
			"name":    toString(obj["name"]),
			"logoUrl": toString(obj["logoUrl"]),
		})
	}
	return clients
}

func mergeFooter(v any) map[string]any {
	supplied, _ := asObject(v)

	footer := maps.Clone(defaultFooter)
	for key, value := range supplied {
		if key == "socialLinks" {
			continue
		}
		footer[key] = value
	}

	links := maps.Clone(defaultSocialLinks)
	if suppliedLinks, ok := asObject(supplied["socialLinks"]); ok {
		maps.Copy(links, suppliedLinks)
	}
	footer["socialLinks"] = links

	return footer
}
