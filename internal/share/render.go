// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package share

import (
	"bytes"
	"fmt"
	"html/template"
)

var pageTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="az">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<link rel="canonical" href="{{.CanonicalURL}}">
<meta property="og:type" content="{{.Type}}">
{{- if .SiteName}}
<meta property="og:site_name" content="{{.SiteName}}">
{{- end}}
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:image" content="{{.ImageURL}}">
<meta property="og:url" content="{{.CanonicalURL}}">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:description" content="{{.Description}}">
<meta name="twitter:image" content="{{.ImageURL}}">
<meta http-equiv="refresh" content="0; url={{.Redirect}}">
</head>
<body>
<p><a href="{{.Redirect}}">{{.Title}}</a></p>
<script>window.location.replace({{.Redirect}});</script>
</body>
</html>
`))

type pageData struct {
	Meta
	Redirect string
}

// Render produces the preview page for m. Crawlers read the meta tags;
// browsers are sent straight on to the app route.
func Render(m Meta) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Meta: m, Redirect: HashRoute(m.FrontendPath)}); err != nil {
		return nil, fmt.Errorf("rendering share page: %w", err)
	}
	return buf.Bytes(), nil
}
