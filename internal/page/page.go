// Package page renders the search page served when a request names no title.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed assets/page.html.tmpl assets/page.css assets/page.js
var assets embed.FS

// DetailIDs are the ids of the list items the page script fills in, in
// display order.
var DetailIDs = []string{
	"rated",
	"released",
	"director",
	"writer",
	"actors",
	"language",
	"country",
	"awards",
	"ratings",
	"metascore",
	"imdb-rating",
	"imdb-votes",
	"imdb-id",
	"type",
	"dvd",
	"box-office",
	"production",
	"website",
}

type pageData struct {
	DefaultTitle string
	Style        template.CSS
	Script       template.JS
	Details      []string
}

var (
	pageTemplate *template.Template
	pageStyle    template.CSS
	pageScript   template.JS
)

func init() {
	pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))
	pageStyle = template.CSS(mustRead("assets/page.css"))
	pageScript = template.JS(mustRead("assets/page.js"))
}

func mustRead(name string) []byte {
	content, err := assets.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("page: embedded asset %s: %v", name, err))
	}
	return content
}

// New renders the page with defaultTitle in the search box. The result
// depends only on defaultTitle, so callers render once and reuse it.
func New(defaultTitle string) (string, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		DefaultTitle: defaultTitle,
		Style:        pageStyle,
		Script:       pageScript,
		Details:      DetailIDs,
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}
