// Package views embeds the HTML templates and the helpers they call.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"pageURL": PageURL,
}

// Load parses every embedded template. Each page is addressable by its file name.
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// PageURL builds the query string of a pagination link, keeping a non-empty model search
func PageURL(search interface{}, page int) template.URL {
	values := url.Values{}
	if s, ok := search.(string); ok && s != "" {
		values.Set("model", s)
	}
	values.Set("page", strconv.Itoa(page))
	return template.URL("?" + values.Encode())
}
