package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/postforge/postforge/internal/platform"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageFuncs = template.FuncMap{
	"display": platform.DisplayName,
	"join":    strings.Join,
	"percent": func(count, limit int) int {
		if limit <= 0 {
			return 0
		}
		p := count * 100 / limit
		if p > 100 {
			p = 100
		}
		return p
	},
}

// Each page is parsed together with the shared layout so it can fill
// the layout's content slot.
func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(pageFuncs).ParseFS(templatesFS,
		"templates/layout.html", "templates/"+name))
}

var (
	indexPage   = parsePage("index.html")
	resultsPage = parsePage("results.html")
	runsPage    = parsePage("runs.html")
	runPage     = parsePage("run.html")
)
