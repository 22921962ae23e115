package api

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/learnstreak/coach/internal/store"
)

var entryPageTmpl = template.Must(template.New("entry").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 42rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
.meta { color: #666; font-size: 0.9rem; }
.tags span { background: #eef; border-radius: 4px; padding: 0 0.4rem; margin-right: 0.3rem; }
</style>
</head>
<body>
<h1>{{.Mood}} {{.Title}}</h1>
<p class="meta">{{.PublishedAt.Format "January 2, 2006"}} · {{.Minutes}} min</p>
<p><em>{{.Summary}}</em></p>
{{.Body}}
{{if .Tags}}<p class="tags">{{range .Tags}}<span>{{.}}</span>{{end}}</p>{{end}}
</body>
</html>
`))

type entryPage struct {
	*store.StoredEntry
	Body template.HTML
}

// renderEntryPage converts the entry's markdown body to HTML and wraps it in
// the public page template.
func renderEntryPage(entry *store.StoredEntry) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(entry.Content), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var page bytes.Buffer
	err := entryPageTmpl.Execute(&page, entryPage{
		StoredEntry: entry,
		Body:        template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return page.Bytes(), nil
}
