package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

//go:embed templates/description.html
var templatesFS embed.FS

// DescriptionRenderer renders the HTML description attached to enriched articles.
type DescriptionRenderer struct {
	tmpl *template.Template
}

var _ ports.Renderer = (*DescriptionRenderer)(nil)

// NewDescriptionRenderer parses the embedded description template.
func NewDescriptionRenderer() (*DescriptionRenderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/description.html")
	if err != nil {
		return nil, fmt.Errorf("parse description template: %w", err)
	}
	return &DescriptionRenderer{tmpl: tmpl}, nil
}

// NewFromTemplate wraps an already parsed template, e.g. a deployment override.
func NewFromTemplate(tmpl *template.Template) *DescriptionRenderer {
	return &DescriptionRenderer{tmpl: tmpl}
}

// Render executes the template with the article as data.
func (r *DescriptionRenderer) Render(article domain.Article) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, article); err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrRender, article.Link, err)
	}
	return buf.String(), nil
}
