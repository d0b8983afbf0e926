package export

import (
	"bytes"
	"context"
	"html/template"

	"github.com/ahmedtravel/playbook/internal/ports"
)

// HTMLExporter renders a standalone HTML quote card. Catalog strings are
// escaped by html/template.
type HTMLExporter struct {
	tmpl *template.Template
}

var _ ports.QuoteExporter = (*HTMLExporter)(nil)

// NewHTMLExporter parses the embedded HTML template.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/quote.html.tmpl")),
	}
}

func (e *HTMLExporter) Format() string      { return "html" }
func (e *HTMLExporter) ContentType() string { return "text/html; charset=utf-8" }

func (e *HTMLExporter) Export(ctx context.Context, doc ports.QuoteDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, newQuoteView(doc)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
