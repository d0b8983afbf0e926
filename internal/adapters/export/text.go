package export

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/ahmedtravel/playbook/internal/ports"
)

// TextExporter renders the WhatsApp-ready quote block.
type TextExporter struct {
	tmpl *template.Template
}

var _ ports.QuoteExporter = (*TextExporter)(nil)

// NewTextExporter parses the embedded text template.
func NewTextExporter() *TextExporter {
	return &TextExporter{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/quote.txt.tmpl")),
	}
}

func (e *TextExporter) Format() string      { return "text" }
func (e *TextExporter) ContentType() string { return "text/plain; charset=utf-8" }

// Export renders doc.
func (e *TextExporter) Export(ctx context.Context, doc ports.QuoteDocument) ([]byte, error) {
	s, err := e.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}

// Render returns the text block as a string.
func (e *TextExporter) Render(ctx context.Context, doc ports.QuoteDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, newQuoteView(doc)); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
