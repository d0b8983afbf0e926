package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// FormatPDF is the exporter format gated behind ports.FlagPDFExport.
const FormatPDF = "pdf"

// ExportService renders quotes and quote history for download.
type ExportService struct {
	pricing     *PricingService
	exporters   map[string]ports.QuoteExporter
	history     ports.HistoryExporter
	flags       ports.FeatureFlags
	companyName string
	whatsApp    string
	now         func() time.Time
	logger      *slog.Logger
}

// ExportServiceConfig contains configuration for the export service.
type ExportServiceConfig struct {
	Pricing   *PricingService
	Exporters []ports.QuoteExporter
	History   ports.HistoryExporter

	// Flags may be nil, in which case PDF export stays enabled.
	Flags       ports.FeatureFlags
	CompanyName string
	WhatsApp    string
	Now         func() time.Time
	Logger      *slog.Logger
}

// Export is a rendered document ready to send.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

// NewExportService creates an export service.
func NewExportService(cfg ExportServiceConfig) *ExportService {
	if cfg.Pricing == nil {
		panic("export service requires a pricing service")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	exporters := make(map[string]ports.QuoteExporter, len(cfg.Exporters))
	for _, e := range cfg.Exporters {
		exporters[e.Format()] = e
	}

	return &ExportService{
		pricing:     cfg.Pricing,
		exporters:   exporters,
		history:     cfg.History,
		flags:       cfg.Flags,
		companyName: cfg.CompanyName,
		whatsApp:    cfg.WhatsApp,
		now:         now,
		logger:      logger.With(slog.String("component", "app.ExportService")),
	}
}

// Formats lists the quote formats currently available, sorted.
func (s *ExportService) Formats(ctx context.Context) []string {
	out := make([]string, 0, len(s.exporters))

	for format := range s.exporters {
		if s.enabled(ctx, format) {
			out = append(out, format)
		}
	}

	sort.Strings(out)

	return out
}

// ExportQuote prices req and renders it in format.
func (s *ExportService) ExportQuote(ctx context.Context, format string, req domain.QuoteRequest) (*Export, error) {
	format = strings.ToLower(format)

	exporter, ok := s.exporters[format]
	if !ok || !s.enabled(ctx, format) {
		return nil, domain.NewValidationErrorWithValue("format", "unsupported export format", format)
	}

	q, err := s.pricing.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	issued := s.now()
	doc := ports.QuoteDocument{
		Quote:       q,
		Reference:   quoteReference(issued),
		IssuedAt:    issued,
		CompanyName: s.companyName,
		WhatsApp:    s.whatsApp,
	}

	body, err := exporter.Export(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering %s quote: %w", format, err)
	}

	requestLogger(ctx, s.logger).DebugContext(ctx, "quote exported",
		slog.String("format", format),
		slog.String("reference", doc.Reference),
		slog.Int("bytes", len(body)),
	)

	return &Export{
		ContentType: exporter.ContentType(),
		Filename:    fmt.Sprintf("quote-%s.%s", strings.ToLower(doc.Reference), fileExtension(format)),
		Body:        body,
	}, nil
}

// ExportHistory renders owner's recent quotes as a table.
func (s *ExportService) ExportHistory(ctx context.Context, owner string) (*Export, error) {
	if s.history == nil {
		return nil, domain.NewUnavailableError("history export", "no history exporter configured")
	}

	var buf bytes.Buffer

	err := s.history.WriteHistory(&buf, s.pricing.Recent(ctx, owner))
	if err != nil {
		return nil, fmt.Errorf("writing quote history: %w", err)
	}

	return &Export{
		ContentType: s.history.ContentType(),
		Filename:    "recent-quotes-" + s.now().Format("20060102") + ".csv",
		Body:        buf.Bytes(),
	}, nil
}

func (s *ExportService) enabled(ctx context.Context, format string) bool {
	if format != FormatPDF || s.flags == nil {
		return true
	}

	return s.flags.IsEnabled(ctx, ports.FlagPDFExport, true)
}

// quoteReference is a short human-readable id such as AT-20261016-1A2B3C.
func quoteReference(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

	return "AT-" + at.Format("20060102") + "-" + suffix
}

func fileExtension(format string) string {
	if format == "text" {
		return "txt"
	}

	return format
}
