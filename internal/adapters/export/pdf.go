package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/ahmedtravel/playbook/internal/ports"
)

const (
	qrImageName = "whatsapp-qr"
	qrSizePx    = 256
	qrSizeMM    = 40.0
)

// PDFExporter renders an A5 quote with a QR code that opens a WhatsApp
// chat prefilled with the text quote.
type PDFExporter struct {
	text *TextExporter
}

var _ ports.QuoteExporter = (*PDFExporter)(nil)

// NewPDFExporter creates a PDF exporter. text renders the QR payload.
func NewPDFExporter(text *TextExporter) *PDFExporter {
	if text == nil {
		text = NewTextExporter()
	}

	return &PDFExporter{text: text}
}

func (e *PDFExporter) Format() string      { return "pdf" }
func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Export(ctx context.Context, doc ports.QuoteDocument) ([]byte, error) {
	message, err := e.text.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering whatsapp message: %w", err)
	}

	qr, err := qrcode.Encode(WhatsAppLink(doc.WhatsApp, message), qrcode.Low, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}

	v := newQuoteView(doc)

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(v.Company+" Quote "+v.Reference, true)
	pdf.SetCreator(v.Company, true)

	if !doc.IssuedAt.IsZero() {
		pdf.SetCreationDate(doc.IssuedAt)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(245, 158, 11)
	pdf.CellFormat(0, 10, tr(v.Company+" Quote"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, tr(v.Reference+"  "+v.Issued), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(20, 20, 20)
	row := func(label, value string, bold bool) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(45, 7, tr(label), "", 0, "L", false, 0, "")

		style := ""
		if bold {
			style = "B"
		}

		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(0, 7, tr(value), "", 1, "R", false, 0, "")
	}

	row("Service", v.Service, false)
	row("Vehicle", v.Vehicle, false)
	row("Zone", v.ZoneLabel, false)
	row("Guests", fmt.Sprint(v.Guests), false)
	pdf.Ln(3)

	if v.ShowVehicleRate {
		row("Vehicle Rental", aed(v.VehicleRate), false)
	}

	row("Transfer/Logistics", aed(v.PickupRate), false)

	if v.AttractionsCost > 0 {
		row("Attractions", aed(v.AttractionsCost), false)

		for _, name := range v.Attractions {
			row("  "+name, "", false)
		}
	}

	pdf.Ln(3)
	row("Total", aed(v.Total), true)
	row("Per Person", aed(v.PerPerson), true)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImageName, opts, bytes.NewReader(qr))

	pageW, _ := pdf.GetPageSize()
	pdf.Ln(6)
	pdf.ImageOptions(qrImageName, (pageW-qrSizeMM)/2, pdf.GetY(), qrSizeMM, qrSizeMM, true, opts, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, "Scan to book on WhatsApp", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Thank you for choosing "+v.Company+"!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// WhatsAppLink builds a wa.me click-to-chat link. An empty number lets the
// customer pick the chat.
func WhatsAppLink(number, message string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}

func aed(amount int) string {
	return fmt.Sprintf("AED %d", amount)
}
