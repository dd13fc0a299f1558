package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	utf8Family    = "doc"
	builtinFamily = "Helvetica"
	pageMargin    = 20.0
	lineHeight    = 6.0
)

// PDFConfig holds configuration for the PDF renderer
type PDFConfig struct {
	// FontPath is an optional TTF with the glyphs the documents need.
	// Without it the builtin Helvetica is used and text is mapped to cp1252.
	FontPath string

	// LogoTimeout bounds logo decoding. Rendering continues without the logo past it.
	LogoTimeout time.Duration
}

// PDFRenderer renders documents to A4 PDF
type PDFRenderer struct {
	font        []byte
	logoTimeout time.Duration
	logger      *zap.Logger
}

// NewPDFRenderer creates a renderer. An unreadable font falls back to the builtin one.
func NewPDFRenderer(cfg PDFConfig, logger *zap.Logger) *PDFRenderer {
	r := &PDFRenderer{logoTimeout: cfg.LogoTimeout, logger: logger}
	if r.logoTimeout <= 0 {
		r.logoTimeout = time.Second
	}
	if cfg.FontPath != "" {
		font, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			logger.Warn("Failed to load PDF font, using builtin font",
				zap.String("font_path", cfg.FontPath),
				zap.Error(err))
		} else {
			r.font = font
		}
	}
	return r
}

// Render writes doc as PDF to w
func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title+" "+doc.InvoiceNumber, true)

	family := builtinFamily
	tr := func(s string) string { return s }
	if r.font != nil {
		pdf.AddUTF8FontFromBytes(utf8Family, "", r.font)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", r.font)
		family = utf8Family
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	r.drawLogo(pdf, doc.Logo)

	// Company block
	pdf.SetFont(family, "B", 13)
	pdf.CellFormat(contentWidth, lineHeight+1, tr(doc.Company.Name), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	for _, line := range doc.Company.Lines {
		pdf.CellFormat(contentWidth, lineHeight-1, tr(line), "", 1, "L", false, 0, "")
	}

	// Title
	pdf.Ln(6)
	pdf.SetFont(family, "B", 24)
	pdf.CellFormat(contentWidth, 14, tr(doc.Title), "B", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Bill-to on the left, meta on the right
	top := pdf.GetY()
	half := contentWidth / 2
	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(half, lineHeight, tr(doc.BillToTitle), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(half, lineHeight+1, tr(doc.BillTo.Name), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	for _, line := range doc.BillTo.Lines {
		pdf.CellFormat(half, lineHeight-1, tr(line), "", 1, "L", false, 0, "")
	}
	bottom := pdf.GetY()

	pdf.SetY(top)
	for _, f := range doc.Meta {
		pdf.SetX(pageMargin + half)
		pdf.CellFormat(half, lineHeight, tr(f.Label+": "+f.Value), "", 1, "R", false, 0, "")
	}
	if pdf.GetY() > bottom {
		bottom = pdf.GetY()
	}
	pdf.SetY(bottom + 8)

	// Items
	widths := [4]float64{contentWidth - 20 - 35 - 35, 20, 35, 35}
	aligns := [4]string{"L", "C", "R", "R"}
	pdf.SetFont(family, "B", 10)
	pdf.SetFillColor(51, 51, 51)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range doc.ItemHeader {
		pdf.CellFormat(widths[i], lineHeight+2, tr(h), "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont(family, "", 10)
	for _, item := range doc.Items {
		cells := [4]string{item.Description, item.Quantity, item.UnitPrice, item.Amount}
		for i, c := range cells {
			pdf.CellFormat(widths[i], lineHeight+2, tr(c), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals
	pdf.Ln(4)
	totalsLeft := pageMargin + contentWidth - 80
	for _, t := range doc.Totals {
		pdf.SetX(totalsLeft)
		style := ""
		if t.Grand {
			style = "B"
			pdf.SetTextColor(255, 255, 255)
		}
		pdf.SetFont(family, style, 10)
		pdf.CellFormat(40, lineHeight+2, tr(t.Label), "1", 0, "L", t.Grand, 0, "")
		pdf.CellFormat(40, lineHeight+2, tr(t.Value), "1", 1, "R", t.Grand, 0, "")
		pdf.SetTextColor(51, 51, 51)
	}

	if doc.HasBank() {
		pdf.Ln(10)
		pdf.SetFont(family, "B", 11)
		pdf.CellFormat(contentWidth, lineHeight+1, tr(doc.BankTitle), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 10)
		for _, f := range doc.Bank {
			pdf.CellFormat(contentWidth, lineHeight, tr(f.Label+": "+f.Value), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

type decodedLogo struct {
	data      []byte
	imageType string
	err       error
}

// drawLogo places the logo at the top left when it decodes within the timeout
func (r *PDFRenderer) drawLogo(pdf *gofpdf.Fpdf, src string) {
	if src == "" {
		return
	}

	result := make(chan decodedLogo, 1)
	go func() {
		data, imageType, err := decodeDataURL(src)
		result <- decodedLogo{data: data, imageType: imageType, err: err}
	}()

	var logo decodedLogo
	select {
	case logo = <-result:
	case <-time.After(r.logoTimeout):
		r.logger.Warn("Logo decoding timed out, rendering without logo", zap.Duration("timeout", r.logoTimeout))
		return
	}
	if logo.err != nil {
		r.logger.Warn("Logo skipped", zap.Error(logo.err))
		return
	}

	opts := gofpdf.ImageOptions{ImageType: logo.imageType, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.data))
	if !pdf.Ok() || info == nil {
		r.logger.Warn("Logo could not be embedded", zap.Error(pdf.Error()))
		pdf.ClearError()
		return
	}

	// Fit inside 50x20mm keeping aspect ratio
	w, h := info.Width(), info.Height()
	if w <= 0 || h <= 0 {
		return
	}
	scale := 50 / w
	if h*scale > 20 {
		scale = 20 / h
	}
	pdf.ImageOptions("logo", pageMargin, pdf.GetY(), w*scale, h*scale, true, opts, 0, "")
	pdf.Ln(2)
}

var errUnsupportedLogo = errors.New("logo is not an embedded png, jpeg or gif")

// decodeDataURL extracts the payload of a base64 data:image URL
func decodeDataURL(src string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, "", errUnsupportedLogo
	}

	var imageType string
	switch strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64") {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		return nil, "", errUnsupportedLogo
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode logo: %w", err)
	}
	return data, imageType, nil
}
