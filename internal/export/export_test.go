package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func sampleRecord() entity.InvoiceRecord {
	return entity.InvoiceRecord{
		InvoiceNumber: "INV-0001",
		Date:          "2024-01-10",
		DueDate:       "2024-02-09",
		Customer:      entity.Customer{Name: "Acme", Address: "1-2-3 Chiyoda", Phone: "03-0000-0000"},
		Items: []entity.LineItem{
			{Description: "A", Quantity: 2, UnitPrice: 500, Amount: 1000},
			{Description: "B", Quantity: 1, UnitPrice: 1000, Amount: 1000},
		},
		Subtotal:  2000,
		TaxRate:   10,
		Tax:       200,
		Total:     2200,
		CreatedAt: time.Date(2024, 1, 10, 0, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 11, 12, 5, 0, 0, time.UTC),
	}
}

func TestProjector_ToTabular(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	second := sampleRecord()
	second.InvoiceNumber = "INV-0002"
	second.Items = nil
	second.UpdatedAt = time.Time{}

	tab := NewProjector(tokyo).ToTabular([]entity.InvoiceRecord{sampleRecord(), second})

	assert.Equal(t, InvoiceColumns, tab.Invoices.Header)
	assert.Len(t, tab.Invoices.Header, 12)
	require.Len(t, tab.Invoices.Rows, 2)
	assert.Equal(t, []interface{}{
		"INV-0001", "2024-01-10", "2024-02-09", "Acme", "1-2-3 Chiyoda", "03-0000-0000",
		2000.0, 10.0, 200.0, 2200.0, "2024-01-10 09:30", "2024-01-11 21:05",
	}, tab.Invoices.Rows[0])
	assert.Equal(t, "", tab.Invoices.Rows[1][11])

	assert.Equal(t, ItemColumns, tab.Items.Header)
	require.Len(t, tab.Items.Rows, 2)
	assert.Equal(t, []interface{}{"INV-0001", "B", 1.0, 1000.0, 1000.0}, tab.Items.Rows[1])
}

func TestWriteCSV(t *testing.T) {
	rec := sampleRecord()
	rec.Customer.Name = `Acme, "Tokyo"`
	rec.TaxRate = 10.5
	tab := NewProjector(time.UTC).ToTabular([]entity.InvoiceRecord{rec})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tab.Invoices))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeffInvoice Number,Issue Date"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`INV-0001,2024-01-10,2024-02-09,"Acme, ""Tokyo""",1-2-3 Chiyoda,03-0000-0000,2000,10.5,200,2200,2024-01-10 00:30,2024-01-11 12:05`,
		lines[1])
}

func TestWriteXLSX(t *testing.T) {
	tab := NewProjector(time.UTC).ToTabular([]entity.InvoiceRecord{sampleRecord()})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tab))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoices", "Items"}, f.GetSheetList())

	number, _ := f.GetCellValue("Invoices", "A2")
	assert.Equal(t, "INV-0001", number)
	total, _ := f.GetCellValue("Invoices", "J2")
	assert.Equal(t, "2200", total)
	header, _ := f.GetCellValue("Items", "B1")
	assert.Equal(t, "Description", header)
	desc, _ := f.GetCellValue("Items", "B3")
	assert.Equal(t, "B", desc)
}

func TestBackupRoundTrip(t *testing.T) {
	company := entity.CompanyInfo{Name: "Acme", Bank: entity.BankInfo{Name: "First"}}
	in := entity.Backup{
		Invoices:    []entity.InvoiceRecord{sampleRecord()},
		CompanyInfo: &company,
		ExportDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, in))
	assert.Contains(t, buf.String(), "\n  \"invoices\": [")

	out, err := ReadBackup(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadBackup_PartialDocument(t *testing.T) {
	out, err := ReadBackup(strings.NewReader(`{"companyInfo":{"name":"Acme"}}`))
	require.NoError(t, err)
	assert.Nil(t, out.Invoices)
	require.NotNil(t, out.CompanyInfo)
	assert.Equal(t, "Acme", out.CompanyInfo.Name)

	_, err = ReadBackup(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestFilenames(t *testing.T) {
	now := time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "invoices_20240307.xlsx", WorkbookFilename(now))
	assert.Equal(t, "invoices_20240307.csv", CSVFilename(now))
	assert.Equal(t, "invoice_backup_20240307.json", BackupFilename(now))
}

func TestCurrencyFormatter(t *testing.T) {
	f := NewCurrencyFormatter("¥")

	tests := []struct {
		in   float64
		want string
	}{
		{0, "¥0"},
		{2200, "¥2,200"},
		{1234567.5, "¥1,234,567.5"},
		{0.12345, "¥0.123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Format(tt.in))
	}
}

func TestToPrintable(t *testing.T) {
	b := NewDocumentBuilder(NewCurrencyFormatter("¥"))
	rec := sampleRecord()
	rec.TaxRate = 10.5

	t.Run("without bank", func(t *testing.T) {
		doc := b.ToPrintable(rec, entity.CompanyInfo{Name: "Issuer", Email: "a@b.test"})

		assert.Equal(t, "Issuer", doc.Company.Name)
		assert.Equal(t, []string{"Email: a@b.test"}, doc.Company.Lines)
		assert.Equal(t, []string{"1-2-3 Chiyoda", "TEL: 03-0000-0000"}, doc.BillTo.Lines)
		require.Len(t, doc.Items, 2)
		assert.Equal(t, ItemRow{Description: "A", Quantity: "2", UnitPrice: "¥500", Amount: "¥1,000"}, doc.Items[0])
		assert.Equal(t, "Tax (10.5%)", doc.Totals[1].Label)
		assert.Equal(t, "¥2,200", doc.Totals[2].Value)
		assert.True(t, doc.Totals[2].Grand)
		assert.False(t, doc.HasBank())
	})

	t.Run("with bank", func(t *testing.T) {
		doc := b.ToPrintable(rec, entity.CompanyInfo{Bank: entity.BankInfo{Name: "First", AccountNumber: "123"}})
		require.True(t, doc.HasBank())
		assert.Equal(t, Field{Label: "Account No.", Value: "123"}, doc.Bank[2])
	})

	t.Run("pure", func(t *testing.T) {
		company := entity.CompanyInfo{Name: "Issuer"}
		assert.Equal(t, b.ToPrintable(rec, company), b.ToPrintable(rec, company))
	})
}

func TestRenderHTML(t *testing.T) {
	b := NewDocumentBuilder(NewCurrencyFormatter("¥"))
	rec := sampleRecord()
	rec.Customer.Name = "<script>x</script>"

	var buf bytes.Buffer
	company := entity.CompanyInfo{Name: "Issuer", Logo: "javascript:alert(1)", Bank: entity.BankInfo{Name: "First"}}
	require.NoError(t, RenderHTML(&buf, b.ToPrintable(rec, company)))

	out := buf.String()
	assert.Contains(t, out, "INV-0001")
	assert.Contains(t, out, "¥2,200")
	assert.Contains(t, out, "Payment Details")
	assert.NotContains(t, out, "<script>x</script>")
	assert.NotContains(t, out, "<img")

	buf.Reset()
	company.Logo = "data:image/png;base64,AAAA"
	require.NoError(t, RenderHTML(&buf, b.ToPrintable(rec, company)))
	assert.Contains(t, buf.String(), `<img src="data:image/png;base64,AAAA"`)
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 10))
	for x := 0; x < 40; x++ {
		img.Set(x, 5, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPDFRenderer_Render(t *testing.T) {
	b := NewDocumentBuilder(NewCurrencyFormatter("¥"))
	r := NewPDFRenderer(PDFConfig{FontPath: "/nonexistent/font.ttf", LogoTimeout: time.Second}, zap.NewNop())

	for name, logo := range map[string]string{
		"no logo":     "",
		"png logo":    pngDataURL(t),
		"broken logo": "data:image/png;base64,!!!",
		"remote logo": "https://example.test/logo.png",
		"corrupt png": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("nope")),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			doc := b.ToPrintable(sampleRecord(), entity.CompanyInfo{Name: "Issuer", Logo: logo, Bank: entity.BankInfo{Name: "First"}})
			require.NoError(t, r.Render(&buf, doc))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	_, kind, err := decodeDataURL(pngDataURL(t))
	require.NoError(t, err)
	assert.Equal(t, "PNG", kind)

	_, _, err = decodeDataURL("data:image/svg+xml;base64,AAAA")
	assert.ErrorIs(t, err, errUnsupportedLogo)
}
