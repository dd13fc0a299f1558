package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

var documentTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"logoURL": logoURL,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.InvoiceNumber}}</title>
<style>
@page { size: A4; margin: 20mm; }
body { font-family: sans-serif; font-size: 12px; line-height: 1.6; color: #333; margin: 0; padding: 20px; }
.invoice { max-width: 800px; margin: 0 auto; }
.header img { max-width: 150px; max-height: 60px; margin-bottom: 10px; }
h1 { text-align: center; font-size: 28px; margin: 30px 0; padding-bottom: 10px; border-bottom: 3px solid #333; }
.info { display: flex; justify-content: space-between; margin-bottom: 30px; }
.box { width: 48%; background: #f5f5f5; padding: 15px; }
.right { text-align: right; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
th, td { padding: 10px; border: 1px solid #ddd; text-align: left; }
thead { background: #333; color: #fff; }
.num { text-align: right; }
.totals { margin-left: auto; width: 300px; }
.grand { background: #333; color: #fff; font-weight: bold; }
.bank { margin-top: 40px; padding: 15px; background: #f9f9f9; border-left: 4px solid #333; }
</style>
</head>
<body>
<div class="invoice">
<div class="header">
{{- with logoURL .Logo}}<img src="{{.}}" alt="Logo">{{end}}
<div><strong>{{.Company.Name}}</strong>{{range .Company.Lines}}<br>{{.}}{{end}}</div>
</div>
<h1>{{.Title}}</h1>
<div class="info">
<div class="box"><h3>{{.BillToTitle}}</h3><strong>{{.BillTo.Name}}</strong>{{range .BillTo.Lines}}<br>{{.}}{{end}}</div>
<div class="box right">{{range .Meta}}<div><strong>{{.Label}}:</strong> {{.Value}}</div>{{end}}</div>
</div>
<table>
<thead><tr>{{range .ItemHeader}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num"><strong>{{.Amount}}</strong></td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
{{- range .Totals}}
<tr{{if .Grand}} class="grand"{{end}}><td>{{.Label}}</td><td class="num">{{.Value}}</td></tr>
{{- end}}
</table>
{{- if .HasBank}}
<div class="bank"><h3>{{.BankTitle}}</h3>{{range .Bank}}<div><strong>{{.Label}}:</strong> {{.Value}}</div>{{end}}</div>
{{- end}}
</div>
</body>
</html>
`))

// RenderHTML writes doc as a standalone A4 page
func RenderHTML(w io.Writer, doc Document) error {
	if err := documentTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

// logoURL passes through data:image and http(s) sources, anything else is dropped
func logoURL(src string) template.URL {
	if strings.HasPrefix(src, "data:image/") || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return template.URL(src)
	}
	return ""
}
