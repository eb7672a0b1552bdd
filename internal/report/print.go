package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"cobros/internal/core"
)

type printRow struct {
	Date          string
	UserName      string
	KindLabel     string
	Amount        string
	Description   string
	SlipNumber    string
	SlipDate      string
	VoucherNumber string
	VoucherDate   string
}

type printData struct {
	GeneratedAt string
	Rows        []printRow
	Count       int
	Total       string
}

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Reporte de Cobros</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; font-size: 12px; }
h1 { color: #2c3e50; text-align: center; margin-bottom: 30px; }
.info { text-align: center; margin-bottom: 20px; color: #7f8c8d; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #3498db; color: white; font-weight: bold; }
tr:nth-child(even) { background-color: #f2f2f2; }
.total { margin-top: 20px; text-align: right; font-weight: bold; font-size: 14px; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Reporte de Cobros</h1>
<div class="info">Generado el: {{.GeneratedAt}}</div>
<table>
<thead>
<tr><th>Fecha</th><th>Usuario</th><th>Tipo</th><th>Monto</th><th>Descripción</th><th>N° Planilla</th><th>Fecha Planilla</th><th>N° Comprobante</th><th>Fecha Comprobante</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.UserName}}</td><td>{{.KindLabel}}</td><td>{{.Amount}}</td><td>{{.Description}}</td><td>{{.SlipNumber}}</td><td>{{.SlipDate}}</td><td>{{.VoucherNumber}}</td><td>{{.VoucherDate}}</td></tr>
{{end}}</tbody>
</table>
<div class="total">Total de registros: {{.Count}}<br>Monto total: {{.Total}}</div>
</body>
</html>
`))

// PrintableDocument renders charges as a standalone HTML page meant for
// the browser's print dialog, with the generation timestamp and a
// record count plus grand total at the bottom.
func PrintableDocument(charges []core.Charge, generatedAt time.Time) (string, error) {
	data := printData{
		GeneratedAt: fmt.Sprintf("%s a las %s",
			core.FormatDisplayDay(generatedAt),
			generatedAt.Format("15:04:05")),
		Count: len(charges),
	}
	var total float64
	for _, c := range charges {
		total += c.Amount
		eff, _ := core.EffectiveDate(c)
		data.Rows = append(data.Rows, printRow{
			Date:          core.DisplayDay(eff),
			UserName:      c.UserName,
			KindLabel:     c.Kind.Label(),
			Amount:        Amount(c.Amount),
			Description:   c.Description,
			SlipNumber:    c.SlipNumber,
			SlipDate:      core.DisplayDay(c.SlipDate),
			VoucherNumber: c.VoucherNumber,
			VoucherDate:   core.DisplayDay(c.VoucherDate),
		})
	}
	data.Total = Amount(total)

	var b strings.Builder
	if err := printTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render print document: %w", err)
	}
	return b.String(), nil
}
