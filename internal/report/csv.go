package report

import (
	"strconv"
	"strings"
	"time"

	"cobros/internal/core"
)

// csvHeaders matches the column layout the spreadsheet consumers
// already rely on, so changing the order breaks their imports.
var csvHeaders = []string{
	"Fecha",
	"Usuario",
	"Tipo",
	"Monto",
	"Descripción",
	"N° Planilla",
	"Fecha Planilla",
	"N° Comprobante",
	"Fecha Comprobante",
}

// DelimitedText renders charges as a comma-delimited table for Excel.
// Every field is wrapped in double quotes and the whole payload starts
// with a UTF-8 byte order mark so Excel decodes accents correctly. The
// first column is the charge's effective date; charges with no
// resolvable date show an empty first column.
func DelimitedText(charges []core.Charge) string {
	var b strings.Builder
	b.WriteString("\uFEFF")
	writeRow(&b, csvHeaders)
	for _, c := range charges {
		b.WriteByte('\n')
		writeRow(&b, row(c))
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(f)
		b.WriteByte('"')
	}
}

func row(c core.Charge) []string {
	eff, _ := core.EffectiveDate(c)
	return []string{
		core.DisplayDay(eff),
		c.UserName,
		c.Kind.Label(),
		Amount(c.Amount),
		c.Description,
		c.SlipNumber,
		core.DisplayDay(c.SlipDate),
		c.VoucherNumber,
		core.DisplayDay(c.VoucherDate),
	}
}

// FileName returns the download name for an export generated at t,
// cobros_YYYY-MM-DD.csv.
func FileName(t time.Time) string {
	return "cobros_" + core.FormatISODay(t) + ".csv"
}

// Amount formats a monetary value the way the reports display it: a
// dollar sign, dots grouping thousands and a comma before any decimals.
func Amount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteByte('$')
	if neg {
		b.WriteByte('-')
	}
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
