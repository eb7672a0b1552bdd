package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Two textual encodings appear in stored data: ISO YYYY-MM-DD (form
// inputs, range filters) and the localized DD/MM/YYYY (legacy display
// values written back by older clients). Both are parsed from their
// calendar fields into local time; parsing them as UTC shifts the day
// for any timezone west of Greenwich.

var errBadDate = errors.New("unparseable date")

// ParseDay parses an ISO or DD/MM/YYYY day into local midnight.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBadDate
	}
	var parts []string
	var y, m, d int
	switch {
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
		if len(parts) != 3 {
			return time.Time{}, errBadDate
		}
		d, m, y = atoi(parts[0]), atoi(parts[1]), atoi(parts[2])
	default:
		// An RFC 3339 instant reduces to its leading calendar day.
		if len(s) > 10 {
			s = s[:10]
		}
		parts = strings.Split(s, "-")
		if len(parts) != 3 {
			return time.Time{}, errBadDate
		}
		y, m, d = atoi(parts[0]), atoi(parts[1]), atoi(parts[2])
	}
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, errBadDate
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// FormatISODay formats t as YYYY-MM-DD.
func FormatISODay(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDisplayDay formats t as DD/MM/YYYY for reports and exports.
func FormatDisplayDay(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// DisplayDay renders a stored day string for display, returning "" for
// absent or unparseable values.
func DisplayDay(s string) string {
	t, err := ParseDay(s)
	if err != nil {
		return ""
	}
	return FormatDisplayDay(t)
}

// NormalizeDay converts any supported encoding to ISO YYYY-MM-DD.
func NormalizeDay(s string) (string, bool) {
	t, err := ParseDay(s)
	if err != nil {
		return "", false
	}
	return FormatISODay(t), true
}

// EffectiveDate resolves the single day a charge is filtered and grouped
// by: the voucher date when the charge is vouchered and one is set, else
// the slip date, else the day the charge was recorded. The returned day
// is ISO-normalized; ok is false when none of the three is resolvable.
func EffectiveDate(c Charge) (string, bool) {
	if c.Kind == Vouchered {
		if iso, ok := NormalizeDay(c.VoucherDate); ok {
			return iso, true
		}
	}
	if iso, ok := NormalizeDay(c.SlipDate); ok {
		return iso, true
	}
	return NormalizeDay(c.RecordedAt)
}

// EffectiveTime resolves the effective date as local midnight.
func EffectiveTime(c Charge) (time.Time, bool) {
	iso, ok := EffectiveDate(c)
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseDay(iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
