package printing

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatCurrency renders an amount as "$" followed by comma-grouped units,
// e.g. 1234567 becomes "$1,234,567". Cents are kept when present and
// trailing zeros dropped, so 1234.50 becomes "$1,234.5".
func FormatCurrency(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Abs()
	}
	p := message.NewPrinter(language.English)
	s := sign + "$" + p.Sprintf("%d", d.IntPart())
	if frac := d.Sub(d.Truncate(0)); !frac.IsZero() {
		s += strings.TrimPrefix(frac.String(), "0")
	}
	return s
}

// FormatQuantity renders a quantity as a plain number ("3", "2.5")
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// FormatDate renders t as a Spanish long date, "octubre 16 de 2026"
func FormatDate(t time.Time) string {
	return spanishMonths[t.Month()-1] + " " + strconv.Itoa(t.Day()) + " de " + strconv.Itoa(t.Year())
}

// Upper applies Spanish casing rules. A caser is not safe for concurrent
// use, so each call gets its own.
func Upper(s string) string {
	return cases.Upper(language.Spanish).String(s)
}
