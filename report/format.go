package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatJPY "¥12,345"; ienes não têm casas decimais
func FormatJPY(v decimal.Decimal) string {
	r := v.Round(0)
	neg := r.IsNegative()
	digits := r.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("¥")
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
