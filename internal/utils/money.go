package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatPesos renders an integer COP amount with thousand separators.
func FormatPesos(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s$%s", sign, formatThousand(amount))
}

// ParseMonto parses free-form monetary text ("$ 1.234.567,89", "150,000",
// OCR output with stray symbols) into a float amount. It is total: any
// unparseable input yields 0, never an error, because coverage math
// depends on it.
func ParseMonto(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return 0
	}

	// A period followed by 3+ digits is a thousands separator, not a decimal.
	out := make([]byte, 0, len(clean))
	for i := 0; i < len(clean); i++ {
		if clean[i] == '.' && digitRunAfter(clean, i+1) >= 3 {
			continue
		}
		out = append(out, clean[i])
	}

	// Locale decimal comma becomes a decimal point.
	normalized := strings.Replace(string(out), ",", ".", 1)
	normalized = strings.ReplaceAll(normalized, ",", "")

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return v
}

func digitRunAfter(s string, from int) int {
	n := 0
	for i := from; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n++
	}
	return n
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return out.String()
}
