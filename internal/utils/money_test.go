package utils

import (
	"math"
	"testing"
)

func TestParseMontoCommonForms(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"150000", 150000},
		{"$ 150.000", 150000},
		{"1.234.567", 1234567},
		{"1.234.567,89", 1234567.89},
		{"1234,5", 1234.5},
		{"1234.56", 1234.56},
		{"COP 98.700", 98700},
		{"  42  ", 42},
	}
	for _, c := range cases {
		got := ParseMonto(c.in)
		if got != c.want {
			t.Errorf("ParseMonto(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseMontoIsTotal(t *testing.T) {
	garbage := []string{"", "   ", "abc", "$$$", "...", ",,,", "1.2.3.4", "monto: n/a", "💰"}
	for _, in := range garbage {
		got := ParseMonto(in)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("ParseMonto(%q) returned non-finite %v", in, got)
		}
	}
	if ParseMonto("sin valor") != 0 {
		t.Errorf("unparseable input should yield 0")
	}
}

func TestFormatPesos(t *testing.T) {
	if got := FormatPesos(1234567); got != "$1.234.567" {
		t.Errorf("FormatPesos(1234567) = %q", got)
	}
	if got := FormatPesos(-5000); got != "-$5.000" {
		t.Errorf("FormatPesos(-5000) = %q", got)
	}
	if got := FormatPesos(0); got != "$0" {
		t.Errorf("FormatPesos(0) = %q", got)
	}
}
