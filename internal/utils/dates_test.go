package utils

import "testing"

func TestNormalizeFecha(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-01-15", "2025-01-15"},
		{"15/01/2025", "2025-01-15"},
		{"15-01-2025", "2025-01-15"},
		{"2025/01/15", "2025-01-15"},
		{"2025-01-15 08:30:00", "2025-01-15"},
		{"no es fecha", ""},
		{"", ""},
		{"32/01/2025", ""},
	}
	for _, c := range cases {
		if got := NormalizeFecha(c.in); got != c.want {
			t.Errorf("NormalizeFecha(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeFechaIdempotentOnISO(t *testing.T) {
	for _, d := range []string{"2024-12-31", "2025-06-01", "2023-02-28"} {
		if got := NormalizeFecha(d); got != d {
			t.Errorf("NormalizeFecha(%q) = %q, expected unchanged", d, got)
		}
	}
}

func TestNormalizeHoraDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8:30", "08:30"},
		{"08:30:45", "08:30"},
		{"1:05 PM", "13:05"},
		{"12:00 AM", "00:00"},
		{"12:30 PM", "12:30"},
		{"9:15 A.M.", "09:15"},
		{"7:45 p.m.", "19:45"},
		{"23:59", "23:59"},
	}
	for _, c := range cases {
		if got := NormalizeHoraDisplay(c.in); got != c.want {
			t.Errorf("NormalizeHoraDisplay(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeHoraDisplayPassthrough(t *testing.T) {
	// Best-effort stage: unrecognized input is returned unchanged.
	for _, in := range []string{"mediodia", "25:00", "8h30", ""} {
		if got := NormalizeHoraDisplay(in); got != in {
			t.Errorf("NormalizeHoraDisplay(%q) = %q, expected passthrough", in, got)
		}
	}
}

func TestNormalizeHoraWire(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "00:00:00"},
		{"8:30", "08:30:00"},
		{"08:30", "08:30:00"},
		{"8:30:5", "08:30:05"},
		{"14:00:00", "14:00:00"},
		{"garbage", "00:00:00"},
	}
	for _, c := range cases {
		if got := NormalizeHoraWire(c.in); got != c.want {
			t.Errorf("NormalizeHoraWire(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
