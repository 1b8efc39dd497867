package utils

import (
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// NormalizeFecha converts a free-text comprobante date into ISO YYYY-MM-DD.
// Accepted inputs: ISO, DD/MM/YYYY, DD-MM-YYYY, plus a generic fallback.
// Returns "" when nothing parses; callers must treat "" as failure, never
// as a valid date. It never panics.
func NormalizeFecha(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Already canonical: return as-is so normalization is idempotent.
	if t, err := time.ParseInLocation(layoutDate, s, time.Local); err == nil {
		return t.Format(layoutDate)
	}

	explicit := []string{"02/01/2006", "02-01-2006"}
	for _, layout := range explicit {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(layoutDate)
		}
	}

	fallback := []string{time.RFC3339, layoutDateTime, "2006/01/02"}
	for _, layout := range fallback {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(layoutDate)
		}
	}

	log.Printf("[UTILS] normalize fecha failed input=%q", s)
	return ""
}

// NormalizeHoraDisplay converts comprobante time text into 24-hour HH:MM for
// the editable form. Accepts H:MM, H:MM:SS and 12-hour variants with AM/PM
// markers, including the Spanish "A.M."/"P.M." spellings OCR tends to emit.
// Unrecognized input comes back unchanged (best-effort stage, not total).
func NormalizeHoraDisplay(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	upper := strings.ToUpper(raw)
	marker := ""
	for _, m := range []string{"A.M.", "P.M.", "A.M", "P.M", "AM", "PM"} {
		if strings.HasSuffix(upper, m) {
			marker = string(m[0])
			upper = strings.TrimSpace(strings.TrimSuffix(upper, m))
			break
		}
	}

	parts := strings.Split(upper, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return raw
	}
	hh, okH := parseClockPart(parts[0])
	mm, okM := parseClockPart(parts[1])
	if !okH || !okM || mm > 59 {
		return raw
	}

	switch marker {
	case "A":
		if hh < 1 || hh > 12 {
			return raw
		}
		if hh == 12 {
			hh = 0
		}
	case "P":
		if hh < 1 || hh > 12 {
			return raw
		}
		if hh != 12 {
			hh += 12
		}
	default:
		if hh > 23 {
			return raw
		}
	}

	return fmt.Sprintf("%02d:%02d", hh, mm)
}

// NormalizeHoraWire guarantees an HH:MM:SS string for the submission payload.
// Falsy input defaults to "00:00:00". This stage is intentionally separate
// from NormalizeHoraDisplay: the display form may still be edited before the
// wire form is derived from it.
func NormalizeHoraWire(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "00:00:00"
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "00:00:00"
	}

	nums := make([]int, 0, 3)
	for _, p := range parts {
		n, ok := parseClockPart(p)
		if !ok {
			return "00:00:00"
		}
		nums = append(nums, n)
	}
	if len(nums) == 2 {
		nums = append(nums, 0)
	}
	return fmt.Sprintf("%02d:%02d:%02d", nums[0], nums[1], nums[2])
}

func parseClockPart(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
