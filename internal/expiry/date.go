package expiry

import (
	"errors"
	"time"
)

// DateLayout is the only accepted textual date form, day first, two-digit
// year relative to 2000.
const DateLayout = "DD-MM-YY"

// maxDateDigits is the number of digits a complete masked date carries.
const maxDateDigits = 6

// ErrInvalidDate is returned by ValidateDate for any non-empty input that
// does not denote a real calendar date in the DD-MM-YY form.
var ErrInvalidDate = errors.New("invalid date: expected DD-MM-YY, e.g. 31-12-26")

// MaskDate shapes arbitrary input into the DD-MM-YY form. All non-digit
// characters are dropped, at most six digits are kept, and separators are
// re-inserted after the day and month groups. The result of MaskDate is a
// fixed point: masking it again returns the same string.
func MaskDate(raw string) string {
	digits := make([]byte, 0, maxDateDigits)
	for i := 0; i < len(raw) && len(digits) < maxDateDigits; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}

	masked := make([]byte, 0, maxDateDigits+2)
	for i, c := range digits {
		if i == 2 || i == 4 {
			masked = append(masked, '-')
		}
		masked = append(masked, c)
	}
	return string(masked)
}

// ParseDate converts a fully masked DD-MM-YY string into a calendar date at
// UTC midnight. It reports false for the empty string, for partial or
// malformed input, and for pattern-correct strings that are not real dates:
// the day, month and year are re-read from the constructed date and must
// match exactly, so "31-02-26" is rejected instead of rolling over into
// March.
func ParseDate(masked string) (time.Time, bool) {
	if len(masked) != maxDateDigits+2 || masked[2] != '-' || masked[5] != '-' {
		return time.Time{}, false
	}

	var dd, mm, yy int
	for i := 0; i < len(masked); i++ {
		if i == 2 || i == 5 {
			continue
		}
		c := masked[i]
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
		v := int(c - '0')
		switch {
		case i < 2:
			dd = dd*10 + v
		case i < 5:
			mm = mm*10 + v
		default:
			yy = yy*10 + v
		}
	}

	year := 2000 + yy
	d := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(mm) || d.Day() != dd {
		return time.Time{}, false
	}
	return d, true
}

// ValidateDate checks a masked string for use as a product date. The empty
// string is valid and means "no date set"; anything else must parse as a
// real DD-MM-YY date or ErrInvalidDate is returned.
func ValidateDate(masked string) error {
	if masked == "" {
		return nil
	}
	if _, ok := ParseDate(masked); !ok {
		return ErrInvalidDate
	}
	return nil
}

// FormatDate renders a calendar date in the DD-MM-YY form. Dates outside
// the 2000..2099 window cannot round-trip through ParseDate and come back
// with the year reduced modulo 100, matching how the two-digit year is
// read.
func FormatDate(t time.Time) string {
	t = t.UTC()
	yy := t.Year() % 100
	buf := []byte{'0', '0', '-', '0', '0', '-', '0', '0'}
	put2 := func(off, v int) {
		buf[off] = byte('0' + v/10%10)
		buf[off+1] = byte('0' + v%10)
	}
	put2(0, t.Day())
	put2(3, int(t.Month()))
	put2(6, yy)
	return string(buf)
}
