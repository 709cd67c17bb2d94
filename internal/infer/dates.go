package infer

import (
	"fmt"
	"strconv"
	"strings"
)

// DateOrder names the field order of a three-part date.
type DateOrder string

const (
	OrderUnknown DateOrder = ""
	OrderYMD     DateOrder = "YYYY-MM-DD"
	OrderDMY     DateOrder = "DD/MM/YYYY"
	OrderMDY     DateOrder = "MM/DD/YYYY"
)

// IsDateShape is a loose structural check: 6 to 10 characters, 4 to 8
// digits and exactly two separators from "/-.", nothing else.
func IsDateShape(s string) bool {
	if len(s) < 6 || len(s) > 10 {
		return false
	}
	digits, seps := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '/' || c == '-' || c == '.':
			seps++
		default:
			return false
		}
	}
	return digits >= 4 && digits <= 8 && seps == 2
}

// splitDate breaks s on its first separator character. All three parts
// must be present and purely numeric.
func splitDate(s string) ([]string, bool) {
	i := strings.IndexAny(s, "/-.")
	if i < 0 {
		return nil, false
	}
	parts := strings.Split(s, s[i:i+1])
	if len(parts) != 3 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
		for j := 0; j < len(p); j++ {
			if p[j] < '0' || p[j] > '9' {
				return nil, false
			}
		}
	}
	return parts, true
}

// DetectDateFormat reports the field order of s. The four-digit part is
// the year. With the year last, a first field above 12 means day-first, a
// second field above 12 means month-first, and anything else defaults to
// day-first.
func DetectDateFormat(s string) DateOrder {
	parts, ok := splitDate(s)
	if !ok {
		return OrderUnknown
	}
	switch {
	case len(parts[0]) == 4:
		return OrderYMD
	case len(parts[2]) == 4:
		first, _ := strconv.Atoi(parts[0])
		second, _ := strconv.Atoi(parts[1])
		if first <= 12 && second > 12 {
			return OrderMDY
		}
		return OrderDMY
	default:
		return OrderUnknown
	}
}

// StandardizeDateToISO rewrites s as zero-padded YYYY-MM-DD. Input that is
// not a recognisable date, or whose day or month is out of range, is
// returned unchanged.
func StandardizeDateToISO(s string) string {
	parts, ok := splitDate(s)
	if !ok {
		return s
	}

	var y, m, d string
	switch DetectDateFormat(s) {
	case OrderYMD:
		y, m, d = parts[0], parts[1], parts[2]
	case OrderDMY:
		d, m, y = parts[0], parts[1], parts[2]
	case OrderMDY:
		m, d, y = parts[0], parts[1], parts[2]
	default:
		return s
	}
	if len(m) > 2 || len(d) > 2 {
		return s
	}

	day, _ := strconv.Atoi(d)
	month, _ := strconv.Atoi(m)
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return s
	}
	return fmt.Sprintf("%s-%02d-%02d", y, month, day)
}
