package infer

import (
	"regexp"
	"strings"
)

// Pattern is a recognised value shape.
type Pattern string

const (
	PatternNone   Pattern = ""
	PatternEmail  Pattern = "email"
	PatternPhone  Pattern = "phone"
	PatternPostal Pattern = "postal"
	PatternURL    Pattern = "url"
)

// Patterns lists every pattern in priority order.
var Patterns = []Pattern{PatternEmail, PatternPhone, PatternPostal, PatternURL}

// PatternMode selects how values matching several patterns are counted.
type PatternMode string

const (
	// FirstMatch counts a value once, under its highest-priority pattern.
	FirstMatch PatternMode = "first"
	// AnyMatch counts a value under every pattern it matches.
	AnyMatch PatternMode = "any"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ().-]+$`)

var urlRegex = regexp.MustCompile(`(?i)^(https?://|www\.)[^\s/?#]+\.[^\s/?#]+(/\S*)?$`)

// postalRegexes: US ZIP and ZIP+4, Canadian, UK.
var postalRegexes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{5}(-\d{4})?$`),
	regexp.MustCompile(`^[A-Za-z]\d[A-Za-z] ?\d[A-Za-z]\d$`),
	regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]? ?\d[A-Za-z]{2}$`),
}

// IsEmail requires exactly one '@' with text on both sides and a '.' in the
// domain that is neither right after the '@' nor the last character.
func IsEmail(s string) bool {
	if strings.ContainsAny(s, " \t") || strings.Count(s, "@") != 1 {
		return false
	}
	at := strings.IndexByte(s, '@')
	if at == 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// IsPhone accepts digits with common punctuation and an optional leading
// '+', holding 7 to 15 digits.
func IsPhone(s string) bool {
	if !phoneRegex.MatchString(s) {
		return false
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

// IsPostalCode recognises US, Canadian and UK postal code shapes.
func IsPostalCode(s string) bool {
	for _, re := range postalRegexes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// IsURL accepts http(s):// or www. prefixed hosts containing a dot.
func IsURL(s string) bool {
	return urlRegex.MatchString(s)
}

// Matches reports whether s has the shape p.
func Matches(p Pattern, s string) bool {
	switch p {
	case PatternEmail:
		return IsEmail(s)
	case PatternPhone:
		return IsPhone(s)
	case PatternPostal:
		return IsPostalCode(s)
	case PatternURL:
		return IsURL(s)
	}
	return false
}

// FirstPattern returns the highest-priority pattern s matches.
func FirstPattern(s string) Pattern {
	for _, p := range Patterns {
		if Matches(p, s) {
			return p
		}
	}
	return PatternNone
}

// PatternCounts tallies pattern matches over a set of values.
type PatternCounts struct {
	Email  int `json:"email"`
	Phone  int `json:"phone"`
	Postal int `json:"postal"`
	URL    int `json:"url"`
}

// Total sums every pattern count.
func (c PatternCounts) Total() int {
	return c.Email + c.Phone + c.Postal + c.URL
}

func (c *PatternCounts) add(p Pattern) {
	switch p {
	case PatternEmail:
		c.Email++
	case PatternPhone:
		c.Phone++
	case PatternPostal:
		c.Postal++
	case PatternURL:
		c.URL++
	}
}

// CountPatterns counts pattern matches among non-empty values. An unknown
// mode is treated as FirstMatch.
func CountPatterns(values []string, mode PatternMode) PatternCounts {
	var c PatternCounts
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if mode == AnyMatch {
			for _, p := range Patterns {
				if Matches(p, v) {
					c.add(p)
				}
			}
			continue
		}
		c.add(FirstPattern(v))
	}
	return c
}
