package fields

import (
	"regexp"
	"strings"
)

// PhoneStyle selects how accepted phone candidates are emitted.
type PhoneStyle uint8

const (
	// PhonePreserve keeps the source formatting, whitespace collapsed.
	PhonePreserve PhoneStyle = iota
	// PhoneE164 emits +55 country-coded numbers (local 8/9-digit numbers pass through).
	PhoneE164
)

func (s PhoneStyle) String() string {
	if s == PhoneE164 {
		return "e164"
	}
	return "preserve"
}

var (
	phoneRE = regexp.MustCompile(`(?:\+?55\s*)?(?:\(?\d{2}\)?\s*)?(?:9\s*)?\d{4}[-\s]?\d{4}`)
	emailRE = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	// formatted CPF (000.000.000-00) and CNPJ (00.000.000/0000-00)
	taxIDRE = regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b|\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)
	bareRE  = regexp.MustCompile(`^\d+$`)
)

// cnpjDigits is the digit count of a CNPJ; such runs are never phones.
const cnpjDigits = 14

// Phones returns the phone numbers found in s, deduplicated in first-seen order.
func Phones(s string, style PhoneStyle) []string {
	masked := mask(s, taxIDRE)
	masked = mask(masked, emailRE)

	out := make([]string, 0, 2)
	for pos := 0; pos < len(masked); {
		loc := phoneRE.FindStringIndex(masked[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if (start > 0 && isDigit(masked[start-1])) || (end < len(masked) && isDigit(masked[end])) {
			pos = start + 1
			continue
		}
		pos = end
		if p, ok := acceptPhone(s[start:end], style); ok {
			out = appendUnique(out, p)
		}
	}
	return out
}

// stripPhones blanks the phone candidates Phones would consider, leaving digit runs
// that only contain a phone-shaped substring untouched.
func stripPhones(s string) string {
	b := []byte(s)
	for pos := 0; pos < len(s); {
		loc := phoneRE.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if (start > 0 && isDigit(s[start-1])) || (end < len(s) && isDigit(s[end])) {
			pos = start + 1
			continue
		}
		for i := start; i < end; i++ {
			b[i] = ' '
		}
		pos = end
	}
	return string(b)
}

func acceptPhone(candidate string, style PhoneStyle) (string, bool) {
	cleaned := strings.Join(strings.Fields(candidate), " ")
	d := digits(cleaned)
	if len(d) == cnpjDigits || len(d) < 8 {
		return "", false
	}
	// unformatted 8/9-digit runs are only numbers under the local-number rules
	if bareRE.MatchString(cleaned) && len(d) <= 9 && !localNumber(d) {
		return "", false
	}
	if style == PhoneE164 {
		return NormalizePhone(cleaned)
	}
	return cleaned, true
}

// NormalizePhone reduces raw to digits and country-codes it: 10/11 digits get +55,
// 12/13 digits starting with 55 get +, local 9-digit mobiles (9xxxxxxxx) and 8-digit
// landlines (2-5xxxxxxx) pass through. Any other length is rejected.
func NormalizePhone(raw string) (string, bool) {
	d := digits(raw)
	switch {
	case (len(d) == 12 || len(d) == 13) && strings.HasPrefix(d, "55"):
		return "+" + d, true
	case len(d) == 10 || len(d) == 11:
		return "+55" + d, true
	case localNumber(d):
		return d, true
	}
	return "", false
}

// ValidEmail reports whether raw is a single address of the local@domain.tld shape.
func ValidEmail(raw string) bool {
	raw = strings.TrimSpace(raw)
	loc := emailRE.FindStringIndex(raw)
	return loc != nil && loc[0] == 0 && loc[1] == len(raw)
}

// Emails returns the lower-cased addresses found in s, deduplicated in first-seen order.
func Emails(s string) []string {
	out := make([]string, 0, 1)
	for _, m := range emailRE.FindAllString(s, -1) {
		out = appendUnique(out, strings.ToLower(m))
	}
	return out
}

func localNumber(d string) bool {
	switch len(d) {
	case 9:
		return d[0] == '9'
	case 8:
		return d[0] >= '2' && d[0] <= '5'
	}
	return false
}

func digits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// mask overwrites every match of re with '#' so byte offsets are preserved.
func mask(s string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat("#", len(m))
	})
}
