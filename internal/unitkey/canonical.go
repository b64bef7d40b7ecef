package unitkey

import (
	"regexp"
	"slices"
	"strings"
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

var (
	separatorRE = regexp.MustCompile(`[.,;:/\\|]+`)
	spaceRE     = regexp.MustCompile(`\s+`)
	bareRE      = regexp.MustCompile(`^\d{1,6}$`)
	vendorRE    = regexp.MustCompile(`^([A-Z]{1,10}) ?0*(\d{1,6})$`)
)

// rewrites run in order; each rule assumes the previous ones already fired.
var rewrites = []rewrite{
	// synonyms
	{regexp.MustCompile(`\b(?:APARTAMENTO|APTO|APT)`), " AP "},
	{regexp.MustCompile(`\bBLOCO`), " BL "},
	{regexp.MustCompile(`\bQUADRA`), " QD "},
	{regexp.MustCompile(`\bLOTE`), " LT "},
	// compact vendor codes: B01AP101, Q02-LT08
	{regexp.MustCompile(`\bB0*(\d{1,3})\s*AP\s*0*(\d{1,5})\b`), " AP $2 BL $1 "},
	{regexp.MustCompile(`\bQ0*(\d{1,3})\s*-?\s*LT\s*0*(\d+[A-Z]?)\b`), " QD $1 LT $2 "},
	// leading zeros after structural tokens
	{regexp.MustCompile(`\bCASA\s*-?\s*0*(\d+[A-Z]?)\b`), " CASA $1 "},
	{regexp.MustCompile(`\bBL\s*-?\s*0*(\d+)\b`), " BL $1 "},
	{regexp.MustCompile(`\bQD\s*-?\s*0*([A-Z0-9]+)\b`), " QD $1 "},
	{regexp.MustCompile(`\bLT\s*-?\s*0*(\d+[A-Z]?)\b`), " LT $1 "},
	{regexp.MustCompile(`\bAP\s*-?\s*0*(\d+)\b`), " AP $1 "},
	// 4-102 -> AP 102 BL 4
	{regexp.MustCompile(`^\s*0*(\d{1,4})\s*-\s*0*(\d{1,5})\s*$`), "AP $2 BL $1"},
	// 104BL01, 102 BL 4 -> AP n BL b
	{regexp.MustCompile(`^\s*0*(\d{1,5})\s*BL\s*0*([A-Z0-9]+)\s*$`), "AP $1 BL $2"},
}

var keywords = map[string]struct{}{
	"CASA": {}, "AP": {}, "BL": {}, "QD": {}, "LT": {},
}

var valueRE = map[string]*regexp.Regexp{
	"CASA": regexp.MustCompile(`^\d+[A-Z]?$`),
	"AP":   regexp.MustCompile(`^\d+$`),
	"BL":   regexp.MustCompile(`^[A-Z0-9]+$`),
	"QD":   regexp.MustCompile(`^[A-Z0-9]+$`),
	"LT":   regexp.MustCompile(`^\d+[A-Z]?$`),
}

// Canonicalize maps a raw unit token in any supported notation to its canonical key,
// or "" when no numeric component can be isolated.
func Canonicalize(raw string, hint Hint) string {
	k, ok := parse(normalize(raw), hint)
	if !ok {
		return ""
	}
	return k.String()
}

// AliasKeys returns every canonical key consistent with raw, canonical reading first.
// A space-joined bare pair also registers the swapped block/apartment reading and a
// bare 4-digit code also registers the "block in the first two digits" reading.
func AliasKeys(raw string, hint Hint) []string {
	out := make([]string, 0, 2)
	add := func(k string) {
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}

	norm := normalize(raw)
	if k, ok := parse(norm, hint); ok {
		add(k.String())
	}

	toks := strings.Fields(norm)
	switch {
	case len(toks) == 2 && bareRE.MatchString(toks[0]) && bareRE.MatchString(toks[1]):
		add(Key{Apartment: trimZeros(toks[1]), Block: trimZeros(toks[0])}.String())
	case len(toks) == 1 && len(toks[0]) == 4 && bareRE.MatchString(toks[0]):
		add(Key{Apartment: trimZeros(toks[0][2:]), Block: trimZeros(toks[0][:2])}.String())
	}
	return out
}

func normalize(raw string) string {
	s := strings.ToUpper(raw)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = separatorRE.ReplaceAllString(s, " ")
	s = collapse(s)
	for _, rw := range rewrites {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	s = collapse(s)

	if m := vendorRE.FindStringSubmatch(s); m != nil {
		if _, kw := keywords[m[1]]; !kw {
			s = "AP " + trimZeros(m[2]) + " BL " + m[1]
		}
	}
	return s
}

// parse reads keyword/value pairs in any order. The first value seen for a keyword wins.
func parse(s string, hint Hint) (Key, bool) {
	var k Key
	var bare []string

	toks := strings.Fields(s)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if _, kw := keywords[t]; kw {
			if i+1 < len(toks) {
				next := toks[i+1]
				if _, nextKW := keywords[next]; !nextKW && valueRE[t].MatchString(next) {
					k.set(t, trimZeros(next))
					i++
				}
			}
			continue
		}
		if bareRE.MatchString(t) {
			bare = append(bare, trimZeros(t))
		}
	}

	switch {
	case !k.empty():
		// BL I 05 -> AP 5 BL I
		if k.Block != "" && k.Apartment == "" && k.House == "" && k.Lot == "" && len(bare) > 0 {
			k.Apartment = bare[0]
		}
	case len(bare) == 1:
		switch hint {
		case HintHouse:
			k.House = bare[0]
		case HintLot:
			k.Lot = bare[0]
		default:
			k.Apartment = bare[0]
		}
	case len(bare) == 2:
		k.Apartment, k.Block = bare[0], bare[1]
	}

	// a block or quadra alone names a building, not a unit
	if k.House == "" && k.Apartment == "" && k.Lot == "" {
		return Key{}, false
	}
	if !strings.ContainsAny(k.String(), "0123456789") {
		return Key{}, false
	}
	return k, true
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

// trimZeros strips leading zeros from the numeric prefix of v, keeping a single zero.
func trimZeros(v string) string {
	i := 0
	for i < len(v)-1 && v[i] == '0' && v[i+1] >= '0' && v[i+1] <= '9' {
		i++
	}
	return v[i:]
}
