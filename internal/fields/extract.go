package fields

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/condo-contacts/internal/segment"
)

// PartialRecord is one owner occurrence before canonicalization and aggregation.
// Deterministic extraction and the oracle both produce this shape.
type PartialRecord struct {
	RawUnit string
	Name    string
	Phones  []string
	Emails  []string
}

// Options tune Extract for a dialect.
type Options struct {
	PhoneStyle PhoneStyle
	TitleCase  bool
	// Skip drops whole lines (report headers, footers) before extraction.
	Skip *regexp.Regexp
}

var (
	clauseRE   = regexp.MustCompile(`[\n;]+`)
	taxGroupRE = regexp.MustCompile(`\(\s*[\d./-]+\s*\)`)
	labelRE    = regexp.MustCompile(`(?i)\b(?:Tp\.?\s*Pessoa|Pessoa|Nome|Telefones?|Celular|Contato|Whats(?:app)?|Comercial|Residencial|E-?mails?|Local)\s*:|\b(?:CPF|CNPJ)(?:/CNPJ)?\b\s*:?`)
	// labeled tax values and unformatted CPF/CNPJ shapes (12345678/0001-99, 123456789-00, bare runs)
	taxValueRE = regexp.MustCompile(`(?i)\b(?:CPF|CNPJ)(?:/CNPJ)?\b\s*:?\s*\d[\d./-]*`)
	looseTaxRE = regexp.MustCompile(`\b\d{8}/\d{4}-\d{2}\b|\b\d{9}-\d{2}\b|\b\d{11}\b|\b\d{14}\b`)
)

// Extract pulls the name, phones and emails out of an owner span.
func Extract(span string, opts Options) PartialRecord {
	if opts.Skip != nil {
		span = dropLines(span, opts.Skip)
	}
	rec := PartialRecord{
		Phones: Phones(span, opts.PhoneStyle),
		Emails: Emails(span),
		Name:   Name(span),
	}
	if opts.TitleCase && rec.Name != "" {
		rec.Name = TitleCase(rec.Name)
	}
	return rec
}

// Name returns the first line or ;-clause of span that still has a letter once role
// markers, labels, contact values and tax IDs are removed. Missing names are "".
func Name(span string) string {
	span = segment.StripMarkers(span)
	for _, clause := range clauseRE.Split(span, -1) {
		c := emailRE.ReplaceAllString(clause, " ")
		c = taxGroupRE.ReplaceAllString(c, " ")
		c = taxValueRE.ReplaceAllString(c, " ")
		c = taxIDRE.ReplaceAllString(c, " ")
		c = looseTaxRE.ReplaceAllString(c, " ")
		c = stripPhones(c)
		c = labelRE.ReplaceAllString(c, " ")
		c = strings.Join(strings.Fields(c), " ")
		c = strings.Trim(c, " -–—:,.()/|")
		if strings.IndexFunc(c, unicode.IsLetter) >= 0 {
			return c
		}
	}
	return ""
}

func dropLines(s string, skip *regexp.Regexp) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if !skip.MatchString(l) {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// TitleCase renders a name in pt-BR title case ("JOSE DA SILVA" -> "Jose Da Silva").
func TitleCase(name string) string {
	return cases.Title(language.BrazilianPortuguese).String(name)
}

// Dedupe trims values and removes blanks and duplicates, keeping first-seen order.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = appendUnique(out, strings.TrimSpace(v))
	}
	return out
}

func appendUnique(dst []string, v string) []string {
	if v == "" {
		return dst
	}
	for _, have := range dst {
		if have == v {
			return dst
		}
	}
	return append(dst, v)
}
