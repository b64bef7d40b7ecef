package dialect

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/fields"
	"github.com/joseph-ayodele/condo-contacts/internal/segment"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// Rewrite is one regexp replacement applied to the whole document text.
type Rewrite struct {
	Pattern *regexp.Regexp
	Replace string
}

// Dialect is the declarative description of one vendor layout. A single generic
// pipeline consumes it; nothing here is vendor code.
type Dialect struct {
	Name   string
	Vendor constants.Vendor

	// Breaks force line breaks into text where the PDF glued records together.
	Breaks []Rewrite
	// UnitMarker starts a new unit segment. Its capture groups (or whole match) are the raw unit.
	UnitMarker *regexp.Regexp
	// UnitSuffix, when set, is looked up in each segment and appended to the raw unit.
	UnitSuffix *regexp.Regexp
	Roles      segment.Policy
	Hint       unitkey.Hint

	// Delinquent patterns are unioned; DelinquentFallback only runs when the union is empty.
	Delinquent         []*regexp.Regexp
	DelinquentFallback *regexp.Regexp
	// Noise drops delinquent tokens that are report furniture such as page and total lines.
	Noise *regexp.Regexp

	PhoneStyle     fields.PhoneStyle
	TitleCaseNames bool
	// Stop truncates the document at its first match.
	Stop *regexp.Regexp
	// Skip drops matching lines from owner spans.
	Skip *regexp.Regexp
	// Profile names the oracle instruction profile for this layout.
	Profile string
}

var (
	blankRunRE = regexp.MustCompile(`[ \t]+`)
	crlfRE     = regexp.MustCompile(`\r\n?`)
)

// Prepare normalizes page breaks, NBSP and blank runs, truncates at Stop and applies Breaks.
func (d Dialect) Prepare(text string) string {
	t := crlfRE.ReplaceAllString(text, "\n")
	t = strings.ReplaceAll(t, "\f", "\n")
	t = strings.ReplaceAll(t, "\u00a0", " ")
	t = blankRunRE.ReplaceAllString(t, " ")
	if d.Stop != nil {
		if loc := d.Stop.FindStringIndex(t); loc != nil {
			t = t[:loc[0]]
		}
	}
	for _, rw := range d.Breaks {
		t = rw.Pattern.ReplaceAllString(t, rw.Replace)
	}
	return t
}

// FieldOptions returns the field extraction settings of the dialect.
func (d Dialect) FieldOptions() fields.Options {
	return fields.Options{
		PhoneStyle: d.PhoneStyle,
		TitleCase:  d.TitleCaseNames,
		Skip:       d.Skip,
	}
}

// OwnerRecords runs the deterministic path over a contacts document: prepare, segment by
// unit, scope each segment to its owner spans and extract fields from every span.
func (d Dialect) OwnerRecords(text string) []fields.PartialRecord {
	opts := d.FieldOptions()
	var out []fields.PartialRecord
	for _, seg := range segment.SegmentByUnit(d.Prepare(text), d.UnitMarker) {
		raw, body := seg.RawUnit, seg.Text
		if d.UnitSuffix != nil {
			if loc := d.UnitSuffix.FindStringIndex(body); loc != nil {
				raw += " " + body[loc[0]:loc[1]]
				body = body[:loc[0]] + " " + body[loc[1]:]
			}
		}
		for _, span := range segment.OwnerSpans(body, d.Roles) {
			rec := fields.Extract(span, opts)
			rec.RawUnit = raw
			out = append(out, rec)
		}
	}
	return out
}

// DelinquentUnits returns the raw unit tokens of a delinquency document in document order.
func (d Dialect) DelinquentUnits(text string) []string {
	t := d.Prepare(text)
	var out []string
	for _, re := range d.Delinquent {
		out = append(out, segment.UnitTokens(t, re)...)
	}
	if len(out) == 0 && d.DelinquentFallback != nil {
		out = segment.UnitTokens(t, d.DelinquentFallback)
	}
	if d.Noise == nil {
		return out
	}
	kept := out[:0]
	for _, tok := range out {
		if !d.Noise.MatchString(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}
