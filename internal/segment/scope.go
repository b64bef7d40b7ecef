package segment

import (
	"regexp"
	"strings"
)

// MarkerPosition says where a dialect writes the role marker relative to the data it labels.
type MarkerPosition uint8

const (
	// Auto reads after the marker when that span has content, before it otherwise.
	Auto MarkerPosition = iota
	// Leading: "Proprietário: NAME ... Pagador: ..."
	Leading
	// Trailing: "NAME phones emails Proprietário"
	Trailing
	// Row: a marker anywhere in the segment tags the whole segment.
	Row
	// PersonBlock: the segment is split into person blocks, each tagged by its own markers.
	PersonBlock
)

// Policy is a dialect's role-scoping rule.
type Policy struct {
	Position MarkerPosition
	// OwnerOnly declares the whole document as owner data; markers are not required.
	OwnerOnly bool
	// Person splits a segment into person blocks when Position is PersonBlock.
	Person *regexp.Regexp
	// End cuts every span at its first match (financial tables after the owner block).
	End *regexp.Regexp
}

// ScopeToRole returns the first span of segmentText attributed to role.
func ScopeToRole(segmentText string, role Role, p Policy) (string, bool) {
	spans := roleSpans(segmentText, role, p)
	if len(spans) == 0 {
		return "", false
	}
	return spans[0], true
}

// OwnerSpans returns every owner span of segmentText; a unit may list several owners.
// Without an owner marker the segment yields nothing unless the policy is OwnerOnly.
func OwnerSpans(segmentText string, p Policy) []string {
	return roleSpans(segmentText, Owner, p)
}

func roleSpans(text string, role Role, p Policy) []string {
	var out []string
	for _, span := range rawSpans(text, role, p) {
		if p.End != nil {
			if loc := p.End.FindStringIndex(span); loc != nil {
				span = span[:loc[0]]
			}
		}
		out = append(out, keep(span)...)
	}
	return out
}

func rawSpans(text string, role Role, p Policy) []string {
	if p.OwnerOnly {
		if role != Owner {
			return nil
		}
		return []string{StripMarkers(text)}
	}

	switch p.Position {
	case Row:
		if hasRole(FindMarkers(text), role) {
			return []string{StripMarkers(text)}
		}
		return nil
	case PersonBlock:
		var out []string
		for _, block := range personBlocks(text, p.Person) {
			if hasRole(FindMarkers(block), role) {
				out = append(out, StripMarkers(block))
			}
		}
		return out
	}

	ms := FindMarkers(text)
	var out []string
	for i, m := range ms {
		if m.Role != role {
			continue
		}
		lead := leadingSpan(text, ms, i)
		switch {
		case p.Position == Leading:
			out = append(out, lead)
		case p.Position == Trailing:
			out = append(out, trailingSpan(text, ms, i))
		case hasContent(lead):
			out = append(out, lead)
		default:
			out = append(out, trailingSpan(text, ms, i))
		}
	}
	return out
}

func leadingSpan(text string, ms []Marker, i int) string {
	end := len(text)
	if i+1 < len(ms) {
		end = ms[i+1].Start
	}
	return text[ms[i].End:end]
}

func trailingSpan(text string, ms []Marker, i int) string {
	start := 0
	if i > 0 {
		start = ms[i-1].End
	}
	return text[start:ms[i].Start]
}

func personBlocks(text string, person *regexp.Regexp) []string {
	if person == nil {
		return []string{text}
	}
	locs := person.FindAllStringIndex(text, -1)
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, text[loc[1]:end])
	}
	return blocks
}

func hasRole(ms []Marker, role Role) bool {
	for _, m := range ms {
		if m.Role == role {
			return true
		}
	}
	return false
}

func keep(span string) []string {
	if !hasContent(span) {
		return nil
	}
	return []string{strings.TrimSpace(span)}
}
