package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// Role is the occupant role a span of text is attributed to.
type Role uint8

const (
	Owner Role = iota
	Tenant
	Dependent
	Other
)

func (r Role) String() string {
	switch r {
	case Owner:
		return "owner"
	case Tenant:
		return "tenant"
	case Dependent:
		return "dependent"
	default:
		return "other"
	}
}

// markerTail is the optional gender suffix ("PROPRIETARIO(A)") and colon after a role word.
const markerTail = `(?:\s*\(\s*[AO]S?\s*\))?(?:\s*:)?`

// roleRE runs against folded (upper-case, accent-free) text. Group order follows Role.
// Words that double as surnames (FILHO) or kinship only count when followed by a colon.
var roleRE = regexp.MustCompile(
	`(\bPROPRIET\s*A\s*R\s*I\s*[OA]S?\b` + markerTail + `|\bPROP\s*:)` +
		`|(\b(?:INQUILIN[OA]S?|LOCATARI[OA]S?)\b` + markerTail + `)` +
		`|(\bDEPENDENTES?\b` + markerTail + `|\b(?:CONJUGE|ESPOS[OA]|FILH[OA])\s*:)` +
		`|(\b(?:RESIDENTES?|MORADOR(?:ES|A)?|OCUPANTES?|PROCURADOR(?:ES|A)?|PAGADOR(?:ES|A)?|SINDIC[OA]|VISITANTES?)\b` + markerTail + `)`,
)

// Marker is one role marker occurrence, as byte offsets into the original text.
type Marker struct {
	Role  Role
	Start int
	End   int
}

// FindMarkers locates role markers case- and accent-insensitively.
func FindMarkers(text string) []Marker {
	folded, offsets := foldUpper(text)
	locs := roleRE.FindAllStringSubmatchIndex(folded, -1)
	out := make([]Marker, 0, len(locs))
	for _, loc := range locs {
		role := Other
		for g := 1; g <= 4; g++ {
			if loc[2*g] >= 0 {
				role = Role(g - 1)
				break
			}
		}
		out = append(out, Marker{Role: role, Start: offsets[loc[0]], End: offsets[loc[1]]})
	}
	return out
}

// Classify returns the role of a marker word such as "Proprietário" or "Inquilino:".
// ok is false when the text carries no marker.
func Classify(marker string) (Role, bool) {
	ms := FindMarkers(marker)
	if len(ms) == 0 {
		return Other, false
	}
	return ms[0].Role, true
}

// StripMarkers removes every role marker from text.
func StripMarkers(text string) string {
	ms := FindMarkers(text)
	if len(ms) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, m := range ms {
		b.WriteString(text[prev:m.Start])
		b.WriteByte(' ')
		prev = m.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

func hasContent(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
