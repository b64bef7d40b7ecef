package unitkey

import (
	"slices"
	"strings"
)

// Filter restricts output to one unit. Empty fields are ignored.
type Filter struct {
	Unit      string
	Apartment string
	Block     string
	House     string
}

func (f Filter) Empty() bool {
	return f == Filter{}
}

// Match reports whether the canonical key satisfies every non-empty filter field.
// Values are compared after the same normalization Canonicalize applies.
func Match(canonical string, f Filter) bool {
	if f.Empty() {
		return true
	}
	k, ok := Parse(canonical)
	if !ok {
		return false
	}
	if f.Unit != "" && !slices.Contains(AliasKeys(f.Unit, HintNone), canonical) {
		return false
	}
	if f.Apartment != "" && k.Apartment != component(f.Apartment) {
		return false
	}
	if f.Block != "" && k.Block != component(f.Block) {
		return false
	}
	if f.House != "" && k.House != component(f.House) {
		return false
	}
	return true
}

func component(v string) string {
	return trimZeros(strings.ToUpper(strings.TrimSpace(v)))
}
