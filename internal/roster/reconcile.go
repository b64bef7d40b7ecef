package roster

import (
	"slices"

	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// DelinquentSet holds the alias sets of the units found in a delinquency document.
type DelinquentSet struct {
	hint    unitkey.Hint
	keys    []string
	aliases map[string]struct{}
}

func NewDelinquentSet(raws []string, hint unitkey.Hint) *DelinquentSet {
	d := &DelinquentSet{hint: hint, aliases: make(map[string]struct{})}
	for _, raw := range raws {
		d.Add(raw)
	}
	return d
}

// Add registers every reading of raw. Tokens that do not canonicalize are ignored.
func (d *DelinquentSet) Add(raw string) bool {
	aliases := unitkey.AliasKeys(raw, d.hint)
	if len(aliases) == 0 {
		return false
	}
	if !slices.Contains(d.keys, aliases[0]) {
		d.keys = append(d.keys, aliases[0])
	}
	for _, a := range aliases {
		d.aliases[a] = struct{}{}
	}
	return true
}

// Len is the number of unique canonical keys.
func (d *DelinquentSet) Len() int { return len(d.keys) }

// Keys returns the unique canonical keys in document order.
func (d *DelinquentSet) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Intersects reports whether any of the given aliases is a delinquent alias.
func (d *DelinquentSet) Intersects(aliases []string) bool {
	for _, a := range aliases {
		if _, ok := d.aliases[a]; ok {
			return true
		}
	}
	return false
}

// Reconcile returns the roster records whose alias set meets the delinquent set,
// in roster order. An empty result is a valid outcome.
func Reconcile(r *Roster, d *DelinquentSet) []OwnerRecord {
	out := []OwnerRecord{}
	if r == nil || d == nil {
		return out
	}
	for _, rec := range r.Records() {
		if d.Intersects(rec.Aliases) {
			out = append(out, rec)
		}
	}
	return out
}

// Filter keeps the records whose canonical unit satisfies f.
func Filter(records []OwnerRecord, f unitkey.Filter) []OwnerRecord {
	if f.Empty() {
		return records
	}
	out := []OwnerRecord{}
	for _, rec := range records {
		if unitkey.Match(rec.Unit, f) {
			out = append(out, rec)
		}
	}
	return out
}
