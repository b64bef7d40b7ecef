package roster

import (
	"slices"

	"github.com/joseph-ayodele/condo-contacts/internal/fields"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// OwnerRecord is the merged owner data of one canonical unit.
type OwnerRecord struct {
	Unit    string
	Name    string
	Phones  []string
	Emails  []string
	Aliases []string
}

// Roster maps canonical unit keys to owner records, keeping insertion order.
type Roster struct {
	hint    unitkey.Hint
	order   []string
	records map[string]*OwnerRecord
}

func New(hint unitkey.Hint) *Roster {
	return &Roster{hint: hint, records: make(map[string]*OwnerRecord)}
}

// Aggregate folds partial records into a roster. Records whose unit does not
// canonicalize are dropped.
func Aggregate(records []fields.PartialRecord, hint unitkey.Hint) *Roster {
	r := New(hint)
	for _, rec := range records {
		r.Add(rec)
	}
	return r
}

// Add merges one partial record and reports whether it produced a key.
// The first non-empty name wins; phones, emails and aliases are unioned.
func (r *Roster) Add(rec fields.PartialRecord) bool {
	aliases := unitkey.AliasKeys(rec.RawUnit, r.hint)
	if len(aliases) == 0 {
		return false
	}
	key := aliases[0]

	cur, ok := r.records[key]
	if !ok {
		cur = &OwnerRecord{Unit: key, Phones: []string{}, Emails: []string{}, Aliases: []string{}}
		r.records[key] = cur
		r.order = append(r.order, key)
	}
	if cur.Name == "" {
		cur.Name = rec.Name
	}
	cur.Phones = union(cur.Phones, rec.Phones)
	cur.Emails = union(cur.Emails, rec.Emails)
	cur.Aliases = union(cur.Aliases, aliases)
	return true
}

func (r *Roster) Get(key string) (OwnerRecord, bool) {
	rec, ok := r.records[key]
	if !ok {
		return OwnerRecord{}, false
	}
	return *rec, true
}

func (r *Roster) Len() int { return len(r.order) }

// Keys returns canonical keys in insertion order.
func (r *Roster) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Records returns copies of the records in insertion order.
func (r *Roster) Records() []OwnerRecord {
	out := make([]OwnerRecord, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, *r.records[k])
	}
	return out
}

func union(dst, src []string) []string {
	for _, v := range src {
		if v != "" && !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
