package roster

import (
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// Contact is the wire shape of one reconciled unit. Field names are part of the
// public contract and stay in Portuguese.
type Contact struct {
	Unidade  string   `json:"unidade"`
	Nome     string   `json:"Nome"`
	Telefone []string `json:"Telefone"`
	Email    []string `json:"Email"`
}

// Render converts owner records into contacts, labeling units with opts.
// Lists are never nil so they encode as [].
func Render(records []OwnerRecord, opts unitkey.FormattingOptions) []Contact {
	out := make([]Contact, 0, len(records))
	for _, rec := range records {
		c := Contact{
			Unidade:  unitkey.Format(rec.Unit, opts),
			Nome:     rec.Name,
			Telefone: rec.Phones,
			Email:    rec.Emails,
		}
		if c.Telefone == nil {
			c.Telefone = []string{}
		}
		if c.Email == nil {
			c.Email = []string{}
		}
		out = append(out, c)
	}
	return out
}
