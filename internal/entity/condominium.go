package entity

import (
	"time"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// Condominium is a registry entry for data transfer between layers.
type Condominium struct {
	ID               int64     `json:"id"`
	Name             string    `json:"nome"`
	CNPJ             string    `json:"cnpj,omitempty"`
	ManagementSystem string    `json:"sistema_gestao,omitempty"`
	UnitType         string    `json:"tipo_unidade,omitempty"`
	Trustee          string    `json:"sindico,omitempty"`
	Phone            string    `json:"telefone,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Vendor maps the management system onto the layout vendor. Unknown systems detect.
func (c *Condominium) Vendor() constants.Vendor {
	v, _ := constants.CanonicalizeVendor(c.ManagementSystem)
	return v
}

// Hint maps the unit type onto the bare-number reading used for unit keys.
func (c *Condominium) Hint() unitkey.Hint {
	return unitkey.ParseHint(c.UnitType)
}
