package unitkey

import "strings"

// Hint tells Canonicalize how to read a lone bare number such as "0103" or "7".
// It never changes how labeled or paired tokens are read.
type Hint uint8

const (
	HintNone Hint = iota
	HintApartment
	HintHouse
	HintLot
)

func (h Hint) String() string {
	switch h {
	case HintApartment:
		return "apartamento"
	case HintHouse:
		return "casa"
	case HintLot:
		return "lote"
	default:
		return "none"
	}
}

// ParseHint maps a unit-type label (as stored in the condominium registry) to a Hint.
func ParseHint(s string) Hint {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "casa", "casas", "house":
		return HintHouse
	case "lote", "lotes", "lt", "lot":
		return HintLot
	case "apartamento", "apartamentos", "ap", "apto", "apartment":
		return HintApartment
	default:
		return HintNone
	}
}
