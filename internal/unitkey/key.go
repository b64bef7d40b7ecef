package unitkey

import (
	"strings"
)

// Key is a parsed canonical unit key.
type Key struct {
	House     string
	Apartment string
	Block     string
	Quadra    string
	Lot       string
}

func (k *Key) set(keyword, value string) {
	var dst *string
	switch keyword {
	case "CASA":
		dst = &k.House
	case "AP":
		dst = &k.Apartment
	case "BL":
		dst = &k.Block
	case "QD":
		dst = &k.Quadra
	case "LT":
		dst = &k.Lot
	default:
		return
	}
	if *dst == "" {
		*dst = value
	}
}

func (k Key) empty() bool {
	return k == Key{}
}

// String renders the key in canonical order: CASA, AP, BL, QD, LT.
func (k Key) String() string {
	return k.render(DefaultFormatting())
}

func (k Key) render(opts FormattingOptions) string {
	parts := make([]string, 0, 6)
	add := func(prefix, value string, pad int) {
		if value == "" {
			return
		}
		parts = append(parts, prefix, padNumber(value, pad))
	}
	add(opts.HousePrefix, k.House, opts.PadHouse)
	add(opts.ApartmentPrefix, k.Apartment, opts.PadApartment)
	add(opts.BlockPrefix, k.Block, opts.PadBlock)
	add(opts.QuadraPrefix, k.Quadra, 0)
	add(opts.LotPrefix, k.Lot, 0)
	return strings.Join(parts, " ")
}

// Parse reads a canonical key back into its components.
func Parse(canonical string) (Key, bool) {
	return parse(normalize(canonical), HintNone)
}

// FormattingOptions controls how canonical keys are rendered in output labels.
// The zero value is not useful; start from DefaultFormatting.
type FormattingOptions struct {
	HousePrefix     string
	ApartmentPrefix string
	BlockPrefix     string
	QuadraPrefix    string
	LotPrefix       string
	PadHouse        int
	PadApartment    int
	PadBlock        int
}

// DefaultFormatting renders canonical keys verbatim.
func DefaultFormatting() FormattingOptions {
	return FormattingOptions{
		HousePrefix:     "CASA",
		ApartmentPrefix: "AP",
		BlockPrefix:     "BL",
		QuadraPrefix:    "QD",
		LotPrefix:       "LT",
	}
}

// withDefaults fills empty prefixes so a partially set value still renders.
func (o FormattingOptions) withDefaults() FormattingOptions {
	d := DefaultFormatting()
	if o.HousePrefix == "" {
		o.HousePrefix = d.HousePrefix
	}
	if o.ApartmentPrefix == "" {
		o.ApartmentPrefix = d.ApartmentPrefix
	}
	if o.BlockPrefix == "" {
		o.BlockPrefix = d.BlockPrefix
	}
	if o.QuadraPrefix == "" {
		o.QuadraPrefix = d.QuadraPrefix
	}
	if o.LotPrefix == "" {
		o.LotPrefix = d.LotPrefix
	}
	return o
}

// Format renders a canonical key for display. Keys that do not parse are returned as-is.
func Format(canonical string, opts FormattingOptions) string {
	k, ok := Parse(canonical)
	if !ok {
		return canonical
	}
	return k.render(opts.withDefaults())
}

func padNumber(v string, width int) string {
	if width <= 0 || len(v) >= width || strings.Trim(v, "0123456789") != "" {
		return v
	}
	return strings.Repeat("0", width-len(v)) + v
}
