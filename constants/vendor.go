package constants

import (
	"strings"
)

// Vendor is the billing system that produced a document.
type Vendor string

const (
	Superlogica   Vendor = "superlogica"
	Condomob      Vendor = "condomob"
	BRCondominios Vendor = "brcondominios"
	// AutoVendor lets layout detection pick among every vendor.
	AutoVendor Vendor = "auto"
)

var allVendors = []Vendor{
	Superlogica,
	Condomob,
	BRCondominios,
	AutoVendor,
}

func AsStringSlice() []string {
	result := make([]string, len(allVendors))
	for i, v := range allVendors {
		result[i] = string(v)
	}
	return result
}

// CanonicalizeVendor maps user input (route segment, registry value) to a Vendor.
func CanonicalizeVendor(input string) (Vendor, bool) {
	if input == "" {
		return AutoVendor, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Vendor{
		"superlógica":    Superlogica,
		"super logica":   Superlogica,
		"br condominios": BRCondominios,
		"br condomínios": BRCondominios,
		"brcondominio":   BRCondominios,
		"brcondomínios":  BRCondominios,
		"br-condominios": BRCondominios,
		"condo mob":      Condomob,
		"detect":         AutoVendor,
		"automatico":     AutoVendor,
		"automático":     AutoVendor,
	}

	if v, ok := synonyms[normalized]; ok {
		return v, true
	}

	for _, v := range allVendors {
		if normalized == string(v) {
			return v, true
		}
	}

	return AutoVendor, false
}
