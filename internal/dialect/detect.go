package dialect

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/segment"
)

// Detection runs on folded text (upper case, no accents).
var (
	brUnitRE   = regexp.MustCompile(`(?m)^\s*UNIDADE:`)
	brPersonRE = regexp.MustCompile(`(?m)^\s*PESSOA:`)
	brDebitRE  = regexp.MustCompile(`(?m)^\s*BL\s+[IVX]+\s+\d{1,3}\b`)

	condomobCodeRE  = regexp.MustCompile(`\bB\d{2}AP\d{3}\b|\bQ\d{2}-LT\d{1,4}\b`)
	condomobOwnerRE = regexp.MustCompile(`PROPRIETARIO:`)
	condomobPayerRE = regexp.MustCompile(`\bPAGADOR\b`)

	apblNrotDashRE  = regexp.MustCompile(`(?m)^\s*0*\d{1,5}\s+0*\d{1,3}\s*-\s*[A-Z]`)
	apblNrotRE      = regexp.MustCompile(`(?m)^\s*0*\d{1,5}\s+0*\d{1,3}\s+[A-Z]`)
	apblNumBLRE     = regexp.MustCompile(`(?m)^\s*0*\d{1,5}\s+BL\s*0*\d{1,3}\b`)
	apblRotStrictRE = regexp.MustCompile(`\bAP\s*0*\d+\s+BL\s*0*\d+\b`)
	apSemBLDashRE   = regexp.MustCompile(`(?m)^\s*0*\d{4}\s*-\s*[A-Z]`)
	apSemBLLineRE   = regexp.MustCompile(`(?m)^\s*0*\d{4}\s*(?:-|[A-Z])`)
	casaAnyRE       = regexp.MustCompile(`\bCASA\s*0*\d+\b`)
	loteRE          = regexp.MustCompile(`\b(?:LT|LOTE)\s+\d+\b`)
	loteLineRE      = regexp.MustCompile(`(?m)^\s*LOTE\b`)
	quadraRE        = regexp.MustCompile(`\bQD\s+[A-Z0-9]+\b`)
	quadraLooseRE   = regexp.MustCompile(`\bQD\s*[A-Z0-9]+\b`)
	apBlocoWordRE   = regexp.MustCompile(`(?m)^\s*0*\d{1,5}\s+BLOCO\s*0*\d{1,3}\b`)
	apWordRE        = regexp.MustCompile(`\bAP(?:TO)?\b`)
)

// Detect picks the dialect of a document: BRCondominios markers first, then Condomob
// codes, then the Superlogica layout thresholds. Unknown layouts get GENERIC.
func Detect(text string) Dialect {
	return DetectVendor(text, constants.AutoVendor)
}

// DetectVendor restricts detection to the layouts of one vendor.
func DetectVendor(text string, v constants.Vendor) Dialect {
	t := segment.Fold(text)

	if (v == constants.AutoVendor || v == constants.BRCondominios) && isBRCondominios(t) {
		return brcondominios
	}
	if v == constants.BRCondominios {
		return brcondominios
	}
	if (v == constants.AutoVendor || v == constants.Condomob) && isCondomob(t) {
		return condomob
	}
	if v == constants.Condomob {
		return condomob
	}
	if name := superlogicaLayout(t); name != "" {
		d, _ := Lookup(name)
		return d
	}
	return generic
}

func isBRCondominios(t string) bool {
	if brUnitRE.MatchString(t) && brPersonRE.MatchString(t) {
		return true
	}
	return len(brDebitRE.FindAllStringIndex(t, 5)) >= 3
}

func isCondomob(t string) bool {
	if condomobCodeRE.MatchString(t) {
		return true
	}
	return condomobOwnerRE.MatchString(t) && condomobPayerRE.MatchString(t)
}

func count(re *regexp.Regexp, t string) int {
	return len(re.FindAllStringIndex(t, -1))
}

func hasQuadra(t string, loose bool) bool {
	if strings.Contains(t, "QUADRA") {
		return true
	}
	if loose {
		return quadraLooseRE.MatchString(t)
	}
	return quadraRE.MatchString(t)
}

// superlogicaLayout returns "" when no threshold is met.
func superlogicaLayout(t string) string {
	// houses first, so totals and codes never pull a house list into AP_SEM_BLOCO
	if count(casaAnyRE, t) >= 3 {
		if hasQuadra(t, false) {
			return constants.LayoutCasaQD
		}
		return constants.LayoutCasa
	}
	if count(apSemBLDashRE, t) >= 5 {
		return constants.LayoutAPSemBloco
	}
	if count(apblNrotDashRE, t)+count(apblNrotRE, t) >= 5 {
		return constants.LayoutAPBLNaoRotulado
	}
	if count(apblNumBLRE, t) >= 5 {
		return constants.LayoutAPBLNumBL
	}
	if loteLineRE.MatchString(t) {
		if hasQuadra(t, true) {
			return constants.LayoutQDLT
		}
		return constants.LayoutLT
	}
	if count(apSemBLLineRE, t) >= 8 {
		return constants.LayoutAPSemBloco
	}
	if count(apBlocoWordRE, t) >= 5 {
		return constants.LayoutAPBlocoPalavra
	}
	if count(apblRotStrictRE, t) >= 3 || (strings.Contains(t, "BLOCO") && apWordRE.MatchString(t)) {
		return constants.LayoutAPBLRotulado
	}
	if count(loteRE, t) >= 3 {
		if hasQuadra(t, false) {
			return constants.LayoutQDLT
		}
		return constants.LayoutLT
	}
	return ""
}
