package dialect

import (
	"regexp"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/fields"
	"github.com/joseph-ayodele/condo-contacts/internal/segment"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

var re = regexp.MustCompile

// Shared Superlogica report furniture.
var (
	superlogicaStop = re(`(?mi)^[ \t]*TOTAL DE CONTATOS`)
	superlogicaSkip = re(`(?i)CONTATOS DAS UNIDADES|TIPO DO CONTATO|NOME/TELEFONE|STATUS DA UNIDADE|^[ \t]*UNIDADE\b|^[ \t]*W0.*CONDOM`)
)

const (
	lotToken    = `(?:LT|LOTE)[ \t]*0*\d{1,4}[A-Z]?`
	quadraToken = `(?:QD|QUADRA)[ \t]*[A-Z0-9]{1,3}`
)

var superlogica = []Dialect{
	{
		// "104 Bloco 01" alone on a line, name and contacts below, "Proprietário" closing the record.
		Name:           constants.LayoutAPBlocoPalavra,
		Vendor:         constants.Superlogica,
		UnitMarker:     re(`(?mi)^[ \t]*(0*\d{1,5}[ \t]+BLOCO[ \t]*0*\d{1,3})[ \t]*$`),
		Roles:          segment.Policy{Position: segment.Trailing},
		Hint:           unitkey.HintApartment,
		Delinquent:     []*regexp.Regexp{re(`(?mi)^[ \t]*(0*\d{1,5}[ \t]+BLOCO[ \t]*0*\d{1,3})[ \t]*-`)},
		TitleCaseNames: true,
		Stop:           superlogicaStop,
		Skip:           superlogicaSkip,
		Profile:        "superlogica",
	},
	{
		// "001 01 NOME PROPRIETÁRIO ..." rows, often glued together by the PDF text layer.
		Name:   constants.LayoutAPBLNaoRotulado,
		Vendor: constants.Superlogica,
		Breaks: []Rewrite{
			{re(`(?i)(^|[^\d])0*(\d{1,5})[ \t]+0*(\d{1,3})[ \t]+(\pL)`), "${1}\n${2} ${3} ${4}"},
			{re(`(^|[^\d])0*(\d{1,5})[ \t]+0*(\d{1,3})[ \t]*-[ \t]*`), "${1}\n${2} ${3} - "},
		},
		UnitMarker:     re(`(?m)^[ \t]*0*(\d{1,5})[ \t]+0*(\d{1,3})\b`),
		Roles:          segment.Policy{Position: segment.Row},
		Hint:           unitkey.HintApartment,
		Delinquent:     []*regexp.Regexp{re(`(?m)^[ \t]*0*(\d{1,5})[ \t]+0*(\d{1,3})[ \t]*-`)},
		TitleCaseNames: true,
		Stop:           superlogicaStop,
		Skip:           superlogicaSkip,
		Profile:        "superlogica",
	},
	{
		// "AP 101 BL 3 NOME ..." one unit per line, owner-only export.
		Name:       constants.LayoutAPBLRotulado,
		Vendor:     constants.Superlogica,
		UnitMarker: re(`(?i)\b(AP[ \t]*\d+[ \t]+BL[ \t]*\d+)\b`),
		Roles:      segment.Policy{OwnerOnly: true},
		Hint:       unitkey.HintApartment,
		Delinquent: []*regexp.Regexp{
			re(`(?mi)^[ \t]*(0*\d{1,5}[ \t]+BL[ \t]*0*\d{1,3})[ \t]*-`),
			re(`\b(0*\d{1,3}[ \t]*-[ \t]*0*\d{1,4})\b`),
		},
		Stop:    superlogicaStop,
		Skip:    superlogicaSkip,
		Profile: "superlogica",
	},
	{
		// "0103 NOME ..." apartments without blocks.
		Name:       constants.LayoutAPSemBloco,
		Vendor:     constants.Superlogica,
		UnitMarker: re(`(?m)^[ \t]*(0*\d{4})\b`),
		Roles:      segment.Policy{Position: segment.Row},
		Hint:       unitkey.HintApartment,
		Delinquent: []*regexp.Regexp{re(`(?m)^[ \t]*(0*\d{4})[ \t]*-[ \t]*\pL`)},
		// without the dash the line must still continue with a letter, not a number
		DelinquentFallback: re(`(?m)^[ \t]*(0*\d{4})[ \t]*(?:-|\pL)`),
		TitleCaseNames:     true,
		Stop:               superlogicaStop,
		Skip:               superlogicaSkip,
		Profile:            "superlogica",
	},
	{
		// "104 BL01" block headers.
		Name:           constants.LayoutAPBLNumBL,
		Vendor:         constants.Superlogica,
		UnitMarker:     re(`(?mi)^[ \t]*(0*\d{1,5}[ \t]*BL[ \t]*0*\d{1,3})\b`),
		Roles:          segment.Policy{Position: segment.Row},
		Hint:           unitkey.HintApartment,
		Delinquent:     []*regexp.Regexp{re(`(?mi)^[ \t]*(0*\d{1,5}[ \t]+BL[ \t]*0*\d{1,3})[ \t]*-`)},
		TitleCaseNames: true,
		Stop:           superlogicaStop,
		Skip:           superlogicaSkip,
		Profile:        "superlogica",
	},
	{
		// "CASA 005" headers; the role word follows the owner's data.
		Name:           constants.LayoutCasa,
		Vendor:         constants.Superlogica,
		UnitMarker:     re(`(?mi)^[ \t]*(CASA[ \t]*-?[ \t]*0*\d{1,5})\b`),
		Roles:          segment.Policy{Position: segment.Trailing},
		Hint:           unitkey.HintHouse,
		Delinquent:     []*regexp.Regexp{re(`(?i)\b(CASA[ \t]*-?[ \t]*0*\d{1,5})\b`)},
		TitleCaseNames: true,
		Stop:           superlogicaStop,
		Skip:           superlogicaSkip,
		Profile:        "superlogica",
	},
	{
		// "CASA 5 ... QD 3" on one line.
		Name:       constants.LayoutCasaQD,
		Vendor:     constants.Superlogica,
		UnitMarker: re(`(?i)\b(CASA[ \t]*-?[ \t]*0*\d{1,5})\b`),
		UnitSuffix: re(`(?i)\b` + quadraToken + `\b`),
		Roles:      segment.Policy{OwnerOnly: true},
		Hint:       unitkey.HintHouse,
		Delinquent: []*regexp.Regexp{re(`(?i)\b(CASA[ \t]*0*\d{1,5})\b.*?\b(` + quadraToken + `)\b`)},
		Stop:       superlogicaStop,
		Skip:       superlogicaSkip,
		Profile:    "superlogica",
	},
	{
		Name:       constants.LayoutLT,
		Vendor:     constants.Superlogica,
		UnitMarker: re(`(?i)\b(` + lotToken + `)\b`),
		Roles:      segment.Policy{OwnerOnly: true},
		Hint:       unitkey.HintLot,
		Delinquent: lotDelinquent,
		Stop:       superlogicaStop,
		Skip:       superlogicaSkip,
		Profile:    "superlogica",
	},
	{
		Name:   constants.LayoutQDLT,
		Vendor: constants.Superlogica,
		UnitMarker: re(`(?i)\b(` + quadraToken + `)[ \t,-]*(` + lotToken + `)\b` +
			`|\b(` + lotToken + `)[ \t,-]*(` + quadraToken + `)\b`),
		Roles:      segment.Policy{OwnerOnly: true},
		Hint:       unitkey.HintLot,
		Delinquent: lotDelinquent,
		Stop:       superlogicaStop,
		Skip:       superlogicaSkip,
		Profile:    "superlogica",
	},
}

var lotDelinquent = []*regexp.Regexp{
	re(`(?mi)^[ \t]*(LOTE[ \t]+0*[0-9]+[A-Z]?)[ \t]*-`),
	re(`(?mi)^[ \t]*(LOTE[ \t]+0*[0-9]+[A-Z]?)[ \t]+((?:QUADRA|QD)[ \t]*[A-Z0-9]+)[ \t]*-`),
}

// condomobUnit covers B01AP101 and Q02-LT08 codes anywhere, CASA-21 and 1-102 codes at
// the start of a line (addresses and due dates carry look-alikes).
var condomobUnit = re(`(?mi)\b(B\d{2}[ \t]*AP[ \t]*\d{3}|Q\d{2}[ \t]*-?[ \t]*LT[ \t]*\d{1,4}[A-Z]?)\b` +
	`|^[ \t]*(CASA[ \t]*-?[ \t]*\d{1,5}|\d{1,2}-\d{2,4})\b`)

var condomob = Dialect{
	Name:       constants.LayoutCondomob,
	Vendor:     constants.Condomob,
	UnitMarker: condomobUnit,
	// "Proprietário: NAME (CPF) contacts Pagador: ..." then the financial table.
	Roles: segment.Policy{
		Position: segment.Leading,
		End:      re(`(?i)\b(?:Tipo|Ordin[aá]ria|Acordo|Inadimpl[eê]ncia|Raz[aã]o)\b`),
	},
	Hint:       unitkey.HintApartment,
	Delinquent: []*regexp.Regexp{condomobUnit},
	PhoneStyle: fields.PhoneE164,
	Profile:    "condomob",
}

var brcondominios = Dialect{
	Name:   constants.LayoutBRCondominios,
	Vendor: constants.BRCondominios,
	// "Unidade: BL I 01 Local: ..." or "Unidade: AR1001 Local: ..."
	UnitMarker: re(`(?mi)^[ \t]*Unidade:[ \t]*(.*?)(?:[ \t]+Local:.*)?$`),
	Roles: segment.Policy{
		Position: segment.PersonBlock,
		Person:   re(`(?mi)^[ \t]*Pessoa:[ \t]*`),
	},
	Hint: unitkey.HintApartment,
	Delinquent: []*regexp.Regexp{
		re(`(?mi)^[ \t]*(BL[ \t]+[IVX]+[ \t]+\d{1,3})\b`),
		// lettered codes (AR1001, BALI1004) are printed upper-case
		re(`(?m)^[ \t]*([A-Z]{1,10}[ \t]*\d{1,6})\b`),
	},
	Noise:          re(`(?i)^(?:PAG|PAGINA|TOTAL|TOTAIS|VENC|VENCIMENTO|DATA|VALOR|EMISSAO|CEP|CPF|CNPJ|FONE|TEL|FL|FOLHA)[ \t]*\d`),
	PhoneStyle:     fields.PhoneE164,
	TitleCaseNames: true,
	Profile:        "brcondominios",
}

// genericUnit accepts every labeled notation the canonicalizer understands, plus bare
// "4-102" and "102 BL 4" codes at the start of a line.
var genericUnit = re(`(?mi)\bB\d{2}[ \t]*AP[ \t]*\d{3}\b` +
	`|\bQ\d{2}[ \t]*-?[ \t]*LT[ \t]*\d{1,4}[A-Z]?\b` +
	`|\bCASA[ \t]*-?[ \t]*\d{1,5}\b(?:[ \t]+` + quadraToken + `\b)?` +
	`|\b` + quadraToken + `[ \t,-]+` + lotToken + `\b` +
	`|\b` + lotToken + `\b(?:[ \t]+` + quadraToken + `\b)?` +
	`|\b(?:AP|APTO|APARTAMENTO)\.?[ \t]*\d{1,5}\b(?:[ \t,-]*(?:BL|BLOCO)\.?[ \t]*[A-Z0-9]{1,3}\b)?` +
	`|\b(?:BL|BLOCO)\.?[ \t]*[A-Z0-9]{1,3}[ \t,-]*(?:AP|APTO|APARTAMENTO)\.?[ \t]*\d{1,5}\b` +
	`|^[ \t]*\d{1,5}[ \t]*(?:BL|BLOCO)[ \t]*\d{1,3}\b` +
	`|^[ \t]*\d{1,3}[ \t]*-[ \t]*\d{1,5}\b`)

var generic = Dialect{
	Name:       constants.LayoutGeneric,
	Vendor:     constants.AutoVendor,
	UnitMarker: genericUnit,
	Roles:      segment.Policy{Position: segment.Auto},
	Hint:       unitkey.HintNone,
	Delinquent: []*regexp.Regexp{genericUnit},
	Profile:    "generic",
}

var byName = func() map[string]Dialect {
	m := make(map[string]Dialect, len(superlogica)+3)
	for _, d := range All() {
		m[d.Name] = d
	}
	return m
}()

// All returns every known dialect, GENERIC last.
func All() []Dialect {
	out := make([]Dialect, 0, len(superlogica)+3)
	out = append(out, superlogica...)
	return append(out, condomob, brcondominios, generic)
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, bool) {
	d, ok := byName[name]
	return d, ok
}

// Generic is the fallback dialect for unknown layouts.
func Generic() Dialect { return generic }

// ForVendor returns the dialects of one vendor. AutoVendor returns all of them.
func ForVendor(v constants.Vendor) []Dialect {
	if v == constants.AutoVendor {
		return All()
	}
	var out []Dialect
	for _, d := range All() {
		if d.Vendor == v {
			out = append(out, d)
		}
	}
	return out
}
