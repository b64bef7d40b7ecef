package unitkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		hint Hint
		want string
	}{
		{"labeled", "AP 102 BL 04", HintNone, "AP 102 BL 4"},
		{"block first", "BL 04 AP 102", HintNone, "AP 102 BL 4"},
		{"dash pair", "4-102", HintNone, "AP 102 BL 4"},
		{"apartment then block", "102 BL 4", HintNone, "AP 102 BL 4"},
		{"glued block", "104BL01", HintNone, "AP 104 BL 1"},
		{"synonyms", "Apartamento 0102 Bloco 4", HintNone, "AP 102 BL 4"},
		{"apto", "apto. 12 / bloco B", HintNone, "AP 12 BL B"},
		{"house zeros", "CASA 003", HintNone, "CASA 3"},
		{"house dash", "CASA-004", HintNone, "CASA 4"},
		{"house quadra", "casa 02 quadra 7", HintNone, "CASA 2 QD 7"},
		{"condomob apartment", "B01AP101", HintNone, "AP 101 BL 1"},
		{"condomob lot", "Q02-LT08", HintNone, "QD 2 LT 8"},
		{"lot then quadra", "LOTE 5 QUADRA A", HintNone, "QD A LT 5"},
		{"lot suffix", "LT 049M", HintNone, "LT 49M"},
		{"roman block", "BL I 05", HintNone, "AP 5 BL I"},
		{"lettered code", "AR1001", HintNone, "AP 1001 BL AR"},
		{"lettered code spaced", "BALI 1004", HintNone, "AP 1004 BL BALI"},
		{"bare four digits", "0103", HintNone, "AP 103"},
		{"bare short", "07", HintNone, "AP 7"},
		{"bare house hint", "7", HintHouse, "CASA 7"},
		{"bare lot hint", "012", HintLot, "LT 12"},
		{"bare pair", "101 03", HintNone, "AP 101 BL 3"},
		{"punctuation", "AP: 101; BL: 3.", HintNone, "AP 101 BL 3"},
		{"nbsp", "AP\u00a0101 BL 3", HintNone, "AP 101 BL 3"},
		{"no number", "BLOCO A", HintNone, ""},
		{"block only", "BL 07", HintNone, ""},
		{"block header", "Bloco 3:", HintNone, ""},
		{"quadra only", "QUADRA 7", HintNone, ""},
		{"empty", "   ", HintNone, ""},
		{"header noise", "TOTAL GERAL", HintNone, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Canonicalize(tc.raw, tc.hint))
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	raws := []string{
		"AP 102 BL 04", "4-102", "CASA 003", "B01AP101", "Q02-LT08", "LT 5 QD A",
		"BL I 05", "AR1001", "0103", "101 03", "CASA 2 QUADRA 07", "LT 49M", "104BL01",
	}
	for _, hint := range []Hint{HintNone, HintApartment, HintHouse, HintLot} {
		for _, raw := range raws {
			once := Canonicalize(raw, hint)
			assert.Equal(t, once, Canonicalize(once, hint), "raw=%q hint=%s", raw, hint)
		}
	}
}

func TestCanonicalize_LeadingZeroInvariance(t *testing.T) {
	assert.Equal(t, Canonicalize("CASA 3", HintNone), Canonicalize("CASA 003", HintNone))
	assert.Equal(t, Canonicalize("BL 7 AP 1", HintNone), Canonicalize("BL 07 AP 001", HintNone))
	assert.Equal(t, Canonicalize("LT 1", HintNone), Canonicalize("LOTE 001", HintNone))
}

func TestAliasKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare pair registers swap", "101 03", []string{"AP 101 BL 3", "AP 3 BL 101"}},
		{"bare four digits registers block split", "0103", []string{"AP 103", "AP 3 BL 1"}},
		{"labeled is unambiguous", "AP 101 BL 3", []string{"AP 101 BL 3"}},
		{"dash pair is unambiguous", "3-101", []string{"AP 101 BL 3"}},
		{"nothing", "---", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AliasKeys(tc.raw, HintNone))
		})
	}
}

func TestParseHint(t *testing.T) {
	assert.Equal(t, HintHouse, ParseHint("Casa"))
	assert.Equal(t, HintLot, ParseHint(" lote "))
	assert.Equal(t, HintApartment, ParseHint("apartamento"))
	assert.Equal(t, HintNone, ParseHint("misto"))
}
