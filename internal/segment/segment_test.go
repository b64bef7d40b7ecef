package segment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var casaRE = regexp.MustCompile(`(?i)\bCASA[\s-]*\d+\b`)

func TestSegmentByUnit(t *testing.T) {
	text := "Relatório de contatos\nCASA 003 João Proprietário\nCASA-004 Maria Inquilino\nCASA 003 Ana Proprietário"
	segs := SegmentByUnit(text, casaRE)
	require.Len(t, segs, 3)

	assert.Equal(t, "CASA 003", segs[0].RawUnit)
	assert.Equal(t, " João Proprietário\n", segs[0].Text)
	assert.Equal(t, "CASA-004", segs[1].RawUnit)
	assert.Equal(t, "CASA 003", segs[2].RawUnit, "repeated units stay separate segments")
	assert.Equal(t, " Ana Proprietário", segs[2].Text)
}

func TestSegmentByUnit_CaptureGroups(t *testing.T) {
	re := regexp.MustCompile(`(?mi)^\s*0*(\d{1,5})\s+BLOCO\s*0*(\d{1,3})\b`)
	segs := SegmentByUnit("104 Bloco 01\nJOSE\nProprietário\n0105 Bloco 2\nANA", re)
	require.Len(t, segs, 2)
	assert.Equal(t, "104 1", segs[0].RawUnit)
	assert.Equal(t, "105 2", segs[1].RawUnit)
}

func TestSegmentByUnit_NoMarker(t *testing.T) {
	assert.Empty(t, SegmentByUnit("nothing here", casaRE))
	assert.Nil(t, SegmentByUnit("CASA 1", nil))
	assert.Nil(t, SegmentByUnit("", casaRE))
}

func TestUnitTokens(t *testing.T) {
	re := regexp.MustCompile(`(?m)^\s*(CASA\s*\d+)\s*-`)
	got := UnitTokens("CASA 3 - JOAO\nCASA 04 - ANA\nTOTAL 2", re)
	assert.Equal(t, []string{"CASA 3", "CASA 04"}, got)
}

func TestOwnerSpans(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		policy Policy
		want   []string
	}{
		{
			name:   "trailing marker",
			text:   " João Silva (123.456.789-00) ; (98) 99999-8888 ; joao@x.com Proprietário\n",
			policy: Policy{Position: Trailing},
			want:   []string{"João Silva (123.456.789-00) ; (98) 99999-8888 ; joao@x.com"},
		},
		{
			name:   "tenant only",
			text:   " Maria ... Inquilino",
			policy: Policy{Position: Trailing},
			want:   nil,
		},
		{
			name:   "residente only",
			text:   "Residente: Carlos 98 99999-0000",
			policy: Policy{Position: Auto},
			want:   nil,
		},
		{
			name:   "leading until next role",
			text:   " Proprietário: ANA SOUZA (123.456.789-00) ana@x.com Pagador: ANA SOUZA Inquilino: BOB",
			policy: Policy{Position: Leading},
			want:   []string{"ANA SOUZA (123.456.789-00) ana@x.com"},
		},
		{
			name:   "two owners",
			text:   "Ana Proprietária\nBeto Proprietário",
			policy: Policy{Position: Trailing},
			want:   []string{"Ana", "Beto"},
		},
		{
			name:   "auto prefers leading",
			text:   "Proprietario: Ana\nInquilino: Bob",
			policy: Policy{Position: Auto},
			want:   []string{"Ana"},
		},
		{
			name:   "auto falls back to trailing",
			text:   "Ana 98 99999-0000 PROPRIETÁRIO",
			policy: Policy{Position: Auto},
			want:   []string{"Ana 98 99999-0000"},
		},
		{
			name:   "row tags whole segment",
			text:   " JOSE DA SILVA\n98 98888-7777\nPROPRIETÁRIO\n",
			policy: Policy{Position: Row},
			want:   []string{"JOSE DA SILVA\n98 98888-7777"},
		},
		{
			name:   "row without owner",
			text:   " JOSE DA SILVA\nINQUILINO\n",
			policy: Policy{Position: Row},
			want:   nil,
		},
		{
			name:   "owner only needs no marker",
			text:   " - Fulano de Tal 3232-1010",
			policy: Policy{OwnerOnly: true},
			want:   []string{"- Fulano de Tal 3232-1010"},
		},
		{
			name:   "span cut at terminator",
			text:   "Proprietário: ANA LIMA 98 99999-0000 Tipo Ordinária 350,00",
			policy: Policy{Position: Leading, End: regexp.MustCompile(`(?i)\bTipo\b`)},
			want:   []string{"ANA LIMA 98 99999-0000"},
		},
		{
			name:   "line-broken marker",
			text:   "Ana Souza\nProprietá\nrio",
			policy: Policy{Position: Trailing},
			want:   []string{"Ana Souza"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OwnerSpans(tc.text, tc.policy))
		})
	}
}

func TestOwnerSpans_PersonBlocks(t *testing.T) {
	text := "BL I 01 Local: Torre\n" +
		"Pessoa: JOAO PEREIRA\nTp. Pessoa: Proprietário\nCelular: 98 98888-7777\n" +
		"Pessoa: ANA LIMA\nTp. Pessoa: Inquilino\nCelular: 98 97777-6666\n"
	p := Policy{Position: PersonBlock, Person: regexp.MustCompile(`(?mi)^\s*Pessoa:\s*`)}

	spans := OwnerSpans(text, p)
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0], "JOAO PEREIRA")
	assert.Contains(t, spans[0], "98888-7777")
	assert.NotContains(t, spans[0], "ANA LIMA")

	tenant, ok := ScopeToRole(text, Tenant, p)
	require.True(t, ok)
	assert.Contains(t, tenant, "ANA LIMA")
}

func TestScopeToRole(t *testing.T) {
	text := "Proprietário: Ana\nInquilino: Bob\nDependente: Caio"

	owner, ok := ScopeToRole(text, Owner, Policy{Position: Leading})
	require.True(t, ok)
	assert.Equal(t, "Ana", owner)

	dep, ok := ScopeToRole(text, Dependent, Policy{Position: Leading})
	require.True(t, ok)
	assert.Equal(t, "Caio", dep)

	_, ok = ScopeToRole(text, Tenant, Policy{OwnerOnly: true})
	assert.False(t, ok)
}
