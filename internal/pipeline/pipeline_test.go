package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
	"github.com/joseph-ayodele/condo-contacts/internal/pdftext"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// profileOracle answers by instruction profile name.
type profileOracle struct {
	mu      sync.Mutex
	replies map[string]string
	calls   int
}

func (o *profileOracle) Ask(_ context.Context, req oracle.Request) (string, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	reply, ok := o.replies[req.Profile.Name]
	if !ok {
		return "", errors.New("unexpected profile " + req.Profile.Name)
	}
	return reply, nil
}

type stubText map[string]pdftext.Result

func (s stubText) Extract(_ context.Context, path string) (pdftext.Result, error) {
	if path == "scan.jpg" {
		return pdftext.Result{}, pdftext.ErrNotPDF
	}
	r, ok := s[path]
	if !ok {
		return pdftext.Result{}, errors.New("no such file")
	}
	return r, nil
}

var quiet = slog.New(slog.DiscardHandler)

const (
	contactsDoc = "CASA 003 João Silva (123.456.789-00) ; (98) 99999-8888 ; joao@x.com Proprietário\n" +
		"CASA-004 Maria ... Inquilino"
	delinquentDoc = "CASA 3 - JOAO 150,00\nCASA 07 - ANA"
)

func generic() Options {
	return Options{Dialect: "generic", Mode: ModeDeterministic, Formatting: unitkey.DefaultFormatting()}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeAuto, true},
		{"AUTO", ModeAuto, true},
		{"deterministic", ModeDeterministic, true},
		{"regex", ModeDeterministic, true},
		{" llm ", ModeOracle, true},
		{"magic", ModeAuto, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseMode(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})

	rep, err := p.Reconcile(context.Background(), contactsDoc, delinquentDoc, generic())
	require.NoError(t, err)

	assert.Equal(t, Layouts{Contatos: "GENERIC", Inadimplentes: "GENERIC"}, rep.Layouts)
	assert.Equal(t, Totals{ContatosExtraidos: 1, InadUnicos: 2, Match: 1}, rep.Totais)

	b, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"layouts": {"contatos": "GENERIC", "inadimplentes": "GENERIC"},
		"totais": {"contatos_extraidos": 1, "inad_unicos": 2, "match": 1},
		"data": [{"unidade": "CASA 3", "Nome": "João Silva", "Telefone": ["(98) 99999-8888"], "Email": ["joao@x.com"]}]
	}`, string(b))
}

func TestReconcile_FilterAndNoMatch(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})

	opts := generic()
	opts.Filter = unitkey.Filter{House: "4"}
	rep, err := p.Reconcile(context.Background(), contactsDoc, delinquentDoc, opts)
	require.NoError(t, err)
	assert.NotNil(t, rep.Data)
	assert.Empty(t, rep.Data)
	assert.Zero(t, rep.Totais.Match)
}

func TestReconcile_EmptyDocuments(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})

	rep, err := p.Reconcile(context.Background(), "  ", delinquentDoc, generic())
	require.NoError(t, err)
	assert.Zero(t, rep.Totais.ContatosExtraidos)
	assert.Empty(t, rep.Data)

	_, err = p.Reconcile(context.Background(), contactsDoc, "\f\n", generic())
	require.ErrorIs(t, err, common.ErrExtraction)
	assert.Equal(t, 422, common.HTTPStatus(err))
}

func TestContacts_AutoFallsBackToOracle(t *testing.T) {
	o := &profileOracle{replies: map[string]string{
		"contatos":      `[{"unidade":"casa 09","Nome":"Zé","Telefone":["98 98888-7777"]}]`,
		"inadimplentes": `{"data":[{"unidade":"CASA 9"}]}`,
	}}
	p := NewPipeline(o, nil, quiet, Config{ChunkChars: 100})
	opts := generic()
	opts.Mode = ModeAuto

	res, err := p.Contacts(context.Background(), "relatório sem unidades reconhecíveis", opts)
	require.NoError(t, err)
	assert.Equal(t, ModeOracle, res.Method)
	assert.Equal(t, []string{"CASA 9"}, res.Roster.Keys())

	// deterministic hits keep the oracle out
	o.calls = 0
	res, err = p.Contacts(context.Background(), contactsDoc, opts)
	require.NoError(t, err)
	assert.Equal(t, ModeDeterministic, res.Method)
	assert.Zero(t, o.calls)

	rep, err := p.Reconcile(context.Background(), "nada aqui", "nada aqui", opts)
	require.NoError(t, err)
	require.Len(t, rep.Data, 1)
	assert.Equal(t, "Zé", rep.Data[0].Nome)
}

func TestContacts_OracleModeWithoutOracle(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})
	opts := generic()
	opts.Mode = ModeOracle

	_, err := p.Contacts(context.Background(), contactsDoc, opts)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	// auto without an oracle stays deterministic
	opts.Mode = ModeAuto
	res, err := p.Contacts(context.Background(), "nothing", opts)
	require.NoError(t, err)
	assert.Zero(t, res.Roster.Len())
}

func TestContacts_OracleFailureKeepsPreview(t *testing.T) {
	o := &profileOracle{replies: map[string]string{"contatos": "Desculpe, não posso ajudar."}}
	p := NewPipeline(o, nil, quiet, Config{})
	opts := generic()
	opts.Mode = ModeOracle

	res, err := p.Contacts(context.Background(), contactsDoc, opts)
	require.ErrorIs(t, err, common.ErrOracle)
	require.ErrorIs(t, err, oracle.ErrNoChunkSucceeded)
	var pe *oracle.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Desculpe, não posso ajudar.", pe.Preview)
	assert.Len(t, res.Errors, 1)
}

func TestDelinquent(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})

	set, layout, err := p.Delinquent(context.Background(), delinquentDoc, generic())
	require.NoError(t, err)
	assert.Equal(t, "GENERIC", layout)
	assert.Equal(t, []string{"CASA 3", "CASA 7"}, set.Keys())

	_, _, err = p.Delinquent(context.Background(), delinquentDoc, Options{Dialect: "NOPE"})
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDialect_VendorRestriction(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})
	text := strings.Join([]string{"Unidade: BL I 01 Local: Torre A", "Pessoa: JOAO"}, "\n")

	d, err := p.Dialect(text, Options{})
	require.NoError(t, err)
	assert.Equal(t, "BRCONDOMINIOS", d.Name)

	d, err = p.Dialect("B01AP101", Options{})
	require.NoError(t, err)
	assert.Equal(t, "CONDOMOB", d.Name)
}

func TestReconcileFiles(t *testing.T) {
	text := stubText{
		"c.pdf": {Text: contactsDoc, Method: "text-layer"},
		"i.pdf": {Text: delinquentDoc, Method: "pdftotext"},
	}
	p := NewPipeline(nil, text, quiet, Config{})

	rep, err := p.ReconcileFiles(context.Background(), "c.pdf", "i.pdf", generic())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Totais.Match)

	_, err = p.ReconcileFiles(context.Background(), "c.pdf", "scan.jpg", generic())
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, err.Error(), "inadimplentes")

	_, err = p.ReconcileFiles(context.Background(), "missing.pdf", "i.pdf", generic())
	require.ErrorIs(t, err, common.ErrExtraction)
}

func TestContactList_TaxIDsStayOutOfNames(t *testing.T) {
	p := NewPipeline(nil, nil, quiet, Config{})
	doc := "CASA 005 JOAO SILVA 12345678000199 ; (98) 99999-8888 Proprietário\n" +
		"CASA 006 ANA LIMA CNPJ 12345678/0001-99 Proprietário"

	got, _, err := p.ContactList(context.Background(), doc, generic())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "JOAO SILVA", got[0].Nome)
	assert.Equal(t, []string{"(98) 99999-8888"}, got[0].Telefone)
	assert.Equal(t, "ANA LIMA", got[1].Nome)
}
