package export

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/condo-contacts/internal/pipeline"
	"github.com/joseph-ayodele/condo-contacts/internal/roster"
)

var contacts = []roster.Contact{
	{Unidade: "CASA 3", Nome: "João Silva", Telefone: []string{"(98) 99999-8888", "(98) 3232-1010"}, Email: []string{"joao@x.com"}},
	{Unidade: "AP 101 BL 2", Nome: "", Telefone: []string{}, Email: []string{}},
}

func open(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestContactsXLSX(t *testing.T) {
	s := NewService(slog.New(slog.DiscardHandler))

	b, err := s.ContactsXLSX(contacts, "Residencial Ipês")
	require.NoError(t, err)

	f := open(t, b)
	assert.Equal(t, []string{ContactsSheet}, f.GetSheetList())

	rows, err := f.GetRows(ContactsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Unidade", "Nome", "Telefones", "E-mails"}, rows[0])
	assert.Equal(t, []string{"CASA 3", "João Silva", "(98) 99999-8888, (98) 3232-1010", "joao@x.com"}, rows[1])
	assert.Equal(t, "AP 101 BL 2", rows[2][0])

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Residencial Ipês", props.Title)
}

func TestContactsXLSX_Empty(t *testing.T) {
	s := NewService(nil)
	b, err := s.ContactsXLSX(nil, "")
	require.NoError(t, err)

	rows, err := open(t, b).GetRows(ContactsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReportXLSX(t *testing.T) {
	s := NewService(slog.New(slog.DiscardHandler))
	rep := pipeline.Report{
		Layouts: pipeline.Layouts{Contatos: "CASA", Inadimplentes: "CASA"},
		Totais:  pipeline.Totals{ContatosExtraidos: 10, InadUnicos: 4, Match: 2},
		Data:    contacts,
	}

	b, err := s.ReportXLSX(rep, "x")
	require.NoError(t, err)

	f := open(t, b)
	assert.Equal(t, []string{ContactsSheet, SummarySheet}, f.GetSheetList())
	v, err := f.GetCellValue(SummarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	v, err = f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "CASA", v)
}
