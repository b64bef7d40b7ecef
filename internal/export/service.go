package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/condo-contacts/internal/pipeline"
	"github.com/joseph-ayodele/condo-contacts/internal/roster"
)

const (
	ContactsSheet = "Inadimplentes"
	SummarySheet  = "Resumo"
)

var contactHeaders = []string{"Unidade", "Nome", "Telefones", "E-mails"}

// Service produces XLSX bytes for reconciliation results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ContactsXLSX returns a workbook with one row per contact.
func (s *Service) ContactsXLSX(contacts []roster.Contact, title string) ([]byte, error) {
	start := time.Now()
	f, err := newContactsFile(contacts, title)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := write(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"title", title,
		"rows", len(contacts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// ReportXLSX writes the contacts sheet plus a summary sheet with layouts and totals.
func (s *Service) ReportXLSX(rep pipeline.Report, title string) ([]byte, error) {
	start := time.Now()
	f, err := newContactsFile(rep.Data, title)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Layout contatos", rep.Layouts.Contatos},
		{"Layout inadimplentes", rep.Layouts.Inadimplentes},
		{"Contatos extraídos", rep.Totais.ContatosExtraidos},
		{"Unidades inadimplentes", rep.Totais.InadUnicos},
		{"Correspondências", rep.Totais.Match},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 26)
	_ = f.SetColWidth(SummarySheet, "B", "B", 22)

	b, err := write(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.report_xlsx.ok",
		"title", title,
		"rows", len(rep.Data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

func newContactsFile(contacts []roster.Contact, title string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), ContactsSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if title != "" {
		_ = f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "condo-contacts"})
	}

	for i, h := range contactHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(ContactsSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(ContactsSheet, "A1", "D1", style)
	}

	for i, c := range contacts {
		row := i + 2
		values := []string{c.Unidade, c.Nome, strings.Join(c.Telefone, ", "), strings.Join(c.Email, ", ")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(ContactsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(ContactsSheet, "A", "A", 18) // unit
	_ = f.SetColWidth(ContactsSheet, "B", "B", 36) // name
	_ = f.SetColWidth(ContactsSheet, "C", "C", 34) // phones
	_ = f.SetColWidth(ContactsSheet, "D", "D", 40) // e-mails
	return f, nil
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
