package fields

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		span string
		opts Options
		want PartialRecord
	}{
		{
			name: "clauses with tax id",
			span: "João Silva (123.456.789-00) ; (98) 99999-8888 ; joao@x.com",
			want: PartialRecord{Name: "João Silva", Phones: []string{"(98) 99999-8888"}, Emails: []string{"joao@x.com"}},
		},
		{
			name: "multi-line owner block",
			span: "JOSE DA SILVA\n98 98888-7777 / 3232-1010\nJose@Mail.com.br\njose@mail.com.br",
			want: PartialRecord{
				Name:   "JOSE DA SILVA",
				Phones: []string{"98 98888-7777", "3232-1010"},
				Emails: []string{"jose@mail.com.br"},
			},
		},
		{
			name: "title case",
			span: "MARIA DAS DORES 982927360",
			opts: Options{TitleCase: true},
			want: PartialRecord{Name: "Maria Das Dores", Phones: []string{"982927360"}, Emails: []string{}},
		},
		{
			name: "e164",
			span: "Ana; (98) 99999-8888; +55 98 3232-1010; 982927360",
			opts: Options{PhoneStyle: PhoneE164},
			want: PartialRecord{Name: "Ana", Phones: []string{"+5598999998888", "+559832321010", "982927360"}, Emails: []string{}},
		},
		{
			name: "labeled person block",
			span: "JOAO PEREIRA\nTp. Pessoa:  \nCelular: 98 98888-7777\nEmail: JOAO@X.COM",
			want: PartialRecord{Name: "JOAO PEREIRA", Phones: []string{"98 98888-7777"}, Emails: []string{"joao@x.com"}},
		},
		{
			name: "no name",
			span: "(98) 99999-8888",
			want: PartialRecord{Phones: []string{"(98) 99999-8888"}, Emails: []string{}},
		},
		{
			name: "skipped header line",
			span: "CONTATOS DAS UNIDADES\nPEDRO",
			opts: Options{Skip: regexp.MustCompile(`CONTATOS DAS UNIDADES`)},
			want: PartialRecord{Name: "PEDRO", Phones: []string{}, Emails: []string{}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.span, tc.opts))
		})
	}
}

func TestPhones_TaxIDsAreNotPhones(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"bare cnpj next to name", "EMPRESA LTDA 12345678000199 (98) 3232-1010", []string{"(98) 3232-1010"}},
		{"formatted cnpj", "12.345.678/0001-99", []string{}},
		{"formatted cpf", "123.456.789-00 3232-1010", []string{"3232-1010"}},
		{"digits inside email", "ana98999998888@x.com", []string{}},
		{"postal code", "CEP 65075000", []string{}},
		{"too short", "1234-567", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Phones(tc.in, PhonePreserve))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(98) 99999-8888", "+5598999998888", true},
		{"98 3232-1010", "+559832321010", true},
		{"+55 (98) 99999-8888", "+5598999998888", true},
		{"559832321010", "+559832321010", true},
		{"99999-8888", "999998888", true},
		{"3232-1010", "32321010", true},
		{"8888-7777", "", false},
		{"12345678000199", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := NormalizePhone(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidEmail("a.b@c.com.br"))
	assert.False(t, ValidEmail("a.b@c"))
	assert.False(t, ValidEmail("x a@b.com"))
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		span string
		want string
	}{
		{"formatted cpf and email", "ANA SOUZA (123.456.789-00) ana@x.com", "ANA SOUZA"},
		{"trailing role marker", "- Fulano Proprietário", "Fulano"},
		{"name on a later line", "Proprietário\n\nBeto", "Beto"},
		{"gendered role marker", "Proprietário(a): MARIA SOUZA", "MARIA SOUZA"},
		{"labeled cpf only", "CPF: 123.456.789-00", ""},
		{"bare cnpj", "JOAO SILVA 12345678000199", "JOAO SILVA"},
		{"bare cpf", "ANA LIMA 12345678901", "ANA LIMA"},
		{"labeled unformatted cnpj", "JOAO SILVA CNPJ 12345678/0001-99", "JOAO SILVA"},
		{"unformatted cnpj without label", "CONDOMINIO XYZ 12345678/0001-99 (98) 3232-1010", "CONDOMINIO XYZ"},
		{"cpf with check dash", "PEDRO 123456789-00", "PEDRO"},
		{"labeled cpf/cnpj value", "MARIA CPF/CNPJ: 123.456.789-00", "MARIA"},
		{"tax id and phone only", "12345678000199 98 98888-7777", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Name(tc.span))
		})
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Dedupe([]string{" a", "b", "a ", "", "b"}))
	assert.Empty(t, Dedupe(nil))
}
