package oracle

import (
	"strconv"
	"strings"
)

// Profile is a named instruction set sent with each chunk.
type Profile struct {
	Name         string
	Instructions string
}

const outputRules = `
Return ONLY valid JSON, no markdown, exactly:
[
  { "unidade": "...", "Nome": "...", "Telefone": ["..."], "Email": ["..."] }
]
Never output null. Do not invent data and do not skip records.
Never treat CPF or CNPJ numbers as phones. Remove duplicate phones and e-mails.`

const unitRules = `
Units may appear in any of these notations; write "unidade" in the canonical form:
- block and apartment ("BLOCO 04 AP 102", "AP 102 BL 04", "4-102"): "AP 102 BL 4"
- apartment without block ("AP 103", "0103"): "AP 103"
- house: "CASA 10"; house and quadra: "CASA 10 QD 2"
- lot: "LT 12"; quadra and lot: "QD A LT 12"
Remove leading zeros.`

var profiles = map[string]Profile{
	"contatos": {
		Name: "contatos",
		Instructions: `Extract ONLY contacts of type "Proprietário" (owner) from the condominium contact report below.
Ignore Residente, Dependente, Inquilino, Procurador and any other role.` + unitRules + outputRules,
	},
	"condomob": {
		Name: "condomob",
		Instructions: `Extract ONLY the owner ("Proprietário:") of each unit from this Condomob report.
Units appear as "B01AP101", "Q02-LT08" or "BLOCO-APTO" such as "4-406".
Take the name from the line starting with "Proprietário:" and phones and e-mails only from the lines
before "Pagador:". Ignore the billing table and "Inquilino:" entirely.` + unitRules + outputRules,
	},
	"brcondominios": {
		Name: "brcondominios",
		Instructions: `Extract ONLY people whose "Tp. Pessoa" is "Proprietário" from this BRCondominios report.
Each unit starts with "Unidade:" and each person with "Pessoa:". Copy the unit text after "Unidade:"
(without the "Local:" part) into "unidade".` + outputRules,
	},
	"inadimplentes": {
		Name: "inadimplentes",
		Instructions: `This is a delinquency (cobrança) report. Extract ONLY the list of delinquent units.
Ignore amounts, installments, interest, fines and codes. Remove duplicates.` + unitRules + `
Return ONLY valid JSON, no markdown, exactly:
[
  { "unidade": "..." }
]`,
	},
}

// ProfileFor returns the profile registered under name, falling back to "contatos".
func ProfileFor(name string) Profile {
	if p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return profiles["contatos"]
}

// BuildUserPrompt frames a document chunk for the oracle.
func BuildUserPrompt(text string, index, total int) string {
	var b strings.Builder
	if total > 1 {
		b.WriteString("Document part ")
		b.WriteString(strconv.Itoa(index + 1))
		b.WriteString(" of ")
		b.WriteString(strconv.Itoa(total))
		b.WriteString(".\n")
	}
	b.WriteString("Document text:\n")
	b.WriteString(text)
	return b.String()
}
