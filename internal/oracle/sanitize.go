package oracle

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var synonyms = map[string]string{
	"unidade":      "unidade",
	"unit":         "unidade",
	"nome":         "Nome",
	"name":         "Nome",
	"proprietario": "Nome",
	"proprietário": "Nome",
	"telefone":     "Telefone",
	"telefones":    "Telefone",
	"phone":        "Telefone",
	"phones":       "Telefone",
	"celular":      "Telefone",
	"email":        "Email",
	"emails":       "Email",
	"e-mail":       "Email",
	"e-mails":      "Email",
	"tipo":         "tipo",
	"apto":         "apto",
	"apartamento":  "apto",
	"bloco":        "bloco",
	"casa":         "casa",
	"quadra":       "quadra",
	"lote":         "lote",
}

// SanitizeRecords is the lenient pass run when a reply fails strict validation:
// - renames known synonyms (nome -> Nome, telefones -> Telefone, emails -> Email)
// - builds "unidade" from tipo/apto/bloco/casa/quadra/lote parts
// - coerces scalars to lists and numbers to strings
// - drops nulls, unknown keys and items without a unit
// It returns the cleaned items and a list of what was dropped or rewritten.
func SanitizeRecords(items []any) ([]any, []string) {
	out := make([]any, 0, len(items))
	var notes []string
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			notes = append(notes, fmt.Sprintf("[%d](not an object)", i))
			continue
		}
		rec, recNotes := sanitizeRecord(m)
		for _, n := range recNotes {
			notes = append(notes, fmt.Sprintf("[%d]%s", i, n))
		}
		if rec == nil {
			notes = append(notes, fmt.Sprintf("[%d](no unit)", i))
			continue
		}
		out = append(out, rec)
	}
	return out, notes
}

func sanitizeRecord(in map[string]any) (map[string]any, []string) {
	var notes []string
	m := make(map[string]any, len(in))
	keys := slices.Sorted(maps.Keys(in))
	// exact names win over synonyms
	slices.SortStableFunc(keys, func(a, b string) int {
		return boolRank(synonyms[strings.ToLower(a)] == a) - boolRank(synonyms[strings.ToLower(b)] == b)
	})
	for _, k := range keys {
		v := in[k]
		to, ok := synonyms[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			notes = append(notes, k+"(unknown)")
			continue
		}
		if v == nil {
			notes = append(notes, k+"(null)")
			continue
		}
		if to != k {
			notes = append(notes, k+"->"+to)
		}
		if _, exists := m[to]; !exists {
			m[to] = v
		}
	}

	unit := scalar(m["unidade"])
	if built := composeUnit(m); built != "" && (unit == "" || isBare(unit)) {
		unit = built
		notes = append(notes, "unidade(composed)")
	}
	if unit == "" {
		return nil, notes
	}

	out := map[string]any{"unidade": unit}
	if name := scalar(m["Nome"]); name != "" {
		out["Nome"] = name
	}
	out["Telefone"] = list(m["Telefone"])
	out["Email"] = list(m["Email"])
	return out, notes
}

// composeUnit reads the structured {tipo, unidade, apto, bloco} item shape.
func composeUnit(m map[string]any) string {
	tipo := strings.ToLower(scalar(m["tipo"]))
	apto, bloco := scalar(m["apto"]), scalar(m["bloco"])
	casa, quadra, lote := scalar(m["casa"]), scalar(m["quadra"]), scalar(m["lote"])
	unit := scalar(m["unidade"])

	switch {
	case apto != "":
		if bloco != "" {
			return "AP " + apto + " BL " + bloco
		}
		return "AP " + apto
	case lote != "":
		if quadra != "" {
			return "QD " + quadra + " LT " + lote
		}
		return "LT " + lote
	case casa != "":
		if quadra != "" {
			return "CASA " + casa + " QD " + quadra
		}
		return "CASA " + casa
	case tipo == "casa" && unit != "":
		return "CASA " + unit
	case tipo == "lote" && unit != "":
		return "LT " + unit
	}
	return ""
}

func boolRank(b bool) int {
	if b {
		return 0
	}
	return 1
}

func isBare(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return ""
	}
	return ""
}

func list(v any) []any {
	out := []any{}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if s := scalar(e); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := scalar(t); s != "" {
			for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
		}
	}
	return out
}
