package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/joseph-ayodele/condo-contacts/internal/fields"
)

var (
	fenceOpenRE  = regexp.MustCompile("(?i)^```[a-z]*\\s*")
	fenceCloseRE = regexp.MustCompile("\\s*```\\s*$")

	errNoJSON = errors.New("no JSON value found")
)

// wrapper keys of replies that put the records inside an object
var listKeys = []string{"data", "contatos", "items", "unidades", "inadimplentes", "records"}

// ParseOutput turns a raw oracle reply into partial records. The reply is validated
// strictly first; on failure a lenient sanitize pass runs and the result is validated
// again. Phones and e-mails go through the same field rules as deterministic extraction,
// styled by opts. Any failure is a *ParseError carrying a preview of raw.
func ParseOutput(raw string, opts fields.Options) ([]fields.PartialRecord, error) {
	items, err := decodeItems(raw)
	if err != nil {
		return nil, newParseError(raw, err)
	}

	if vErr := ValidateRecords(items); vErr != nil {
		cleaned, _ := SanitizeRecords(items)
		if len(cleaned) == 0 {
			return nil, newParseError(raw, fmt.Errorf("no usable record: %w", vErr))
		}
		if err := ValidateRecords(cleaned); err != nil {
			return nil, newParseError(raw, fmt.Errorf("schema validation failed: %w", vErr))
		}
		items = cleaned
	}

	var decoded []struct {
		Unidade  string   `json:"unidade"`
		Nome     string   `json:"Nome"`
		Telefone []string `json:"Telefone"`
		Email    []string `json:"Email"`
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, newParseError(raw, err)
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, newParseError(raw, err)
	}

	out := make([]fields.PartialRecord, 0, len(decoded))
	for _, d := range decoded {
		rec := fields.PartialRecord{
			RawUnit: strings.TrimSpace(d.Unidade),
			Name:    strings.TrimSpace(d.Nome),
			Phones:  []string{},
			Emails:  []string{},
		}
		for _, p := range fields.Dedupe(d.Telefone) {
			for _, phone := range fields.Phones(p, opts.PhoneStyle) {
				if !slices.Contains(rec.Phones, phone) {
					rec.Phones = append(rec.Phones, phone)
				}
			}
		}
		if opts.TitleCase && rec.Name != "" {
			rec.Name = fields.TitleCase(rec.Name)
		}
		for _, e := range fields.Dedupe(d.Email) {
			e = strings.ToLower(e)
			if fields.ValidEmail(e) && !slices.Contains(rec.Emails, e) {
				rec.Emails = append(rec.Emails, e)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeItems strips code fences, locates the JSON value and returns its record list.
func decodeItems(raw string) ([]any, error) {
	s := strings.TrimSpace(raw)
	s = fenceOpenRE.ReplaceAllString(s, "")
	s = fenceCloseRE.ReplaceAllString(s, "")

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return nil, errNoJSON
	}
	closer := "]"
	if s[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return nil, errNoJSON
	}

	var v any
	if err := json.Unmarshal([]byte(s[start:end+1]), &v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		for _, k := range listKeys {
			if list, ok := t[k].([]any); ok {
				return list, nil
			}
		}
		return []any{t}, nil
	}
	return nil, errNoJSON
}
