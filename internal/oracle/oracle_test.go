package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/condo-contacts/internal/fields"
)

// fakeOracle answers by chunk index and records the requests it saw.
type fakeOracle struct {
	mu      sync.Mutex
	replies map[int]string
	fail    map[int]error
	seen    []Request
}

func (f *fakeOracle) Ask(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.seen = append(f.seen, req)
	f.mu.Unlock()
	if err := f.fail[req.Part]; err != nil {
		return "", err
	}
	return f.replies[req.Part], nil
}

var quiet = slog.New(slog.DiscardHandler)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []fields.PartialRecord
	}{
		{
			name: "fenced array",
			raw:  "```json\n[{\"unidade\":\"CASA 3\",\"Nome\":\"João\",\"Telefone\":[\"(98) 99999-8888\"],\"Email\":[\"Joao@X.com\"]}]\n```",
			want: []fields.PartialRecord{{RawUnit: "CASA 3", Name: "João", Phones: []string{"(98) 99999-8888"}, Emails: []string{"joao@x.com"}}},
		},
		{
			name: "object wrapper with prose around it",
			raw:  "Aqui está:\n{\"data\":[{\"unidade\":\"AP 1 BL 2\"}]}\nObrigado.",
			want: []fields.PartialRecord{{RawUnit: "AP 1 BL 2", Phones: []string{}, Emails: []string{}}},
		},
		{
			name: "single object",
			raw:  `{"unidade":"LT 5","Nome":"Ana"}`,
			want: []fields.PartialRecord{{RawUnit: "LT 5", Name: "Ana", Phones: []string{}, Emails: []string{}}},
		},
		{
			name: "lenient synonyms and structured unit",
			raw:  `[{"tipo":"ap_bloco","apto":"101","bloco":"02","nome":"Beto","telefones":"98 98888-7777; 12.345.678/0001-99","emails":null,"obs":"x"}]`,
			want: []fields.PartialRecord{{RawUnit: "AP 101 BL 02", Name: "Beto", Phones: []string{"98 98888-7777"}, Emails: []string{}}},
		},
		{
			name: "house type with bare number",
			raw:  `[{"tipo":"casa","unidade":"7","Nome":"Caio","Telefone":[98988887777]}]`,
			want: []fields.PartialRecord{{RawUnit: "CASA 7", Name: "Caio", Phones: []string{"98988887777"}, Emails: []string{}}},
		},
		{
			name: "invalid phones and emails dropped",
			raw:  `[{"unidade":"CASA 1","Telefone":["12345678000199","123"],"Email":["nope","a@b.com","A@B.com"]}]`,
			want: []fields.PartialRecord{{RawUnit: "CASA 1", Phones: []string{}, Emails: []string{"a@b.com"}}},
		},
		{
			name: "empty list",
			raw:  "[]",
			want: []fields.PartialRecord{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOutput(tc.raw, fields.Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseOutput_FieldRulesMatchLayout(t *testing.T) {
	raw := `[{"unidade":"B01AP101","Nome":"MARIA DAS DORES","Telefone":["98999998888","12345678","(98) 3232-1010 / 99999-8888"]}]`

	got, err := ParseOutput(raw, fields.Options{PhoneStyle: fields.PhoneE164, TitleCase: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Maria Das Dores", got[0].Name)
	assert.Equal(t, []string{"+5598999998888", "+559832321010", "999998888"}, got[0].Phones)

	got, err = ParseOutput(raw, fields.Options{})
	require.NoError(t, err)
	assert.Equal(t, "MARIA DAS DORES", got[0].Name)
	assert.Equal(t, []string{"98999998888", "(98) 3232-1010", "99999-8888"}, got[0].Phones)
}

func TestParseOutput_Failures(t *testing.T) {
	long := "not json " + strings.Repeat("é", 2000)
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "Desculpe, não consegui ler o documento."},
		{"truncated", `[{"unidade":"CASA 1"`},
		{"no usable record", `[{"foo":"bar"}]`},
		{"long garbage", long},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOutput(tc.raw, fields.Options{})
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.LessOrEqual(t, len(pe.Preview), PreviewBytes)
			assert.True(t, strings.HasPrefix(tc.raw, pe.Preview))
		})
	}
}

func TestSanitizeRecords(t *testing.T) {
	items := []any{
		map[string]any{"Nome": "Exato", "nome": "Sinônimo", "unidade": "CASA 2"},
		"not an object",
		map[string]any{"Nome": "Sem unidade"},
	}
	got, notes := SanitizeRecords(items)
	require.Len(t, got, 1)
	assert.Equal(t, "Exato", got[0].(map[string]any)["Nome"])
	assert.Contains(t, notes, "[1](not an object)")
	assert.Contains(t, notes, "[2](no unit)")
}

func TestSplitChunks(t *testing.T) {
	assert.Nil(t, SplitChunks("  \n ", 10))
	assert.Equal(t, []string{"abc"}, SplitChunks("abc", 0))

	pages := "page one\fpage two\fpage three"
	assert.Equal(t, []string{"page one\fpage two", "page three"}, SplitChunks(pages, 18))

	lines := "line 1\nline 2\nline 3"
	assert.Equal(t, []string{"line 1\nline 2", "line 3"}, SplitChunks(lines, 13))

	for _, c := range SplitChunks(strings.Repeat("ção ", 50), 7) {
		assert.LessOrEqual(t, len(c), 7)
	}
}

func TestSplitChunks_LimitBelowRuneWidth(t *testing.T) {
	done := make(chan []string, 1)
	go func() { done <- SplitChunks("ção ação\nmais", 1) }()

	select {
	case chunks := <-done:
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c), c)
		}
		assert.Equal(t, "çãoaçãomais", strings.Join(chunks, ""))
	case <-time.After(2 * time.Second):
		t.Fatal("SplitChunks did not return")
	}
}

func TestCollect_BestEffort(t *testing.T) {
	o := &fakeOracle{
		replies: map[int]string{
			0: `[{"unidade":"CASA 1","Nome":"Um"}]`,
			1: "sorry",
			2: `[{"unidade":"CASA 3","Nome":"Três"}]`,
		},
		fail: map[int]error{},
	}
	text := "p1\fp2\fp3"
	col, err := Collect(context.Background(), o, text, ProfileFor("contatos"), CollectOptions{ChunkChars: 2, Concurrency: 3, Logger: quiet})
	require.NoError(t, err)

	assert.Equal(t, 3, col.Chunks)
	require.Len(t, col.Records, 2)
	assert.Equal(t, "CASA 1", col.Records[0].RawUnit)
	assert.Equal(t, "CASA 3", col.Records[1].RawUnit)
	require.Len(t, col.Errors, 1)
	assert.Equal(t, 1, col.Errors[0].Index)
	assert.Equal(t, "sorry", col.Errors[0].Preview)

	b, err := json.Marshal(col.Errors[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"raw_preview":"sorry"`)

	for _, req := range o.seen {
		assert.Equal(t, "contatos", req.Profile.Name)
		assert.Equal(t, 3, req.Parts)
	}
}

func TestCollect_AllChunksFail(t *testing.T) {
	o := &fakeOracle{
		replies: map[int]string{1: "```json\n{broken"},
		fail:    map[int]error{0: errors.New("timeout")},
	}
	col, err := Collect(context.Background(), o, "a\fb", ProfileFor("x"), CollectOptions{ChunkChars: 1, Logger: quiet})
	require.ErrorIs(t, err, ErrNoChunkSucceeded)
	assert.Len(t, col.Errors, 2)
	assert.Empty(t, col.Records)
}

func TestCollect_EmptyText(t *testing.T) {
	col, err := Collect(context.Background(), &fakeOracle{}, "", ProfileFor("contatos"), CollectOptions{Logger: quiet})
	require.NoError(t, err)
	assert.Zero(t, col.Chunks)
	assert.Empty(t, col.Records)
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, "condomob", ProfileFor(" Condomob ").Name)
	assert.Equal(t, "contatos", ProfileFor("desconhecido").Name)
	assert.Contains(t, ProfileFor("inadimplentes").Instructions, "delinquent")
}

func TestRequestUserPrompt(t *testing.T) {
	assert.Equal(t, "Document text:\nabc", Request{Text: "abc", Parts: 1}.UserPrompt())
	assert.True(t, strings.HasPrefix(Request{Text: "abc", Part: 1, Parts: 3}.UserPrompt(), "Document part 2 of 3.\n"))
}
