package roster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/condo-contacts/internal/fields"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

func rec(unit, name string, phones, emails []string) fields.PartialRecord {
	return fields.PartialRecord{RawUnit: unit, Name: name, Phones: phones, Emails: emails}
}

func TestAggregate_MergesByCanonicalKey(t *testing.T) {
	r := Aggregate([]fields.PartialRecord{
		rec("CASA 003", "", []string{"3232-1010"}, nil),
		rec("TOTAL GERAL", "noise", nil, nil),
		rec("CASA 3", "João", []string{"(98) 99999-8888", "3232-1010"}, []string{"joao@x.com"}),
		rec("casa-03", "Outro", nil, []string{"joao@x.com", "j@y.com"}),
		rec("AP 101 BL 2", "Ana", nil, nil),
	}, unitkey.HintNone)

	require.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"CASA 3", "AP 101 BL 2"}, r.Keys())

	got, ok := r.Get("CASA 3")
	require.True(t, ok)
	assert.Equal(t, "João", got.Name)
	assert.Equal(t, []string{"3232-1010", "(98) 99999-8888"}, got.Phones)
	assert.Equal(t, []string{"joao@x.com", "j@y.com"}, got.Emails)

	_, ok = r.Get("CASA 4")
	assert.False(t, ok)
}

func TestAggregate_SetsAreOrderIndependent(t *testing.T) {
	a := rec("AP 1 BL 1", "A", []string{"1111-2222"}, []string{"a@x.com"})
	b := rec("1-1", "B", []string{"3333-4444"}, nil)
	c := rec("BL 01 AP 01", "", []string{"1111-2222", "5555-6666"}, []string{"c@x.com"})

	orders := [][]fields.PartialRecord{
		{a, b, c}, {c, b, a}, {b, c, a}, {c, a, b},
	}
	for _, order := range orders {
		r := Aggregate(order, unitkey.HintNone)
		require.Equal(t, 1, r.Len())
		got, _ := r.Get("AP 1 BL 1")
		assert.ElementsMatch(t, []string{"1111-2222", "3333-4444", "5555-6666"}, got.Phones)
		assert.ElementsMatch(t, []string{"a@x.com", "c@x.com"}, got.Emails)
	}

	// incremental accumulation gives the same sets as one pass
	r := Aggregate([]fields.PartialRecord{a, b}, unitkey.HintNone)
	r.Add(c)
	got, _ := r.Get("AP 1 BL 1")
	assert.ElementsMatch(t, []string{"1111-2222", "3333-4444", "5555-6666"}, got.Phones)
	assert.Equal(t, "A", got.Name)
}

func TestAggregate_HintReadsBareNumbers(t *testing.T) {
	r := Aggregate([]fields.PartialRecord{rec("07", "X", nil, nil)}, unitkey.HintHouse)
	assert.Equal(t, []string{"CASA 7"}, r.Keys())
}

func TestReconcile(t *testing.T) {
	r := Aggregate([]fields.PartialRecord{
		rec("AP 1 BL 1", "Um", nil, nil),
		rec("AP 2 BL 1", "Dois", nil, nil),
	}, unitkey.HintNone)

	got := Reconcile(r, NewDelinquentSet([]string{"AP 1 BL 1"}, unitkey.HintNone))
	require.Len(t, got, 1)
	assert.Equal(t, "AP 1 BL 1", got[0].Unit)
	assert.Equal(t, "Um", got[0].Name)
}

func TestReconcile_Aliases(t *testing.T) {
	tests := []struct {
		name       string
		contacts   []string
		delinquent []string
		want       []string
	}{
		{"different notations", []string{"AP 102 BL 04", "AP 103 BL 4"}, []string{"4-102"}, []string{"AP 102 BL 4"}},
		{"bare pair read either way", []string{"AP 3 BL 101"}, []string{"101 03"}, []string{"AP 3 BL 101"}},
		{"four digit code as block split", []string{"BL 01 AP 03"}, []string{"0103"}, []string{"AP 3 BL 1"}},
		{"leading zeros", []string{"CASA 003"}, []string{"CASA 3"}, []string{"CASA 3"}},
		{"roster order kept", []string{"CASA 2", "CASA 1"}, []string{"CASA 1", "CASA 2"}, []string{"CASA 2", "CASA 1"}},
		{"no intersection", []string{"CASA 2"}, []string{"CASA 9"}, []string{}},
		{"noise tokens ignored", []string{"CASA 2"}, []string{"TOTAL", ""}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var recs []fields.PartialRecord
			for _, u := range tc.contacts {
				recs = append(recs, rec(u, "n", nil, nil))
			}
			got := Reconcile(Aggregate(recs, unitkey.HintNone), NewDelinquentSet(tc.delinquent, unitkey.HintNone))
			units := []string{}
			for _, g := range got {
				units = append(units, g.Unit)
			}
			assert.Equal(t, tc.want, units)
		})
	}
}

func TestDelinquentSet(t *testing.T) {
	d := NewDelinquentSet([]string{"CASA 3", "CASA 003", "101 03", "nada"}, unitkey.HintNone)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"CASA 3", "AP 101 BL 3"}, d.Keys())
	assert.True(t, d.Intersects([]string{"AP 3 BL 101"}))
	assert.False(t, d.Intersects([]string{"CASA 4"}))
	assert.False(t, d.Add("---"))

	assert.Empty(t, Reconcile(nil, d))
}

func TestFilter(t *testing.T) {
	records := []OwnerRecord{{Unit: "AP 101 BL 2"}, {Unit: "AP 101 BL 3"}, {Unit: "CASA 4"}}

	assert.Len(t, Filter(records, unitkey.Filter{}), 3)
	assert.Equal(t, []OwnerRecord{{Unit: "AP 101 BL 3"}}, Filter(records, unitkey.Filter{Apartment: "0101", Block: "03"}))
	assert.Equal(t, []OwnerRecord{{Unit: "CASA 4"}}, Filter(records, unitkey.Filter{House: "004"}))
	assert.Empty(t, Filter(records, unitkey.Filter{Unit: "CASA 9"}))
}

func TestRender(t *testing.T) {
	records := []OwnerRecord{
		{Unit: "CASA 3", Name: "João Silva", Phones: []string{"(98) 99999-8888"}, Emails: []string{"joao@x.com"}},
		{Unit: "AP 5 BL 1", Name: "Ana"},
	}

	got := Render(records, unitkey.DefaultFormatting())
	require.Len(t, got, 2)
	assert.Equal(t, Contact{Unidade: "CASA 3", Nome: "João Silva", Telefone: []string{"(98) 99999-8888"}, Email: []string{"joao@x.com"}}, got[0])

	b, err := json.Marshal(got[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"unidade":"AP 5 BL 1","Nome":"Ana","Telefone":[],"Email":[]}`, string(b))

	opts := unitkey.DefaultFormatting()
	opts.ApartmentPrefix = "APTO"
	opts.PadApartment = 3
	assert.Equal(t, "APTO 005 BL 1", Render(records[1:], opts)[0].Unidade)
}

func TestEndToEnd_Houses(t *testing.T) {
	contacts := []fields.PartialRecord{
		fields.Extract("João Silva (123.456.789-00) ; (98) 99999-8888 ; joao@x.com", fields.Options{}),
	}
	contacts[0].RawUnit = "CASA 003"

	got := Render(
		Reconcile(Aggregate(contacts, unitkey.HintNone), NewDelinquentSet([]string{"CASA 3"}, unitkey.HintNone)),
		unitkey.DefaultFormatting(),
	)
	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"unidade":"CASA 3","Nome":"João Silva","Telefone":["(98) 99999-8888"],"Email":["joao@x.com"]}]`, string(b))
}
