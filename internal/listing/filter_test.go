package listing

import (
	"reflect"
	"testing"
)

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	records := []item{
		{ID: "1", Name: "Alice Martin", Status: "PENDING", Category: "villa"},
		{ID: "2", Name: "Bob Stone", Status: "CONFIRMED", Category: "Apartment"},
		{ID: "3", Name: "Carla Alvarez", Status: "confirmed", Category: "villa"},
		{ID: "42", Name: "Dan", Status: "PAID", Category: ""},
	}

	tests := []struct {
		name string
		st   FilterState
		want []string
	}{
		{"no filters", FilterState{}, []string{"1", "2", "3", "42"}},
		{"query is case-insensitive", FilterState{Query: "ALICE"}, []string{"1"}},
		{"query matches id", FilterState{Query: "42"}, []string{"42"}},
		{"query substring", FilterState{Query: "al"}, []string{"1", "3"}},
		{"query trimmed", FilterState{Query: "  bob  "}, []string{"2"}},
		{"status normalized", FilterState{Selected: map[string]string{"status": "confirmed"}}, []string{"2", "3"}},
		{"status all sentinel", FilterState{Selected: map[string]string{"status": "ALL"}}, []string{"1", "2", "3", "42"}},
		{"empty selection", FilterState{Selected: map[string]string{"status": ""}}, []string{"1", "2", "3", "42"}},
		{"lower category", FilterState{Selected: map[string]string{"category": "APARTMENT"}}, []string{"2"}},
		{"lower sentinel", FilterState{Selected: map[string]string{"category": "all"}}, []string{"1", "2", "3", "42"}},
		{"AND of filters", FilterState{Query: "a", Selected: map[string]string{"status": "CONFIRMED", "category": "villa"}}, []string{"3"}},
		{"no match", FilterState{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(itemSchema.Apply(records, tt.st))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestApply_IsPure(t *testing.T) {
	records := makeItems(5)
	records[2].Status = "PAID"
	before := append([]item(nil), records...)
	st := FilterState{Query: "item", Selected: map[string]string{"status": "PENDING"}}

	first := itemSchema.Apply(records, st)
	second := itemSchema.Apply(records, st)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
	if !reflect.DeepEqual(records, before) {
		t.Error("expected input records to be unchanged")
	}
	if len(first) != 4 {
		t.Errorf("expected 4 matches, got %d", len(first))
	}
}

func TestApply_NilSearch(t *testing.T) {
	schema := Schema[item]{}
	got := schema.Apply(makeItems(3), FilterState{Query: "item"})
	if len(got) != 0 {
		t.Errorf("expected no matches without searchable fields, got %d", len(got))
	}
}

func TestSchemaCategory(t *testing.T) {
	if _, ok := itemSchema.Category("status"); !ok {
		t.Error("expected status category")
	}
	if _, ok := itemSchema.Category("priority"); ok {
		t.Error("expected no priority category")
	}
}
