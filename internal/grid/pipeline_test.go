package grid

import (
	"fmt"
	"slices"
	"testing"
)

// helper to build a row from alternating column/value pairs
func row(uid string, kv ...any) Row {
	fields := make(map[string]Scalar, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		v, err := ScalarOf(kv[i+1])
		if err != nil {
			panic(err)
		}
		fields[kv[i].(string)] = v
	}
	return NewRow(uid, ViewLonglist, fields)
}

func companies() []Row {
	return []Row{
		row("r0", "name", "Acme", "city", "Berlin", "revenue", 120, "active", true),
		row("r1", "name", "Borealis", "city", "Paris", "revenue", 80, "active", false),
		row("r2", "name", "Cobalt", "city", "Berlin", "revenue", 80, "active", true),
		row("r3", "name", "Dynamo", "city", " Munich ", "revenue", nil, "active", nil),
		row("r4", "name", "Elm", "city", "Paris", "revenue", 1000, "active", true),
		row("r5", "name", "Fjord", "city", nil, "revenue", 9, "active", false),
	}
}

func uidsAt(rows []Row, seq []int) []string {
	out := make([]string, len(seq))
	for i, ri := range seq {
		out[i] = rows[ri].UID
	}
	return out
}

func TestFilter_ValueSetMembership(t *testing.T) {
	rows := companies()
	p := NewPipeline(rows, nil, 0)

	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"single", []string{"Berlin"}, []string{"r0", "r2"}},
		{"two", []string{"Berlin", "Paris"}, []string{"r0", "r1", "r2", "r4"}},
		{"trimmed value matches", []string{"Munich"}, []string{"r3"}},
		{"empty matches null", []string{""}, []string{"r5"}},
		{"no match", []string{"Rome"}, []string{}},
		{"empty set excludes all", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filters{}.SetValues("city", tt.values)
			got := uidsAt(rows, p.Filter(f))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}

	t.Run("unset passes all", func(t *testing.T) {
		if got := p.Filter(Filters{}); len(got) != len(rows) {
			t.Fatalf("got %d rows want %d", len(got), len(rows))
		}
	})
}

// Every row in the result has its value in the set, and every row with a
// value in the set is in the result.
func TestFilter_ExactlyTheMembers(t *testing.T) {
	var rows []Row
	for i := range 300 {
		rows = append(rows, row(fmt.Sprintf("u%d", i), "bucket", i%7, "label", fmt.Sprintf("L%d", i%5)))
	}
	p := NewPipeline(rows, nil, 0)
	set := []string{"1", "4", "6"}
	in := map[string]bool{"1": true, "4": true, "6": true}

	seq := p.Filter(Filters{}.SetValues("bucket", set))
	got := make(map[int]bool, len(seq))
	for _, i := range seq {
		got[i] = true
	}
	for i, r := range rows {
		if got[i] != in[r.Value("bucket").Text()] {
			t.Fatalf("row %d (bucket %s): included=%v", i, r.Value("bucket").Text(), got[i])
		}
	}
}

func TestFilter_ComposeWithAnd(t *testing.T) {
	rows := companies()
	p := NewPipeline(rows, nil, 0)

	f := Filters{}.SetValues("city", []string{"Berlin", "Paris"}).SetValues("active", []string{"true"})
	if got := uidsAt(rows, p.Filter(f)); !slices.Equal(got, []string{"r0", "r2", "r4"}) {
		t.Fatalf("two column filters: got %v", got)
	}

	f = f.SetGlobal("CO")
	if got := uidsAt(rows, p.Filter(f)); !slices.Equal(got, []string{"r2"}) {
		t.Fatalf("column filters AND global: got %v", got)
	}
}

func TestGlobalFilter(t *testing.T) {
	rows := companies()
	p := NewPipeline(rows, nil, 0)

	tests := []struct {
		query string
		want  []string
	}{
		{"paris", []string{"r1", "r4"}},
		{"1000", []string{"r4"}},
		{"false", []string{"r1", "r5"}},
		{"  elm ", []string{"r4"}},
		// "Acme" and "Berlin" are separate cells
		{"acmeberlin", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := uidsAt(rows, p.Filter(Filters{}.SetGlobal(tt.query)))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestGlobalFilter_SearchColumns(t *testing.T) {
	rows := companies()
	p := NewPipeline(rows, []string{"name"}, 0)
	if got := p.Filter(Filters{}.SetGlobal("berlin")); len(got) != 0 {
		t.Fatalf("city should not be searched, got %v", uidsAt(rows, got))
	}
}

func TestUniqueValues_IgnoreActiveFilters(t *testing.T) {
	rows := companies()
	p := NewPipeline(rows, nil, 0)
	before := p.UniqueValues("city")

	seq := p.Filter(Filters{}.SetValues("city", []string{"Paris"}))
	if len(seq) != 2 {
		t.Fatalf("filter applied wrongly: %d rows", len(seq))
	}
	after := p.UniqueValues("city")
	if !slices.Equal(before, after) {
		t.Fatalf("choices changed: %v -> %v", before, after)
	}
	want := []string{"", "Berlin", "Munich", "Paris"}
	if !slices.Equal(after, want) {
		t.Fatalf("got %v want %v", after, want)
	}
}

func TestUniqueValues_Limit(t *testing.T) {
	var rows []Row
	for i := range 50 {
		rows = append(rows, row(fmt.Sprintf("u%d", i), "n", fmt.Sprintf("v%02d", i)))
	}
	if got := UniqueValues(rows, "n", 10); len(got) != 10 || got[0] != "v00" {
		t.Fatalf("got %v", got)
	}
}

func TestRun_FilterThenSort(t *testing.T) {
	rows := companies()
	p := NewPipeline(rows, nil, 0)
	f := Filters{}.SetValues("active", []string{"true"})
	s := Sorting{{ColumnID: "revenue", Direction: Descending}}
	if got := uidsAt(rows, p.Run(f, s)); !slices.Equal(got, []string{"r4", "r0", "r2"}) {
		t.Fatalf("got %v", got)
	}
}
