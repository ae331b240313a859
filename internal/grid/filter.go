package grid

import (
	"sort"
	"strings"
)

// Filters is the filter state of a grid: an optional value set per column
// plus a global text query. Like ColumnModel it is a value; setters return
// a modified copy.
//
// A column absent from the map is unrestricted. A column mapped to an empty
// set excludes every row.
type Filters struct {
	columns map[string]map[string]struct{}
	global  string
}

func (f Filters) clone() Filters {
	n := Filters{columns: make(map[string]map[string]struct{}, len(f.columns)), global: f.global}
	for k, v := range f.columns {
		n.columns[k] = v
	}
	return n
}

// SetValues restricts col to rows whose stringified value is one of values.
// A nil or empty values slice excludes every row; use ClearColumn to lift
// the restriction.
func (f Filters) SetValues(col string, values []string) Filters {
	n := f.clone()
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	n.columns[col] = set
	return n
}

// ClearColumn removes col's restriction.
func (f Filters) ClearColumn(col string) Filters {
	if _, ok := f.columns[col]; !ok {
		return f
	}
	n := f.clone()
	delete(n.columns, col)
	return n
}

// ClearAll drops every column restriction and the global query.
func (f Filters) ClearAll() Filters {
	return Filters{}
}

// SetGlobal sets the global text query. Surrounding whitespace is ignored.
func (f Filters) SetGlobal(q string) Filters {
	n := f.clone()
	n.global = strings.TrimSpace(q)
	return n
}

// Global returns the active global query.
func (f Filters) Global() string { return f.global }

// Values returns the permitted values for col, sorted, and whether col is
// restricted at all.
func (f Filters) Values(col string) ([]string, bool) {
	set, ok := f.columns[col]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, true
}

// Allows reports whether value passes col's restriction.
func (f Filters) Allows(col, value string) bool {
	set, ok := f.columns[col]
	if !ok {
		return true
	}
	_, in := set[value]
	return in
}

// FilteredColumns returns the restricted column ids, sorted.
func (f Filters) FilteredColumns() []string {
	out := make([]string, 0, len(f.columns))
	for k := range f.columns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Active reports whether any restriction or query is set.
func (f Filters) Active() bool {
	return len(f.columns) > 0 || f.global != ""
}

// MatchColumns reports whether row passes every column restriction.
func (f Filters) MatchColumns(row Row) bool {
	for col, set := range f.columns {
		if len(set) == 0 {
			return false
		}
		if _, ok := set[row.Value(col).Text()]; !ok {
			return false
		}
	}
	return true
}

// searchText builds the lower-cased haystack the global query is matched
// against. Fields are joined with a unit separator so a query cannot match
// across two cells.
func searchText(row Row, columns []string) string {
	var sb strings.Builder
	write := func(s Scalar) {
		if t := s.Text(); t != "" {
			sb.WriteString(strings.ToLower(t))
			sb.WriteByte('\x1f')
		}
	}
	if len(columns) > 0 {
		for _, c := range columns {
			write(row.Value(c))
		}
		return sb.String()
	}
	keys := make([]string, 0, len(row.Fields))
	for k := range row.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(row.Fields[k])
	}
	return sb.String()
}

// UniqueValues lists the distinct stringified values of col across rows,
// sorted, at most limit entries (limit <= 0 means no cap). Callers pass the
// full unfiltered snapshot so the choices never shrink as filters apply.
// The empty value is included when present so blanks can be filtered too.
func UniqueValues(rows []Row, col string, limit int) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Value(col).Text()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sortText(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
