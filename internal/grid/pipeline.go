package grid

import "strings"

// Pipeline turns a row snapshot into the ordered sequence the grid shows:
// column filters AND the global query, then a stable sort. The sequence is
// a slice of indices into the snapshot, so the snapshot itself is never
// reordered or copied.
type Pipeline struct {
	rows          []Row
	searchColumns []string
	haystacks     []string
	uniques       map[string][]string
	uniqueLimit   int
}

// NewPipeline wraps a snapshot. searchColumns limits what the global query
// looks at; empty means every field.
func NewPipeline(rows []Row, searchColumns []string, uniqueLimit int) *Pipeline {
	return &Pipeline{
		rows:          rows,
		searchColumns: searchColumns,
		uniques:       make(map[string][]string),
		uniqueLimit:   uniqueLimit,
	}
}

// Rows returns the snapshot.
func (p *Pipeline) Rows() []Row { return p.rows }

// Len returns the snapshot size.
func (p *Pipeline) Len() int { return len(p.rows) }

// Row returns the snapshot row at i.
func (p *Pipeline) Row(i int) Row { return p.rows[i] }

func (p *Pipeline) haystack(i int) string {
	if p.haystacks == nil {
		p.haystacks = make([]string, len(p.rows))
		for j, r := range p.rows {
			p.haystacks[j] = searchText(r, p.searchColumns)
		}
	}
	return p.haystacks[i]
}

// Filter returns the snapshot indices that pass f, in snapshot order.
func (p *Pipeline) Filter(f Filters) []int {
	query := strings.ToLower(f.Global())
	seq := make([]int, 0, len(p.rows))
	for i, r := range p.rows {
		if !f.MatchColumns(r) {
			continue
		}
		if query != "" && !strings.Contains(p.haystack(i), query) {
			continue
		}
		seq = append(seq, i)
	}
	return seq
}

// Run filters then sorts.
func (p *Pipeline) Run(f Filters, s Sorting) []int {
	return SortIndices(p.rows, p.Filter(f), s)
}

// UniqueValues lists the filter choices for col over the whole snapshot,
// ignoring every active filter. Results are cached per snapshot.
func (p *Pipeline) UniqueValues(col string) []string {
	if v, ok := p.uniques[col]; ok {
		return v
	}
	v := UniqueValues(p.rows, col, p.uniqueLimit)
	p.uniques[col] = v
	return v
}
