package grid

import (
	"bytes"
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortKey is one criterion of a multi-column sort.
type SortKey struct {
	ColumnID  string
	Direction Direction
}

// Sorting is an ordered list of criteria; earlier keys win.
type Sorting []SortKey

// Find returns the position and direction of col in the sort, if sorted.
func (s Sorting) Find(col string) (int, Direction, bool) {
	for i, k := range s {
		if k.ColumnID == col {
			return i, k.Direction, true
		}
	}
	return -1, Ascending, false
}

// Toggle advances col through unsorted → ascending → descending →
// unsorted. With multi, the other criteria are kept and a newly sorted
// column is appended; without it, col becomes the only criterion.
func (s Sorting) Toggle(col string, multi bool) Sorting {
	i, dir, found := s.Find(col)
	var next Sorting
	if multi {
		next = append(Sorting(nil), s...)
	} else if found {
		next = Sorting{s[i]}
		i = 0
	}
	switch {
	case !found:
		return append(next, SortKey{ColumnID: col, Direction: Ascending})
	case dir == Ascending:
		next[i].Direction = Descending
		return next
	default:
		return slices.Delete(next, i, i+1)
	}
}

// Without drops col from the sort.
func (s Sorting) Without(col string) Sorting {
	i, _, found := s.Find(col)
	if !found {
		return s
	}
	return slices.Delete(append(Sorting(nil), s...), i, i+1)
}

// sortCell is the precomputed comparison form of one cell.
type sortCell struct {
	rank int // 0 number, 1 bool, 2 text, 3 empty
	num  float64
	key  []byte
}

func newSortCell(v Scalar, c *collate.Collator, buf *collate.Buffer) sortCell {
	switch v.Kind() {
	case KindNumber:
		n, _ := v.Number()
		return sortCell{rank: 0, num: n}
	case KindBool:
		if v.Text() == "true" {
			return sortCell{rank: 1, num: 1}
		}
		return sortCell{rank: 1}
	case KindString:
		t := v.Text()
		if t == "" {
			return sortCell{rank: 3}
		}
		return sortCell{rank: 2, key: c.KeyFromString(buf, t)}
	default:
		return sortCell{rank: 3}
	}
}

// compareCells orders two cells ascending. Empty cells are not compared
// here; callers keep them last in both directions.
func compareCells(a, b sortCell) int {
	if a.rank != b.rank {
		return cmp.Compare(a.rank, b.rank)
	}
	if a.rank == 2 {
		return bytes.Compare(a.key, b.key)
	}
	return cmp.Compare(a.num, b.num)
}

func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// SortIndices stably orders seq (indices into rows) by sorting. Numbers
// compare numerically, text by collation, and empty cells sink to the end
// whatever the direction. Rows that tie on every key keep their order.
func SortIndices(rows []Row, seq []int, sorting Sorting) []int {
	out := append([]int(nil), seq...)
	if len(sorting) == 0 || len(out) < 2 {
		return out
	}
	coll := newCollator()
	var buf collate.Buffer

	// Keys are built once per criterion so the comparator only indexes
	// slices: O(N) key building, then O(N log N) compares.
	keys := make([][]sortCell, len(sorting))
	for k, sk := range sorting {
		col := make([]sortCell, len(out))
		for i, ri := range out {
			col[i] = newSortCell(rows[ri].Value(sk.ColumnID), coll, &buf)
		}
		keys[k] = col
	}

	perm := make([]int, len(out))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(pa, pb int) int {
		for k, sk := range sorting {
			ca, cb := keys[k][pa], keys[k][pb]
			aEmpty, bEmpty := ca.rank == 3, cb.rank == 3
			switch {
			case aEmpty && bEmpty:
				continue
			case aEmpty:
				return 1
			case bEmpty:
				return -1
			}
			c := compareCells(ca, cb)
			if sk.Direction == Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	sorted := make([]int, len(out))
	for i, p := range perm {
		sorted[i] = out[p]
	}
	return sorted
}

// sortText orders plain strings by collation, ties broken bytewise.
func sortText(values []string) {
	coll := newCollator()
	slices.SortStableFunc(values, func(a, b string) int {
		if c := coll.CompareString(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}
