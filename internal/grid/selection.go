package grid

// SelectAllState is the tri-state of the header checkbox.
type SelectAllState int

const (
	SelectNone SelectAllState = iota
	SelectSome
	SelectAll
)

func (s SelectAllState) String() string {
	switch s {
	case SelectSome:
		return "some"
	case SelectAll:
		return "all"
	default:
		return "none"
	}
}

// Selection is a set of row uids. Keys are uids rather than positions
// because positions change meaning on every filter or sort.
type Selection struct {
	uids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{uids: make(map[string]struct{})}
}

// Has reports whether uid is selected.
func (s *Selection) Has(uid string) bool {
	_, ok := s.uids[uid]
	return ok
}

// Set selects or deselects uid.
func (s *Selection) Set(uid string, selected bool) {
	if uid == "" {
		return
	}
	if selected {
		s.uids[uid] = struct{}{}
	} else {
		delete(s.uids, uid)
	}
}

// Toggle flips uid and returns the new state.
func (s *Selection) Toggle(uid string) bool {
	sel := !s.Has(uid)
	s.Set(uid, sel)
	return sel
}

// Count returns the number of selected uids.
func (s *Selection) Count() int { return len(s.uids) }

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.uids)
}

// State computes the header tri-state relative to visible, the uids of the
// current filtered sequence.
func (s *Selection) State(visible []string) SelectAllState {
	if len(s.uids) == 0 || len(visible) == 0 {
		return SelectNone
	}
	n := 0
	for _, uid := range visible {
		if s.Has(uid) {
			n++
		}
	}
	switch {
	case n == 0:
		return SelectNone
	case n == len(visible):
		return SelectAll
	default:
		return SelectSome
	}
}

// ToggleAll selects every visible uid, or clears them all if they were
// already all selected.
func (s *Selection) ToggleAll(visible []string) {
	all := s.State(visible) == SelectAll
	for _, uid := range visible {
		s.Set(uid, !all)
	}
}

// Prune drops every uid not in visible and returns how many were removed.
func (s *Selection) Prune(visible []string) int {
	if len(s.uids) == 0 {
		return 0
	}
	keep := make(map[string]struct{}, len(visible))
	for _, uid := range visible {
		keep[uid] = struct{}{}
	}
	removed := 0
	for uid := range s.uids {
		if _, ok := keep[uid]; !ok {
			delete(s.uids, uid)
			removed++
		}
	}
	return removed
}

// Ordered returns the selected uids in the order they appear in seq, so
// requests are deterministic.
func (s *Selection) Ordered(seq []string) []string {
	out := make([]string, 0, len(s.uids))
	for _, uid := range seq {
		if s.Has(uid) {
			out = append(out, uid)
		}
	}
	return out
}
