package grid

import (
	"slices"
	"testing"
)

func TestSelection_TriState(t *testing.T) {
	s := NewSelection()
	visible := []string{"a", "b", "c"}

	if got := s.State(visible); got != SelectNone {
		t.Fatalf("empty: %v", got)
	}
	s.Set("b", true)
	if got := s.State(visible); got != SelectSome {
		t.Fatalf("one: %v", got)
	}
	s.ToggleAll(visible)
	if got := s.State(visible); got != SelectAll || s.Count() != 3 {
		t.Fatalf("after ToggleAll: %v count=%d", got, s.Count())
	}
	s.ToggleAll(visible)
	if got := s.State(visible); got != SelectNone || s.Count() != 0 {
		t.Fatalf("after second ToggleAll: %v count=%d", got, s.Count())
	}
	if got := s.State(nil); got != SelectNone {
		t.Fatalf("no visible rows: %v", got)
	}
}

func TestSelection_PruneDropsStaleUIDs(t *testing.T) {
	s := NewSelection()
	for _, uid := range []string{"a", "b", "c", "d"} {
		s.Set(uid, true)
	}
	removed := s.Prune([]string{"b", "d", "x"})
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if s.Has("a") || s.Has("c") || !s.Has("b") || !s.Has("d") {
		t.Fatal("wrong uids kept")
	}
}

func TestSelection_OrderedFollowsSequence(t *testing.T) {
	s := NewSelection()
	s.Set("z", true)
	s.Set("a", true)
	s.Set("", true)
	if got := s.Ordered([]string{"q", "a", "z"}); !slices.Equal(got, []string{"a", "z"}) {
		t.Fatalf("got %v", got)
	}
	if s.Count() != 2 {
		t.Fatalf("empty uid was selected: count=%d", s.Count())
	}
}
