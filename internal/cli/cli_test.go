package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dealflow/dealgrid/internal/config"
	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/util"
)

// helper to load the longlist of a small in-memory project
func loadLonglist(t *testing.T) (*repo.Repository, *grid.Controller) {
	t.Helper()
	ctx := context.Background()
	m := db.NewMemory()
	if _, err := m.CreateProject(ctx, "p", ""); err != nil {
		t.Fatal(err)
	}
	rows := []grid.Row{
		grid.NewRow("u1", "", map[string]grid.Scalar{"name": grid.Str("Acme")}),
		grid.NewRow("u2", "", map[string]grid.Scalar{"name": grid.Str("Bolt")}),
		grid.NewRow("u3", grid.ViewShortlist, map[string]grid.Scalar{"name": grid.Str("Crane")}),
	}
	if err := m.InsertRows(ctx, "p", rows); err != nil {
		t.Fatal(err)
	}
	r := repo.New(config.DefaultConfig(), m)
	ctl, err := r.Load(ctx, "p", grid.ViewLonglist)
	if err != nil {
		t.Fatal(err)
	}
	return r, ctl
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"status=active", "score=7", "note="})
	if err != nil {
		t.Fatal(err)
	}
	if v := got["status"]; v.Text() != "active" {
		t.Fatalf("status = %v", v)
	}
	if n, ok := got["score"].Number(); !ok || n != 7 {
		t.Fatalf("score = %v", got["score"])
	}
	if !got["note"].IsNull() {
		t.Fatalf("empty value should clear the field, got %v", got["note"])
	}

	for _, bad := range []string{"status", "=x", " =x"} {
		if _, err := parseAssignments([]string{bad}); !errors.Is(err, util.ErrInvalidColumnArg) {
			t.Fatalf("parseAssignments(%q) err = %v", bad, err)
		}
	}
}

func TestViewArg(t *testing.T) {
	tests := []struct {
		args []string
		i    int
		want string
	}{
		{nil, 0, grid.ViewLonglist},
		{[]string{"shortlist"}, 0, "shortlist"},
		{[]string{"shortlist"}, 1, grid.ViewLonglist},
		{[]string{""}, 0, grid.ViewLonglist},
	}
	for _, tt := range tests {
		if got := viewArg(tt.args, tt.i); got != tt.want {
			t.Fatalf("viewArg(%v, %d) = %s, want %s", tt.args, tt.i, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Fatalf("formatBytes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSelectRows(t *testing.T) {
	_, ctl := loadLonglist(t)

	if err := selectRows(ctl, []string{"u1", "u1"}); err != nil {
		t.Fatal(err)
	}
	if ctl.SelectedCount() != 1 {
		t.Fatalf("selected = %d, want 1", ctl.SelectedCount())
	}

	// u3 sits in the shortlist
	err := selectRows(ctl, []string{"u2", "u3", "zz"})
	if !errors.Is(err, grid.ErrRowNotFound) {
		t.Fatalf("err = %v, want ErrRowNotFound", err)
	}
	var gerr *util.GridError
	if !errors.As(err, &gerr) || gerr.Context != "u3 zz" {
		t.Fatalf("missing uids not reported: %+v", gerr)
	}
}

func TestMoveThroughController(t *testing.T) {
	r, ctl := loadLonglist(t)
	ctx := context.Background()

	if err := selectRows(ctl, []string{"u1"}); err != nil {
		t.Fatal(err)
	}
	err := explainAction(ctl, grid.ViewLonglist, ctl.Move(ctx, r.Store, grid.ViewLonglist))
	if !errors.Is(err, grid.ErrSameView) {
		t.Fatalf("same view: err = %v", err)
	}
	err = explainAction(ctl, "nope", ctl.Move(ctx, r.Store, "nope"))
	if !errors.Is(err, grid.ErrViewNotFound) {
		t.Fatalf("unknown view: err = %v", err)
	}

	if err := ctl.Move(ctx, r.Store, grid.ViewShortlist); err != nil {
		t.Fatal(err)
	}
	if ctl.RowCount() != 1 || ctl.SelectedCount() != 0 {
		t.Fatalf("after move: rows=%d selected=%d", ctl.RowCount(), ctl.SelectedCount())
	}

	short, err := r.Load(ctx, "p", grid.ViewShortlist)
	if err != nil {
		t.Fatal(err)
	}
	if short.RowCount() != 2 {
		t.Fatalf("shortlist rows = %d, want 2", short.RowCount())
	}
}

func TestRootCommandTree(t *testing.T) {
	want := []string{"open", "views", "rows", "export", "diff", "project", "seed", "init", "config", "doctor", "version", "completion"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %s not registered (%v)", name, err)
		}
	}
	for _, flag := range []string{"db", "project", "verbose", "no-color"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Fatalf("missing global flag --%s", flag)
		}
	}
}
