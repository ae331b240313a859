package db

import (
	"context"
	"errors"
	"testing"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// helper to build a memory store with one project of n longlist rows
func newTestMemory(t *testing.T, n int) *Memory {
	t.Helper()
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.CreateProject(ctx, "p", "Project"); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	rows := make([]grid.Row, n)
	for i := range rows {
		rows[i] = grid.NewRow(string(rune('a'+i)), "", map[string]grid.Scalar{
			"name":  grid.Str(string(rune('A' + i))),
			"score": grid.Int(int64(i)),
		})
	}
	if err := m.InsertRows(ctx, "p", rows); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	return m
}

// helper to read row counts by view id
func counts(t *testing.T, s Store) map[string]int {
	t.Helper()
	views, err := s.ListViews(context.Background(), "p")
	if err != nil {
		t.Fatalf("ListViews: %v", err)
	}
	out := make(map[string]int)
	for _, v := range views {
		out[v.ID] = v.RowCount
	}
	return out
}

func TestMemory_InsertDefaultsToLonglist(t *testing.T) {
	m := newTestMemory(t, 5)
	c := counts(t, m)
	if c[grid.ViewLonglist] != 5 || c[grid.ViewShortlist] != 0 {
		t.Fatalf("counts = %v", c)
	}
	cols, _ := m.ListColumns(context.Background(), "p")
	if len(cols) != 2 || cols[0] != "name" || cols[1] != "score" {
		t.Fatalf("columns = %v", cols)
	}
}

func TestMemory_MoveBetweenSystemViews(t *testing.T) {
	m := newTestMemory(t, 6)
	ctx := context.Background()
	if err := m.MoveRows(ctx, "p", grid.ViewLonglist, []string{"b", "e"}, grid.ViewShortlist); err != nil {
		t.Fatalf("MoveRows: %v", err)
	}
	c := counts(t, m)
	if c[grid.ViewLonglist] != 4 || c[grid.ViewShortlist] != 2 {
		t.Fatalf("counts = %v", c)
	}
	data, _ := m.GetViewData(ctx, "p", grid.ViewShortlist)
	if len(data.Rows) != 2 || data.Rows[0].UID != "b" || data.Rows[1].UID != "e" {
		t.Fatalf("shortlist rows = %+v", data.Rows)
	}
}

func TestMemory_CustomViewMembership(t *testing.T) {
	m := newTestMemory(t, 4)
	ctx := context.Background()
	v, err := m.CreateView(ctx, "p", "  Hot  ", "fire", []string{"name"})
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	if v.Name != "Hot" || v.Kind != grid.ViewCustom || v.ID[:len(util.CustomViewPrefix)] != util.CustomViewPrefix {
		t.Fatalf("view = %+v", v)
	}

	// copy keeps the source
	if err := m.CopyRows(ctx, "p", grid.ViewLonglist, []string{"a", "b"}, v.ID); err != nil {
		t.Fatalf("CopyRows: %v", err)
	}
	c := counts(t, m)
	if c[grid.ViewLonglist] != 4 || c[v.ID] != 2 {
		t.Fatalf("after copy: %v", c)
	}

	// move from a system view takes the row out of the system lists
	if err := m.MoveRows(ctx, "p", grid.ViewLonglist, []string{"c"}, v.ID); err != nil {
		t.Fatalf("MoveRows: %v", err)
	}
	c = counts(t, m)
	if c[grid.ViewLonglist] != 3 || c[v.ID] != 3 {
		t.Fatalf("after move: %v", c)
	}

	// move out of a custom view into a system view
	if err := m.MoveRows(ctx, "p", v.ID, []string{"c"}, grid.ViewDiscarded); err != nil {
		t.Fatalf("MoveRows back: %v", err)
	}
	c = counts(t, m)
	if c[v.ID] != 2 || c[grid.ViewDiscarded] != 1 {
		t.Fatalf("after move back: %v", c)
	}

	if err := m.DeleteView(ctx, "p", v.ID); err != nil {
		t.Fatalf("DeleteView: %v", err)
	}
	if _, err := m.GetViewData(ctx, "p", v.ID); !errors.Is(err, grid.ErrViewNotFound) {
		t.Fatalf("deleted view still readable: %v", err)
	}
	if c := counts(t, m); c[grid.ViewLonglist] != 3 {
		t.Fatalf("rows lost with the view: %v", c)
	}
}

func TestMemory_CopyIntoSystemViewKeepsSource(t *testing.T) {
	m := newTestMemory(t, 3)
	ctx := context.Background()
	if err := m.CopyRows(ctx, "p", grid.ViewLonglist, []string{"a"}, grid.ViewShortlist); err != nil {
		t.Fatalf("CopyRows: %v", err)
	}
	c := counts(t, m)
	if c[grid.ViewLonglist] != 3 || c[grid.ViewShortlist] != 1 {
		t.Fatalf("counts = %v", c)
	}
	data, _ := m.GetViewData(ctx, "p", grid.ViewShortlist)
	if data.Rows[0].UID == "a" || data.Rows[0].Value("name").Text() != "A" {
		t.Fatalf("copy = %+v", data.Rows[0])
	}
}

func TestMemory_DeleteRemovesEverywhere(t *testing.T) {
	m := newTestMemory(t, 4)
	ctx := context.Background()
	v, _ := m.CreateView(ctx, "p", "v", "", nil)
	_ = m.CopyRows(ctx, "p", grid.ViewLonglist, []string{"a", "b"}, v.ID)

	if err := m.DeleteRows(ctx, "p", []string{"a"}); err != nil {
		t.Fatalf("DeleteRows: %v", err)
	}
	c := counts(t, m)
	if c[grid.ViewLonglist] != 3 || c[v.ID] != 1 {
		t.Fatalf("counts = %v", c)
	}
}

func TestMemory_FailuresApplyNothing(t *testing.T) {
	m := newTestMemory(t, 3)
	ctx := context.Background()
	before := counts(t, m)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"unknown row", func() error {
			return m.MoveRows(ctx, "p", grid.ViewLonglist, []string{"a", "zz"}, grid.ViewShortlist)
		}, grid.ErrRowNotFound},
		{"unknown target", func() error {
			return m.CopyRows(ctx, "p", grid.ViewLonglist, []string{"a"}, "custom_x")
		}, grid.ErrViewNotFound},
		{"same view", func() error {
			return m.MoveRows(ctx, "p", grid.ViewLonglist, []string{"a"}, grid.ViewLonglist)
		}, grid.ErrSameView},
		{"empty selection", func() error {
			return m.DeleteRows(ctx, "p", nil)
		}, grid.ErrNoSelection},
		{"system view delete", func() error {
			return m.DeleteView(ctx, "p", grid.ViewShortlist)
		}, grid.ErrSystemView},
		{"unknown project", func() error {
			_, err := m.ListViews(ctx, "nope")
			return err
		}, grid.ErrProjectNotFound},
		{"reserved column", func() error {
			return m.UpdateRow(ctx, "p", "a", map[string]grid.Scalar{grid.FieldListID: grid.Str("x")})
		}, grid.ErrReservedColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	after := counts(t, m)
	for id, n := range before {
		if after[id] != n {
			t.Fatalf("%s changed from %d to %d", id, n, after[id])
		}
	}
}

func TestMemory_UpdateRowAddsColumns(t *testing.T) {
	m := newTestMemory(t, 2)
	ctx := context.Background()
	err := m.UpdateRow(ctx, "p", "b", map[string]grid.Scalar{"score": grid.Int(99), "note": grid.Str("call back")})
	if err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	data, _ := m.GetViewData(ctx, "p", grid.ViewLonglist)
	if got := data.Rows[1].Value("score").Text(); got != "99" {
		t.Fatalf("score = %s", got)
	}
	if cols := data.Columns; len(cols) != 3 || cols[2] != "note" {
		t.Fatalf("columns = %v", cols)
	}
	if err := m.UpdateRow(ctx, "p", "zz", nil); !errors.Is(err, grid.ErrRowNotFound) {
		t.Fatalf("missing row: %v", err)
	}
}

func TestMemory_ProjectsAndSeed(t *testing.T) {
	ctx := context.Background()
	m, err := NewDemo(ctx)
	if err != nil {
		t.Fatalf("NewDemo: %v", err)
	}
	if _, err := m.CreateProject(ctx, DemoProject, ""); !errors.Is(err, util.ErrProjectExists) {
		t.Fatalf("duplicate project: %v", err)
	}
	if _, err := m.CreateProject(ctx, "Bad Id", ""); err == nil {
		t.Fatal("invalid id accepted")
	}
	projects, _ := m.ListProjects(ctx)
	if len(projects) != 1 || projects[0].RowCount != DemoRows {
		t.Fatalf("projects = %+v", projects)
	}

	views, _ := m.ListViews(ctx, DemoProject)
	total := 0
	for _, v := range views {
		total += v.RowCount
	}
	if total != DemoRows || views[1].RowCount == 0 || views[2].RowCount == 0 {
		t.Fatalf("seeded lists = %+v", views)
	}
}

func TestGenerateCompanies_Deterministic(t *testing.T) {
	a := GenerateCompanies(20, 7)
	b := GenerateCompanies(20, 7)
	for i := range a {
		if !a[i].Value("name").Equal(b[i].Value("name")) || !a[i].Value("revenue").Equal(b[i].Value("revenue")) {
			t.Fatalf("row %d differs", i)
		}
	}
	if a[0].UID == b[0].UID {
		t.Fatal("uids should be fresh")
	}
}

// The controller runs unchanged against the in-memory store.
func TestMemory_DrivesController(t *testing.T) {
	m := newTestMemory(t, 8)
	ctx := context.Background()
	c := grid.NewController("p", grid.ViewLonglist, grid.DefaultOptions())
	if err := c.Load(ctx, m); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.ToggleRowAt(2)
	c.ToggleRowAt(5)
	if err := c.Move(ctx, m, grid.ViewShortlist); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if c.SelectedCount() != 0 || c.RowCount() != 6 {
		t.Fatalf("selected=%d rows=%d", c.SelectedCount(), c.RowCount())
	}
	if n := counts(t, m)[grid.ViewShortlist]; n != 2 {
		t.Fatalf("shortlist = %d", n)
	}
}
