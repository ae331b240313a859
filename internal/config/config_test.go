package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dealflow/dealgrid/internal/grid"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Grid.Overscan != 14 || cfg.Grid.DefaultWidth != 20 || cfg.Project.Default != "demo" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[grid]\noverscan = 3\nmin_width = 90\nmax_width = 10\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Grid.Overscan != 3 {
		t.Fatalf("overscan = %d, want 3", cfg.Grid.Overscan)
	}
	if cfg.Grid.RowHeight != 1 {
		t.Fatalf("row height = %d, want default 1", cfg.Grid.RowHeight)
	}
	if cfg.Grid.MaxWidth != 90 {
		t.Fatalf("max width = %d, want raised to min 90", cfg.Grid.MaxWidth)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Database.URL = "postgres://localhost/deals"
	cfg.Grid.SearchColumns = "name, city"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Database.URL != cfg.Database.URL || got.Grid.SearchColumns != "name, city" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestDatabaseURL_EnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URL = "postgres://file"
	t.Setenv(EnvDatabaseURL, "postgres://env")
	if got := cfg.DatabaseURL(); got != "postgres://env" {
		t.Fatalf("got %q", got)
	}
	t.Setenv(EnvDatabaseURL, "")
	if got := cfg.DatabaseURL(); got != "postgres://file" {
		t.Fatalf("got %q", got)
	}
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"grid.overscan", "30", false},
		{"grid.debounce", "150", false},
		{"db.url", "postgres://x", false},
		{"grid.overscan", "0", true},
		{"grid.overscan", "lots", true},
		{"grid.max_width", "5000", true},
		{"nope.key", "1", true},
	}
	for _, tt := range tests {
		err := cfg.SetValue(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Fatalf("SetValue(%s, %s) err = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	if v, _ := cfg.GetValue("grid.overscan"); v != "30" {
		t.Fatalf("overscan = %s", v)
	}
	if v, _ := cfg.GetValue("grid.search_debounce_ms"); v != "150" {
		t.Fatalf("debounce = %s", v)
	}
	if v, _ := cfg.GetValue("database.url"); v != "postgres://x" {
		t.Fatalf("url = %s", v)
	}
	if _, ok := cfg.GetValue("grid.nothing"); ok {
		t.Fatal("unknown key reported as found")
	}
}

func TestGridOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.RowHeight = 2
	cfg.Grid.SearchColumns = "name,,city"
	opts := cfg.GridOptions()
	if opts.RowHeight != 2 || opts.ViewportHeight != 40 {
		t.Fatalf("geometry: %+v", opts)
	}
	if len(opts.SearchColumns) != 2 || opts.SearchColumns[1] != "city" {
		t.Fatalf("search columns = %v", opts.SearchColumns)
	}
	if opts.Columns.MinWidth != 4 || opts.Columns.MaxWidth != 80 {
		t.Fatalf("column limits: %+v", opts.Columns)
	}
}

func TestHelpTextListsEveryKey(t *testing.T) {
	help := GenerateHelpText()
	for _, key := range ListKeys() {
		if !strings.Contains(help, key) {
			t.Fatalf("help text missing %s", key)
		}
	}
	if _, ok := FindField("grid.row_height"); !ok {
		t.Fatal("grid.row_height not found")
	}
}

func TestPrefs_PersistByColumnSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	columns := []string{"name", "city", "revenue"}

	p := NewPrefs(path)
	if _, ok := p.LoadColumnPrefs(columns); ok {
		t.Fatal("empty store returned prefs")
	}
	want := grid.ColumnPrefs{
		Order:  []string{"city", "name", "revenue"},
		Widths: map[string]int{"city": 33},
		Pinned: map[string]grid.Pin{"name": grid.PinLeft},
	}
	if err := p.SaveColumnPrefs(columns, want); err != nil {
		t.Fatalf("SaveColumnPrefs: %v", err)
	}

	// a fresh store reads the file; column order does not matter for the key
	got, ok := NewPrefs(path).LoadColumnPrefs([]string{"revenue", "name", "city"})
	if !ok {
		t.Fatal("prefs not persisted")
	}
	if len(got.Order) != 3 || got.Order[0] != "city" || got.Widths["city"] != 33 || got.Pinned["name"] != grid.PinLeft {
		t.Fatalf("got %+v", got)
	}

	if _, ok := NewPrefs(path).LoadColumnPrefs([]string{"name", "city"}); ok {
		t.Fatal("different column set shared prefs")
	}
}
