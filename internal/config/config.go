// Package config loads the dealgrid settings file and the saved column
// layouts.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// EnvDatabaseURL overrides database.url when set.
const EnvDatabaseURL = "DEALGRID_DATABASE_URL"

// Config represents the user's config.toml
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Grid     GridConfig     `toml:"grid"`
	Project  ProjectConfig  `toml:"project"`
}

// DatabaseConfig selects the data source
type DatabaseConfig struct {
	URL string `toml:"url" config:"database.url" desc:"PostgreSQL URL (empty = in-memory demo data)"`
}

// GridConfig contains the grid engine and rendering settings.
// Widths and heights are in terminal cells.
type GridConfig struct {
	RowHeight        int    `toml:"row_height" config:"grid.row_height" default:"1" min:"1" max:"10" desc:"Lines per row"`
	Overscan         int    `toml:"overscan" config:"grid.overscan" default:"14" min:"1" max:"500" desc:"Rows rendered beyond the viewport edges"`
	DefaultWidth     int    `toml:"default_width" config:"grid.default_width" default:"20" min:"4" max:"200" desc:"Initial column width"`
	MinWidth         int    `toml:"min_width" config:"grid.min_width" default:"4" min:"1" max:"200" desc:"Smallest column width"`
	MaxWidth         int    `toml:"max_width" config:"grid.max_width" default:"80" min:"4" max:"1000" desc:"Largest column width"`
	SearchDebounceMS int    `toml:"search_debounce_ms" config:"grid.search_debounce_ms" default:"300" min:"1" max:"5000" desc:"Delay before a typed search applies"`
	SearchColumns    string `toml:"search_columns" config:"grid.search_columns" desc:"Comma list of columns the search looks at (empty = all)"`
	UniqueLimit      int    `toml:"unique_limit" config:"grid.unique_limit" default:"500" min:"10" max:"100000" desc:"Max values listed in a filter"`
}

// ProjectConfig holds project defaults
type ProjectConfig struct {
	Default string `toml:"default" config:"project.default" default:"demo" desc:"Project opened when none is given"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			RowHeight:        1,
			Overscan:         14,
			DefaultWidth:     20,
			MinWidth:         4,
			MaxWidth:         80,
			SearchDebounceMS: 300,
			UniqueLimit:      500,
		},
		Project: ProjectConfig{Default: "demo"},
	}
}

// Load reads the config file, falling back to defaults if it doesn't exist
func Load() (*Config, error) {
	return LoadFrom(util.ConfigPath())
}

// LoadFrom reads a config file at path
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults for any missing values
	defaults := DefaultConfig()
	if cfg.Grid.RowHeight == 0 {
		cfg.Grid.RowHeight = defaults.Grid.RowHeight
	}
	if cfg.Grid.Overscan == 0 {
		cfg.Grid.Overscan = defaults.Grid.Overscan
	}
	if cfg.Grid.DefaultWidth == 0 {
		cfg.Grid.DefaultWidth = defaults.Grid.DefaultWidth
	}
	if cfg.Grid.MinWidth == 0 {
		cfg.Grid.MinWidth = defaults.Grid.MinWidth
	}
	if cfg.Grid.MaxWidth == 0 {
		cfg.Grid.MaxWidth = defaults.Grid.MaxWidth
	}
	if cfg.Grid.SearchDebounceMS == 0 {
		cfg.Grid.SearchDebounceMS = defaults.Grid.SearchDebounceMS
	}
	if cfg.Grid.UniqueLimit == 0 {
		cfg.Grid.UniqueLimit = defaults.Grid.UniqueLimit
	}
	if cfg.Project.Default == "" {
		cfg.Project.Default = defaults.Project.Default
	}
	if cfg.Grid.MaxWidth < cfg.Grid.MinWidth {
		cfg.Grid.MaxWidth = cfg.Grid.MinWidth
	}

	return cfg, nil
}

// Save writes the config file
func (c *Config) Save() error {
	return c.SaveTo(util.ConfigPath())
}

// SaveTo writes the config file to path
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, data)
}

// DatabaseURL returns the URL to connect to, honoring the environment.
func (c *Config) DatabaseURL() string {
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		return url
	}
	return c.Database.URL
}

// GridOptions converts the grid section into engine options.
func (c *Config) GridOptions() grid.Options {
	g := c.Grid
	return grid.Options{
		RowHeight:      g.RowHeight,
		Overscan:       g.Overscan,
		ViewportHeight: 20 * g.RowHeight,
		Columns: grid.ColumnDefaults{
			Width:          g.DefaultWidth,
			MinWidth:       g.MinWidth,
			MaxWidth:       g.MaxWidth,
			SelectionWidth: 3,
		},
		SearchColumns: util.SplitList(g.SearchColumns),
		UniqueLimit:   g.UniqueLimit,
	}
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
