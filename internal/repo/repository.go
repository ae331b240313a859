// Package repo ties the configured data source, the saved layouts and the
// grid engine together for the commands.
package repo

import (
	"context"
	"errors"

	"github.com/dealflow/dealgrid/internal/config"
	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// Repository is an open data source plus the settings to browse it.
type Repository struct {
	Config *config.Config
	Store  db.Store
	Prefs  grid.PrefsStore

	url string
	pg  *db.DB
}

// OpenOptions overrides the config file.
type OpenOptions struct {
	// DatabaseURL replaces database.url when URLSet is true. An empty URL
	// selects the in-memory demo data.
	DatabaseURL string
	URLSet      bool
}

// Open loads the config and connects to its data source. Without a
// database URL the demo project is generated in memory.
func Open(ctx context.Context, opts OpenOptions) (*Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, util.NewError("Cannot read config").
			WithContext(util.ConfigPath()).
			WithSuggestion("dealgrid config --list    # Show the effective settings").
			Wrap(err)
	}
	return OpenWith(ctx, cfg, opts)
}

// OpenWith is Open with an already loaded config.
func OpenWith(ctx context.Context, cfg *config.Config, opts OpenOptions) (*Repository, error) {
	url := cfg.DatabaseURL()
	if opts.URLSet {
		url = opts.DatabaseURL
	}
	r := &Repository{Config: cfg, Prefs: config.DefaultPrefs(), url: url}

	if url == "" {
		demo, err := db.NewDemo(ctx)
		if err != nil {
			return nil, err
		}
		r.Store = demo
		return r, nil
	}

	conn, err := ConnectDB(ctx, url)
	if err != nil {
		return nil, err
	}
	exists, err := conn.SchemaExists(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if !exists {
		conn.Close()
		return nil, util.SchemaMissingError(util.ErrSchemaMissing)
	}
	r.Store = conn
	r.pg = conn
	return r, nil
}

// ConnectDB connects to url without checking the schema (for init).
func ConnectDB(ctx context.Context, url string) (*db.DB, error) {
	if url == "" {
		return nil, util.NewError("No database configured").
			WithMessage("This command needs PostgreSQL; the demo data lives in memory only").
			WithSuggestions(
				"dealgrid config database.url postgres://user@host/db",
				"dealgrid --db postgres://user@host/db init",
			).
			Wrap(util.ErrNoDatabase)
	}
	conn, err := db.Connect(ctx, url)
	if err != nil {
		return nil, util.DatabaseConnectionError(url, err)
	}
	return conn, nil
}

// New wraps an existing store, for tests and embedding.
func New(cfg *config.Config, store db.Store) *Repository {
	return &Repository{Config: cfg, Store: store}
}

// IsMemory reports whether the data lives in memory only.
func (r *Repository) IsMemory() bool { return r.pg == nil }

// DB returns the Postgres connection, if that is the source.
func (r *Repository) DB() (*db.DB, bool) { return r.pg, r.pg != nil }

// URL is the redacted connection URL, or "memory".
func (r *Repository) URL() string {
	if r.url == "" {
		return "memory"
	}
	return util.RedactURL(r.url)
}

// Close releases the data source.
func (r *Repository) Close() {
	if r.Store != nil {
		r.Store.Close()
		r.Store = nil
	}
}

// ProjectID picks the project to work on: the argument if given, else the
// configured default.
func (r *Repository) ProjectID(arg string) string {
	if arg != "" {
		return arg
	}
	return r.Config.Project.Default
}

// Controller builds an engine for (projectID, viewID) with the configured
// options and saved layouts. It is not loaded yet.
func (r *Repository) Controller(projectID, viewID string) *grid.Controller {
	opts := r.Config.GridOptions()
	opts.Prefs = r.Prefs
	return grid.NewController(projectID, viewID, opts)
}

// Load builds a controller and fetches its view.
func (r *Repository) Load(ctx context.Context, projectID, viewID string) (*grid.Controller, error) {
	ctl := r.Controller(projectID, viewID)
	if err := ctl.Load(ctx, r.Store); err != nil {
		return nil, r.explain(projectID, viewID, err)
	}
	return ctl, nil
}

// explain turns engine sentinels into user-facing errors.
func (r *Repository) explain(projectID, viewID string, err error) error {
	switch {
	case errors.Is(err, grid.ErrProjectNotFound):
		return util.ProjectNotFoundError(projectID).Wrap(err)
	case errors.Is(err, grid.ErrViewNotFound):
		return util.ViewNotFoundError(projectID, viewID).Wrap(err)
	}
	return err
}
