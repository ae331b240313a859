package config

import (
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// Prefs stores column layouts in prefs.toml, one table per column set
// fingerprint. It implements grid.PrefsStore.
type Prefs struct {
	path string

	mu      sync.Mutex
	layouts map[string]grid.ColumnPrefs
	loaded  bool
}

type prefsFile struct {
	Layouts map[string]grid.ColumnPrefs `toml:"layout"`
}

// NewPrefs returns a store backed by path. The file is read lazily.
func NewPrefs(path string) *Prefs {
	return &Prefs{path: path}
}

// DefaultPrefs returns the store at the standard location.
func DefaultPrefs() *Prefs {
	return NewPrefs(util.PrefsPath())
}

func (p *Prefs) load() {
	if p.loaded {
		return
	}
	p.loaded = true
	p.layouts = make(map[string]grid.ColumnPrefs)
	if _, err := os.Stat(p.path); err != nil {
		return
	}
	var f prefsFile
	// A damaged prefs file only costs the saved layouts.
	if _, err := toml.DecodeFile(p.path, &f); err == nil && f.Layouts != nil {
		p.layouts = f.Layouts
	}
}

// LoadColumnPrefs returns the saved layout for the column set.
func (p *Prefs) LoadColumnPrefs(columns []string) (grid.ColumnPrefs, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.load()
	cp, ok := p.layouts[util.Fingerprint(columns)]
	return cp, ok
}

// SaveColumnPrefs records the layout for the column set and rewrites the
// file.
func (p *Prefs) SaveColumnPrefs(columns []string, cp grid.ColumnPrefs) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.load()
	p.layouts[util.Fingerprint(columns)] = cp

	data, err := toml.Marshal(prefsFile{Layouts: p.layouts})
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(p.path, data)
}
