package db

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// Memory is a Store kept entirely in process. It backs the demo mode and
// the CLI tests.
type Memory struct {
	mu       sync.RWMutex
	projects map[string]*memProject
	order    []string
}

type memProject struct {
	Project
	rows    map[string]grid.Row
	seq     []string // insertion order of uids
	views   []grid.ViewInfo
	members map[string]map[string]bool // custom view id -> uids
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{projects: make(map[string]*memProject)}
}

// Close is a no-op.
func (m *Memory) Close() {}

func (m *Memory) project(id string) (*memProject, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", grid.ErrProjectNotFound, id)
	}
	return p, nil
}

// CreateProject adds an empty project.
func (m *Memory) CreateProject(_ context.Context, id, name string) (Project, error) {
	if err := validateProjectID(id); err != nil {
		return Project{}, err
	}
	if name == "" {
		name = id
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; ok {
		return Project{}, fmt.Errorf("%w: %s", util.ErrProjectExists, id)
	}
	p := &memProject{
		Project: Project{ID: id, Name: name, CreatedAt: time.Now()},
		rows:    make(map[string]grid.Row),
		members: make(map[string]map[string]bool),
	}
	m.projects[id] = p
	m.order = append(m.order, id)
	return p.Project, nil
}

// ListProjects returns projects in creation order.
func (m *Memory) ListProjects(context.Context) ([]Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Project, 0, len(m.order))
	for _, id := range m.order {
		p := m.projects[id]
		info := p.Project
		info.Columns = slices.Clone(p.Columns)
		info.RowCount = len(p.rows)
		out = append(out, info)
	}
	return out, nil
}

// InsertRows appends rows, defaulting the list to the longlist.
func (m *Memory) InsertRows(_ context.Context, projectID string, rows []grid.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.UID == "" {
			r.UID = util.NewULID()
		}
		if _, dup := p.rows[r.UID]; dup {
			return fmt.Errorf("duplicate row uid %s", r.UID)
		}
		if r.ListID == "" {
			r.ListID = grid.ViewLonglist
		}
		p.rows[r.UID] = grid.NewRow(r.UID, r.ListID, maps.Clone(r.Fields))
		p.seq = append(p.seq, r.UID)
	}
	p.Columns = mergeColumns(p.Columns, rows)
	return nil
}

// viewKind resolves viewID within p.
func (p *memProject) viewKind(viewID string) (grid.ViewKind, error) {
	if grid.IsSystemView(viewID) {
		return grid.ViewSystem, nil
	}
	if _, ok := p.members[viewID]; ok {
		return grid.ViewCustom, nil
	}
	return "", fmt.Errorf("%w: %s", grid.ErrViewNotFound, viewID)
}

func (p *memProject) inView(viewID string, kind grid.ViewKind, r grid.Row) bool {
	if kind == grid.ViewSystem {
		return r.ListID == viewID
	}
	return p.members[viewID][r.UID]
}

// GetViewData returns a copy of the view's rows in insertion order.
func (m *Memory) GetViewData(_ context.Context, projectID, viewID string) (grid.ViewData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.project(projectID)
	if err != nil {
		return grid.ViewData{}, err
	}
	kind, err := p.viewKind(viewID)
	if err != nil {
		return grid.ViewData{}, err
	}
	data := grid.ViewData{Columns: slices.Clone(p.Columns)}
	for _, uid := range p.seq {
		r := p.rows[uid]
		if p.inView(viewID, kind, r) {
			data.Rows = append(data.Rows, grid.NewRow(r.UID, r.ListID, maps.Clone(r.Fields)))
		}
	}
	return data, nil
}

// ListColumns returns the project's columns.
func (m *Memory) ListColumns(_ context.Context, projectID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.project(projectID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(p.Columns), nil
}

// ListViews returns system then custom views with row counts.
func (m *Memory) ListViews(_ context.Context, projectID string) ([]grid.ViewInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.project(projectID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range p.rows {
		if r.ListID != "" {
			counts[r.ListID]++
		}
	}
	out := make([]grid.ViewInfo, 0, len(grid.SystemViews)+len(p.views))
	for _, v := range grid.SystemViews {
		v.RowCount = counts[v.ID]
		out = append(out, v)
	}
	for _, v := range p.views {
		v.VisibleColumns = slices.Clone(v.VisibleColumns)
		v.RowCount = len(p.members[v.ID])
		out = append(out, v)
	}
	return out, nil
}

// transfer validates a move or copy and returns the source and target kinds.
func (p *memProject) transfer(viewID, targetViewID string, uids []string) (grid.ViewKind, grid.ViewKind, error) {
	src, err := p.viewKind(viewID)
	if err != nil {
		return "", "", err
	}
	dst, err := p.viewKind(targetViewID)
	if err != nil {
		return "", "", err
	}
	if viewID == targetViewID {
		return "", "", grid.ErrSameView
	}
	for _, uid := range uids {
		if _, ok := p.rows[uid]; !ok {
			return "", "", fmt.Errorf("%w: %s", grid.ErrRowNotFound, uid)
		}
	}
	return src, dst, nil
}

func (p *memProject) setList(uid, list string) {
	r := p.rows[uid]
	r.ListID = list
	p.rows[uid] = r
}

// MoveRows follows the same membership rules as the Postgres store.
func (m *Memory) MoveRows(_ context.Context, projectID, viewID string, uids []string, targetViewID string) error {
	uids = uniqueUIDs(uids)
	if len(uids) == 0 {
		return grid.ErrNoSelection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	src, dst, err := p.transfer(viewID, targetViewID, uids)
	if err != nil {
		return err
	}
	for _, uid := range uids {
		if dst == grid.ViewSystem {
			p.setList(uid, targetViewID)
		} else {
			p.members[targetViewID][uid] = true
		}
		switch {
		case src == grid.ViewCustom:
			delete(p.members[viewID], uid)
		case dst == grid.ViewCustom && p.rows[uid].ListID == viewID:
			p.setList(uid, "")
		}
	}
	return nil
}

// CopyRows adds rows to the target; rows already in another system list
// are duplicated under a fresh uid.
func (m *Memory) CopyRows(_ context.Context, projectID, viewID string, uids []string, targetViewID string) error {
	uids = uniqueUIDs(uids)
	if len(uids) == 0 {
		return grid.ErrNoSelection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	_, dst, err := p.transfer(viewID, targetViewID, uids)
	if err != nil {
		return err
	}
	for _, uid := range uids {
		r := p.rows[uid]
		switch {
		case dst == grid.ViewCustom:
			p.members[targetViewID][uid] = true
		case r.ListID == "":
			p.setList(uid, targetViewID)
		case r.ListID != targetViewID:
			dup := grid.NewRow(util.NewULID(), targetViewID, maps.Clone(r.Fields))
			p.rows[dup.UID] = dup
			p.seq = append(p.seq, dup.UID)
		}
	}
	return nil
}

// DeleteRows removes rows from the project and every view.
func (m *Memory) DeleteRows(_ context.Context, projectID string, uids []string) error {
	uids = uniqueUIDs(uids)
	if len(uids) == 0 {
		return grid.ErrNoSelection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	for _, uid := range uids {
		if _, ok := p.rows[uid]; !ok {
			return fmt.Errorf("%w: %s", grid.ErrRowNotFound, uid)
		}
	}
	gone := make(map[string]bool, len(uids))
	for _, uid := range uids {
		gone[uid] = true
		delete(p.rows, uid)
		for _, set := range p.members {
			delete(set, uid)
		}
	}
	p.seq = slices.DeleteFunc(p.seq, func(uid string) bool { return gone[uid] })
	return nil
}

// UpdateRow merges updates into a row.
func (m *Memory) UpdateRow(_ context.Context, projectID, uid string, updates map[string]grid.Scalar) error {
	if err := checkUpdates(updates); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	r, ok := p.rows[uid]
	if !ok {
		return fmt.Errorf("%w: %s", grid.ErrRowNotFound, uid)
	}
	fields := maps.Clone(r.Fields)
	maps.Copy(fields, updates)
	p.rows[uid] = grid.NewRow(uid, r.ListID, fields)
	p.Columns = mergeColumns(p.Columns, []grid.Row{{Fields: updates}})
	return nil
}

// CreateView adds an empty custom view.
func (m *Memory) CreateView(_ context.Context, projectID, name, icon string, visibleColumns []string) (grid.ViewInfo, error) {
	name, err := validateViewName(name)
	if err != nil {
		return grid.ViewInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return grid.ViewInfo{}, err
	}
	v := grid.ViewInfo{
		ID:             util.NewCustomViewID(),
		Name:           name,
		Icon:           icon,
		Kind:           grid.ViewCustom,
		VisibleColumns: slices.Clone(visibleColumns),
	}
	p.views = append(p.views, v)
	p.members[v.ID] = make(map[string]bool)
	return v, nil
}

// DeleteView removes a custom view; its rows stay in the project.
func (m *Memory) DeleteView(_ context.Context, projectID, viewID string) error {
	if grid.IsSystemView(viewID) {
		return fmt.Errorf("%w: %s", grid.ErrSystemView, viewID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	if _, ok := p.members[viewID]; !ok {
		return fmt.Errorf("%w: %s", grid.ErrViewNotFound, viewID)
	}
	delete(p.members, viewID)
	p.views = slices.DeleteFunc(p.views, func(v grid.ViewInfo) bool { return v.ID == viewID })
	return nil
}
