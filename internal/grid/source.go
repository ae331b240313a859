package grid

import "context"

// ViewKind distinguishes built-in partitions from user-defined ones.
type ViewKind string

const (
	ViewSystem ViewKind = "system"
	ViewCustom ViewKind = "custom"
)

// System view ids. Every row belongs to at most one of them, recorded in
// its list id.
const (
	ViewLonglist  = "longlist"
	ViewShortlist = "shortlist"
	ViewDiscarded = "discarded"
)

// SystemViews lists the built-in views in display order.
var SystemViews = []ViewInfo{
	{ID: ViewLonglist, Name: "Longlist", Icon: "list", Kind: ViewSystem},
	{ID: ViewShortlist, Name: "Shortlist", Icon: "star", Kind: ViewSystem},
	{ID: ViewDiscarded, Name: "Discarded", Icon: "trash", Kind: ViewSystem},
}

// IsSystemView reports whether id names a built-in view.
func IsSystemView(id string) bool {
	for _, v := range SystemViews {
		if v.ID == id {
			return true
		}
	}
	return false
}

// ViewInfo describes one view of a project.
type ViewInfo struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon,omitempty"`
	Kind           ViewKind `json:"kind"`
	VisibleColumns []string `json:"visible_columns,omitempty"`
	RowCount       int      `json:"row_count"`
}

// ViewData is one fetch of a view: its column set and a row snapshot.
type ViewData struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"data"`
}

// DataSource is everything the grid needs from the service that owns the
// rows. Implementations must be safe for concurrent use; the controller
// calls them from goroutines and applies results on its own loop.
type DataSource interface {
	GetViewData(ctx context.Context, projectID, viewID string) (ViewData, error)
	ListColumns(ctx context.Context, projectID string) ([]string, error)
	ListViews(ctx context.Context, projectID string) ([]ViewInfo, error)

	MoveRows(ctx context.Context, projectID, viewID string, uids []string, targetViewID string) error
	CopyRows(ctx context.Context, projectID, viewID string, uids []string, targetViewID string) error
	DeleteRows(ctx context.Context, projectID string, uids []string) error
	UpdateRow(ctx context.Context, projectID, uid string, updates map[string]Scalar) error

	CreateView(ctx context.Context, projectID, name, icon string, visibleColumns []string) (ViewInfo, error)
	DeleteView(ctx context.Context, projectID, viewID string) error
}
