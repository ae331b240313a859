package grid

import (
	"errors"
	"fmt"
)

var (
	ErrNoSelection          = errors.New("no rows selected")
	ErrMutationPending      = errors.New("another action is still running")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrSameView             = errors.New("target view is the active view")
	ErrNoTargetView         = errors.New("no target view given")
	ErrViewNotFound         = errors.New("view not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrRowNotFound          = errors.New("row not found")
	ErrSystemView           = errors.New("system views cannot be deleted")
	ErrReservedColumn       = errors.New("reserved column cannot be edited")
	ErrStaleResponse        = errors.New("response belongs to a superseded fetch")
)

// FetchError is a failed view load. The controller keeps the previous
// snapshot on screen when it sees one.
type FetchError struct {
	ProjectID string
	ViewID    string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load view %s/%s: %v", e.ProjectID, e.ViewID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationKind names a write against the data source.
type MutationKind string

const (
	MutationMove       MutationKind = "move"
	MutationCopy       MutationKind = "copy"
	MutationDelete     MutationKind = "delete"
	MutationUpdate     MutationKind = "update"
	MutationCreateView MutationKind = "create view"
	MutationDeleteView MutationKind = "delete view"
)

// MutationError is a failed write. Nothing was applied locally.
type MutationError struct {
	Kind  MutationKind
	Count int
	Err   error
}

func (e *MutationError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s %d row(s): %v", e.Kind, e.Count, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
