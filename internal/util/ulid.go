package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// CustomViewPrefix marks ids of user-defined views.
const CustomViewPrefix = "custom_"

// NewULID generates a new ULID string.
// ULIDs are time-sortable, so rows created in one batch keep their order.
func NewULID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewULIDWithTime generates a ULID for a specific time.
// The seeder uses it to spread synthetic rows over a plausible history.
func NewULIDWithTime(t time.Time) string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// NewCustomViewID returns a fresh id for a user-defined view.
func NewCustomViewID() string {
	return CustomViewPrefix + strings.ToLower(NewULID())
}

// ParseULID parses a ULID string and returns its timestamp.
func ParseULID(s string) (time.Time, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}

// IDTime returns the creation time encoded in a row uid or custom view id.
func IDTime(id string) (time.Time, bool) {
	t, err := ParseULID(strings.ToUpper(strings.TrimPrefix(id, CustomViewPrefix)))
	return t, err == nil
}
