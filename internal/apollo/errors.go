package apollo

import "fmt"

const (
	SyncTargetPersistence = "persistence"
	SyncTargetDevice      = "device"
)

// SyncError reports a failed propagation after the in-memory rule set was already
// changed. The change is kept, Sync retries it.
type SyncError struct {
	Target   string
	DeviceID string
	Err      error
}

func (e *SyncError) Error() string {
	if e.DeviceID != "" {
		return fmt.Sprintf("%s sync failed for %s: %s", e.Target, e.DeviceID, e.Err)
	}
	return fmt.Sprintf("%s sync failed: %s", e.Target, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
