package stravauploader

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means no access token was available when a sync was requested.
	ErrNotAuthenticated = errors.New("not authenticated with Strava")
	// ErrSyncInProgress is returned when a sync is requested while another is running.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// PersistenceError means an id-set file could not be written. The pass stops:
// continuing would upload records whose outcome cannot be remembered.
type PersistenceError struct {
	Path     string
	RecordID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist id %s to %s: %v", e.RecordID, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UploadFault records one failed upload. StatusCode is 0 for transport faults.
type UploadFault struct {
	RecordID   string `json:"recordId"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (f UploadFault) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("record %s: status %d: %s", f.RecordID, f.StatusCode, f.Message)
	}
	return fmt.Sprintf("record %s: %s", f.RecordID, f.Message)
}

func (f UploadFault) Unwrap() error {
	return f.Err
}
