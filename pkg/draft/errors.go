package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDraft is returned when nothing has been saved under the key.
	ErrNoDraft = errors.New("draft: no saved draft")
	// ErrQuotaExceeded is returned when an encoded draft is larger than the
	// configured quota.
	ErrQuotaExceeded = errors.New("draft: storage quota exceeded")
	// ErrMalformedDraft is returned when a stored payload cannot be decoded.
	ErrMalformedDraft = errors.New("draft: malformed draft")
)

// StorageError records the operation and key that failed.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("draft: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("draft: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
