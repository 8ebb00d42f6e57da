package geosync

import (
	"errors"
	"fmt"
)

// ErrEmptyList marks a download that succeeded at the transport level but
// produced an empty body. Treated exactly like a transfer failure: the
// add-step is skipped for the cycle.
var ErrEmptyList = errors.New("range list body is empty")

// FetchError wraps a failed range list download so callers can tell "the
// download failed" apart from "the list produced zero new rules".
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
