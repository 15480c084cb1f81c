package services

import (
	"errors"
	"fmt"
)

// NetworkError indicates a request that never produced a response: the
// backend was unreachable, DNS failed, or the transport timed out.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError indicates a response with a non-success status code.
type BackendError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned status %d during %s: %s", e.StatusCode, e.Op, e.Body)
}

// IsNetworkError reports whether err is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsBackendError reports whether err is (or wraps) a BackendError
func IsBackendError(err error) bool {
	var beErr *BackendError
	return errors.As(err, &beErr)
}

// BackendStatus returns the upstream status code when err wraps a
// BackendError, and 0 otherwise.
func BackendStatus(err error) int {
	var beErr *BackendError
	if errors.As(err, &beErr) {
		return beErr.StatusCode
	}
	return 0
}
