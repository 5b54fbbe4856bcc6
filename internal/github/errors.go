package github

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every failure reported by the Consumer.
	ErrNetwork = errors.New("network error")
	// ErrNoMatchingRelease is returned when the lookback depth is exhausted.
	ErrNoMatchingRelease = errors.New("no matching release found")
	// ErrAmbiguousAsset is returned when a release has more than one suitable asset.
	ErrAmbiguousAsset = errors.New("more than one suitable asset")
)

// NetworkError wraps any failure to obtain a release from GitHub:
// transport errors, HTTP errors, decoding errors, and search failures.
type NetworkError struct {
	Op   string
	Repo string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Repo, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes every NetworkError match ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
