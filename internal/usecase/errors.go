package usecase

import (
	"errors"

	"movie-explorer/internal/data/docstore"
)

// Kinds of domain errors; match with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrStore         = errors.New("store failure")
)

// ErrAlreadyInWatchlist is returned before any write when the user already has
// the movie in their watchlist.
var ErrAlreadyInWatchlist = &DomainError{Kind: ErrAlreadyExists, Reason: "Movie already in watchlist"}

// DomainError carries a reason that can be shown to the user as is.
type DomainError struct {
	Kind   error
	Reason string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *DomainError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func validationError(reason string) error {
	return &DomainError{Kind: ErrValidation, Reason: reason}
}

// storeError classifies a failed store call.
func storeError(reason string, err error) error {
	kind := ErrStore
	if errors.Is(err, docstore.ErrNotFound) {
		kind = ErrNotFound
	}
	return &DomainError{Kind: kind, Reason: reason, Err: err}
}
