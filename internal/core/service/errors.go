package service

import "github.com/pkg/errors"

var (
	ErrDuplicateID        = errors.New("product already exists")
	ErrNotFound           = errors.New("product not found")
	ErrEmpty              = errors.New("inventory is empty")
	ErrStorageIntegrity   = errors.New("storage integrity violation")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotInitialized     = errors.New("inventory not initialized")
)

// IsFatal reports whether err leaves the inventory unable to keep memory and
// storage in agreement. Every other failure is safe to report and move on.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
