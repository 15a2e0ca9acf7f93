package quota

import "errors"

var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("quota: invalid configuration")

	// ErrInvalidOperation indicates an empty operation name.
	ErrInvalidOperation = errors.New("quota: operation name is required")

	// ErrStoreUnavailable indicates that the store backend failed.
	ErrStoreUnavailable = errors.New("quota: store unavailable")
)
