package queue

import "errors"

var (
	// ErrCapacityExceeded is returned when an AddFiles call would exceed MaxItems.
	ErrCapacityExceeded = errors.New("queue capacity exceeded")

	// ErrQuotaExceeded is returned when the daily operation budget is spent.
	ErrQuotaExceeded = errors.New("daily quota exceeded")

	// ErrQuotaCheck wraps a failure of the quota collaborator.
	ErrQuotaCheck = errors.New("failed to check quota")

	// ErrInvalidState is returned when an operation does not apply to the
	// item's current status.
	ErrInvalidState = errors.New("invalid item state")

	// ErrItemNotFound is returned for an unknown item id.
	ErrItemNotFound = errors.New("item not found")

	// ErrExtractionFailed wraps the message of a failed extraction.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrExtractorNil is returned by New when no extractor is given.
	ErrExtractorNil = errors.New("extractor cannot be nil")

	// ErrPayloadNil is returned when a submitted payload is nil.
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrPreviewAcquire wraps a preview acquisition failure during AddFiles.
	ErrPreviewAcquire = errors.New("failed to acquire preview")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("queue is closed")

	// ErrInvalidConfig is returned for a non-positive capacity or concurrency.
	ErrInvalidConfig = errors.New("invalid queue configuration")
)
