package preview

import "errors"

var (
	// Lifecycle violations.
	ErrDoubleAcquire = errors.New("preview: handle already acquired for key")
	ErrDoubleRelease = errors.New("preview: handle already released or never acquired")

	ErrNilSource     = errors.New("preview: source is nil")
	ErrEmptyKey      = errors.New("preview: key is required")
	ErrUnknownHandle = errors.New("preview: unknown handle")
	ErrInvalidConfig = errors.New("preview: invalid configuration")
	ErrUnknownDriver = errors.New("preview: unknown driver")

	// Storage errors.
	ErrInvalidPath             = errors.New("invalid path") // path escapes the storage root
	ErrFileNotFound            = errors.New("file not found")
	ErrIsDirectory             = errors.New("path is a directory")
	ErrFailedToOpenFile        = errors.New("failed to open file")
	ErrFailedToReadFile        = errors.New("failed to read file")
	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToCreateFile      = errors.New("failed to create file")
	ErrFailedToDeleteFile      = errors.New("failed to delete file")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToStatPath        = errors.New("failed to stat path")
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")

	// S3 error classification.
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
