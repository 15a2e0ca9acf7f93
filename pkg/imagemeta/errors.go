package imagemeta

import "errors"

var (
	ErrUnsupportedFormat = errors.New("imagemeta: unsupported format")
	ErrTooLarge          = errors.New("imagemeta: payload exceeds size limit")
	ErrTimeout           = errors.New("imagemeta: extraction timed out")
	ErrRead              = errors.New("imagemeta: failed to read payload")
	ErrDecode            = errors.New("imagemeta: failed to decode image header")
)
