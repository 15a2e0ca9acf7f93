// Package imagemeta is a metadata extractor for the queue. It reads a payload,
// sniffs its MIME type, decodes the image header and returns format,
// dimensions, size and a SHA-256 digest.
//
// JPEG, PNG and GIF are supported. Anything else fails with
// ErrUnsupportedFormat.
//
//	ex := imagemeta.New(imagemeta.WithTimeout(5 * time.Second))
//	mgr, err := queue.New(ex)
package imagemeta
