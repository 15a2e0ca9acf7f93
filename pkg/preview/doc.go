// Package preview manages the lifecycle of preview handles: short-lived
// references (object URLs, stored copies) created for a queued file and
// released when the file leaves the queue.
//
// The Manager enforces the lifecycle rule that every handle is acquired once
// per key and released exactly once. A second Acquire for a live key fails
// with ErrDoubleAcquire; a Release for a key that is unknown or already
// released fails with ErrDoubleRelease. Managers created with WithStrict panic
// on these violations instead, which is useful in tests.
//
// Creating and destroying the underlying resource is delegated to a Backend:
//
//   - MemoryBackend hands out opaque "preview://<uuid>" references and holds
//     nothing else;
//   - StorageBackend copies the source into a Storage (LocalStorage or
//     S3Storage) and hands out the stored object's URL.
//
// # Usage
//
//	mgr := preview.NewManager(preview.NewMemoryBackend())
//
//	h, err := mgr.Acquire(ctx, itemID, src)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(h.URL)
//
//	// later, exactly once
//	if err := mgr.Release(ctx, itemID); err != nil {
//	    log.Println(err)
//	}
//
// NewBackend builds a Backend from Config, so the driver can be picked with
// PREVIEW_DRIVER=memory|local|s3.
package preview
