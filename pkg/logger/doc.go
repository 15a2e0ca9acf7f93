// Package logger builds *slog.Logger instances for the queue and its
// collaborators.
//
// New creates a logger configured by Option functions: output format (text or
// json), minimum level, static attributes, and ContextExtractor callbacks that
// pull request-scoped values out of a context.Context on every record. The
// queue scheduler stores the id of the item being extracted in the context it
// hands to the extractor (WithItemID), and every logger built by New emits it
// as "item_id" automatically.
//
// # Usage
//
//	log := logger.New(logger.WithEnvironment("production", "metaqueue"))
//	logger.SetAsDefault(log)
//
//	ctx = logger.WithItemID(ctx, id)
//	log.InfoContext(ctx, "metadata extracted", logger.Duration(time.Since(start)))
//
// Attribute helpers (ItemID, Status, Component, Error, ...) keep key names
// consistent across packages. Error returns an empty attribute for a nil
// error, so it can be passed unconditionally.
package logger
