package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". Returns an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ItemID records a queue item identifier under "item_id".
func ItemID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("item_id", id)
}

// Status records an item status under "status".
func Status(s any) slog.Attr {
	return slog.Any("status", s)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Operation records a quota operation name under "operation".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

func BatchSize(n int) slog.Attr {
	return slog.Int("batch_size", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}
