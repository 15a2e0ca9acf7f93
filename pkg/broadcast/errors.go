package broadcast

import "errors"

// ErrHubClosed is returned by Publish after the hub has been closed.
var ErrHubClosed = errors.New("broadcast: hub is closed")
