package cache

import "errors"

// ErrNetwork is joined into errors from backends that cannot be reached.
var ErrNetwork = errors.New("network error")
