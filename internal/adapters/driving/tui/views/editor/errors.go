package editor

import "errors"

// ErrNoSession indicates that no session controller was provided.
var ErrNoSession = errors.New("session controller is required")
