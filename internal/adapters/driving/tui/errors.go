package tui

import "errors"

// ErrMissingSession is returned when the session controller is not provided.
var ErrMissingSession = errors.New("tui: session controller is required")

// ErrMissingPresetCatalog is returned when the preset catalog is not provided.
var ErrMissingPresetCatalog = errors.New("tui: preset catalog is required")

// ErrMissingServiceCatalog is returned when the service catalog is not provided.
var ErrMissingServiceCatalog = errors.New("tui: service catalog is required")

// ErrMissingCart is returned when the cart service is not provided.
var ErrMissingCart = errors.New("tui: cart service is required")

// ErrInvalidPorts is returned when no ports were given at all.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
