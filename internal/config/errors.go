package config

import "errors"

// ErrInvalidValue indicates that a numeric variable could not be parsed or
// is out of range.
var ErrInvalidValue = errors.New("invalid configuration value")

// ErrInvalidLogFormat indicates that LOG_FORMAT is neither "text" nor "json".
var ErrInvalidLogFormat = errors.New("invalid LOG_FORMAT, want text or json")
