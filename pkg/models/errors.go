package models

import "errors"

var (
	// ErrNotFound is returned when a key, id or group has no stored event
	ErrNotFound = errors.New("not found")
	// ErrMalformedKey is returned for an empty id
	ErrMalformedKey = errors.New("malformed key")
)
