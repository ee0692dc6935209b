package core

import "errors"

// Common errors.
var (
	// ErrMalformedStore means the host field is not a JSON object of strings.
	ErrMalformedStore = errors.New("malformed metadata store")
	// ErrDecode means a stored entry does not match the requested type.
	ErrDecode = errors.New("entry does not match requested type")
	// ErrUnsupportedType means a value is not plain data and cannot be stored.
	ErrUnsupportedType = errors.New("unsupported entry type")
	// ErrEmptyKey is returned by keyed operations given an empty key.
	ErrEmptyKey = errors.New("metadata key cannot be empty")
	// ErrReadOnly is returned by hosts opened in read-only mode.
	ErrReadOnly = errors.New("host is in read-only mode")
	// ErrAssetNotFound is returned when a host has no record of an asset.
	ErrAssetNotFound = errors.New("asset not found")
)
