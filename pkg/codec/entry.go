package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/aretw0/metafile/pkg/core"
)

// EncodeEntry serializes v to its raw JSON entry form.
//
// Only exported data fields of T are captured, following encoding/json field
// rules and `json` tags. T must pass CheckShape; cyclic values are rejected.
func EncodeEntry[T any](v T) (string, error) {
	if err := CheckShape[T](); err != nil {
		return "", err
	}

	raw, err := marshalCompact(v)
	if err != nil {
		var valueErr *json.UnsupportedValueError
		var typeErr *json.UnsupportedTypeError
		if errors.As(err, &valueErr) || errors.As(err, &typeErr) {
			return "", fmt.Errorf("%w: %v", core.ErrUnsupportedType, err)
		}
		return "", fmt.Errorf("failed to encode entry: %w", err)
	}
	return raw, nil
}

// DecodeEntry parses a raw JSON entry into a T.
//
// Decoding is strict: unknown fields, missing required fields, mismatched
// value types, trailing data and a null payload for a non-nillable T all fail
// with core.ErrDecode. On failure the zero T is returned, never a partially
// populated value.
func DecodeEntry[T any](raw string) (T, error) {
	var zero T
	if err := CheckShape[T](); err != nil {
		return zero, err
	}

	if strings.TrimSpace(raw) == "null" && !nillable(reflect.TypeFor[T]()) {
		return zero, fmt.Errorf("%w: null entry for %s", core.ErrDecode, reflect.TypeFor[T]())
	}

	var v T
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&v); err != nil {
		return zero, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return zero, fmt.Errorf("%w: trailing data after entry", core.ErrDecode)
	}
	if err := checkRequired(reflect.TypeFor[T](), raw); err != nil {
		return zero, err
	}

	return v, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return true
	}
	return false
}
