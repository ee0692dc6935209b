package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/metafile/pkg/core"
)

// DecodeMap parses a user data field into its metadata map.
//
// An empty field decodes to an empty map. Anything else, whitespace included,
// must be exactly one JSON object whose values are all strings; otherwise the
// error wraps core.ErrMalformedStore.
func DecodeMap(field string) (core.Metadata, error) {
	if field == "" {
		return make(core.Metadata), nil
	}

	var m core.Metadata
	decoder := json.NewDecoder(strings.NewReader(field))
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedStore, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: user data is not a JSON object", core.ErrMalformedStore)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", core.ErrMalformedStore)
	}

	return m, nil
}

// EncodeMap serializes m to a compact JSON object with sorted keys.
// A nil map encodes as "{}".
func EncodeMap(m core.Metadata) (string, error) {
	if m == nil {
		m = core.Metadata{}
	}
	return marshalCompact(m)
}

// marshalCompact is json.Marshal without HTML escaping and without the
// trailing newline json.Encoder appends.
func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
