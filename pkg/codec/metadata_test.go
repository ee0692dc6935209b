package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/metafile/pkg/codec"
	"github.com/aretw0/metafile/pkg/core"
)

func TestDecodeMap_Empty(t *testing.T) {
	m, err := codec.DecodeMap("")
	require.NoError(t, err)
	assert.NotNil(t, m, "empty field must decode to a usable map")
	assert.Empty(t, m)
}

func TestDecodeMap_WhitespaceIsMalformed(t *testing.T) {
	for _, field := range []string{"   ", "\n\t", "   \n"} {
		m, err := codec.DecodeMap(field)
		assert.ErrorIs(t, err, core.ErrMalformedStore, "field %q", field)
		assert.Nil(t, m)
	}

	// Whitespace around an object is still one JSON object.
	m, err := codec.DecodeMap("  {\"a\":\"1\"}\n")
	require.NoError(t, err)
	assert.Equal(t, core.Metadata{"a": "1"}, m)
}

func TestDecodeMap_Object(t *testing.T) {
	m, err := codec.DecodeMap(`{"settings":"{\"volume\":0.8,\"loop\":true}","label":"\"hero\""}`)
	require.NoError(t, err)
	assert.Equal(t, core.Metadata{
		"settings": `{"volume":0.8,"loop":true}`,
		"label":    `"hero"`,
	}, m)
}

func TestDecodeMap_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"invalid json", `{"a":`},
		{"not json at all", `hello`},
		{"null", `null`},
		{"array", `["a","b"]`},
		{"string", `"{}"`},
		{"number value", `{"a":1}`},
		{"object value", `{"a":{"x":1}}`},
		{"trailing data", `{"a":"1"} {"b":"2"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := codec.DecodeMap(tc.field)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedStore)
			assert.Nil(t, m)
		})
	}
}

func TestEncodeMap(t *testing.T) {
	t.Run("Nil Map", func(t *testing.T) {
		s, err := codec.EncodeMap(nil)
		require.NoError(t, err)
		assert.Equal(t, "{}", s)
	})

	t.Run("Double Encoding", func(t *testing.T) {
		s, err := codec.EncodeMap(core.Metadata{"pos": `{"x":1,"y":2}`})
		require.NoError(t, err)
		assert.Equal(t, `{"pos":"{\"x\":1,\"y\":2}"}`, s)
	})

	t.Run("Sorted Keys And No HTML Escaping", func(t *testing.T) {
		s, err := codec.EncodeMap(core.Metadata{"b": `"<b>"`, "a": `"&"`})
		require.NoError(t, err)
		assert.Equal(t, `{"a":"\"&\"","b":"\"<b>\""}`, s)
	})
}

func TestMapRoundTrip(t *testing.T) {
	maps := []core.Metadata{
		{},
		{"k": `1`},
		{"settings": `{"volume":0.8,"loop":true}`, "tags": `["a","b"]`, "empty": ``},
		{"unicode ключ": `"värde"`, "quote\"key": `{"nested":"{\"deep\":true}"}`},
	}

	for _, m := range maps {
		s, err := codec.EncodeMap(m)
		require.NoError(t, err)

		back, err := codec.DecodeMap(s)
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}
