package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/aretw0/metafile/pkg/core"
)

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// required caches the JSON names a struct entry must carry (reflect.Type -> []string).
var required sync.Map

// checkRequired fails when raw, a JSON object, lacks a field that t needs.
// Fields tagged omitempty or omitzero, pointers and json.RawMessage are
// optional. Names match case-insensitively, as encoding/json does.
func checkRequired(t reflect.Type, raw string) error {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || selfCoding(t) {
		return nil
	}

	names := requiredFields(t)
	if len(names) == 0 {
		return nil
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &present); err != nil {
		return fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	if present == nil {
		return nil // null into a pointer
	}
	seen := make(map[string]bool, len(present))
	for k := range present {
		seen[strings.ToLower(k)] = true
	}

	for _, name := range names {
		if !seen[strings.ToLower(name)] {
			return fmt.Errorf("%w: missing field %q for %s", core.ErrDecode, name, t)
		}
	}
	return nil
}

func requiredFields(t reflect.Type) []string {
	if cached, ok := required.Load(t); ok {
		return cached.([]string)
	}
	names := collectRequired(t, nil)
	required.Store(t, names)
	return names
}

func collectRequired(t reflect.Type, names []string) []string {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			if f.Type.Kind() == reflect.Struct && !selfCoding(f.Type) {
				names = collectRequired(f.Type, names)
				continue
			}
			// Promoted fields of an embedded pointer may be absent entirely.
			if f.Type.Kind() == reflect.Pointer {
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if optional(f.Type, opts) {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}

func optional(t reflect.Type, opts string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" || o == "omitzero" {
			return true
		}
	}
	return t.Kind() == reflect.Pointer || t == rawMessageType
}
