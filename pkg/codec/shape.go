package codec

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/aretw0/metafile/pkg/core"
)

var (
	marshalerType       = reflect.TypeFor[json.Marshaler]()
	unmarshalerType     = reflect.TypeFor[json.Unmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// shapes caches the CheckShape verdict per type (reflect.Type -> error).
var shapes sync.Map

// CheckShape reports whether T is plain data that can be stored as an entry.
//
// Functions, channels, complex numbers, unsafe pointers and interface values
// are rejected wherever they occur in T, unless the type encodes itself via
// json.Marshaler and json.Unmarshaler (json.RawMessage, time.Time, ...).
// The error wraps core.ErrUnsupportedType.
func CheckShape[T any]() error {
	t := reflect.TypeFor[T]()
	if cached, ok := shapes.Load(t); ok {
		err, _ := cached.(error)
		return err
	}

	err := checkType(t, t.String(), make(map[reflect.Type]bool))
	shapes.Store(t, err)
	return err
}

func checkType(t reflect.Type, path string, seen map[reflect.Type]bool) error {
	if selfCoding(t) {
		return nil
	}
	if seen[t] {
		return nil
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128,
		reflect.UnsafePointer, reflect.Interface:
		return fmt.Errorf("%w: %s is of kind %s", core.ErrUnsupportedType, path, t.Kind())

	case reflect.Pointer, reflect.Slice, reflect.Array:
		return checkType(t.Elem(), path+"[]", seen)

	case reflect.Map:
		if !validMapKey(t.Key()) {
			return fmt.Errorf("%w: %s has map key of type %s", core.ErrUnsupportedType, path, t.Key())
		}
		return checkType(t.Elem(), path+"[]", seen)

	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.Tag.Get("json") == "-" {
				continue
			}
			if !f.IsExported() && !embeddedStruct(f) {
				continue
			}
			if err := checkType(f.Type, path+"."+f.Name, seen); err != nil {
				return err
			}
		}
	}

	return nil
}

func selfCoding(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return (t.Implements(marshalerType) || pt.Implements(marshalerType)) &&
		pt.Implements(unmarshalerType)
}

func embeddedStruct(f reflect.StructField) bool {
	if !f.Anonymous {
		return false
	}
	t := f.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func validMapKey(k reflect.Type) bool {
	switch k.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return k.Implements(textMarshalerType) && reflect.PointerTo(k).Implements(textUnmarshalerType)
}
