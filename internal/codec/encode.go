package codec

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"
)

// ValueMarshaler is implemented by types that control their own canonical
// representation (for example lazily-set label fields).
type ValueMarshaler interface {
	MarshalValue() (Value, error)
}

var (
	valueMarshalerType = reflect.TypeOf((*ValueMarshaler)(nil)).Elem()
	timeType           = reflect.TypeOf(time.Time{})
	valueType          = reflect.TypeOf(Value{})
)

// Encode converts an arbitrary Go value into its canonical Value form.
// Structs become ordered maps in field-declaration order (embedded structs
// are flattened, json tags are honored); Go maps are emitted with sorted
// keys since they carry no insertion order of their own. Values with no
// structural mapping (functions, channels, NaN/Inf floats, non-string map
// keys) fail with ErrSerialization.
func Encode(v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	return encodeReflect(reflect.ValueOf(v))
}

func encodeReflect(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}

	if rv.Type() == valueType {
		return rv.Interface().(Value), nil
	}
	if rv.Type().Implements(valueMarshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Null(), nil
		}
		return rv.Interface().(ValueMarshaler).MarshalValue()
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(valueMarshalerType) {
		return rv.Addr().Interface().(ValueMarshaler).MarshalValue()
	}
	if rv.Type() == timeType {
		return String(rv.Interface().(time.Time).UTC().Format(time.RFC3339Nano)), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: uint value %d overflows int64", ErrSerialization, u)
		}
		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: non-finite float %v", ErrSerialization, f)
		}
		return Float(f), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return encodeReflect(rv.Elem())

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(base64.StdEncoding.EncodeToString(rv.Bytes())), nil
		}
		if rv.IsNil() {
			return Null(), nil
		}
		return encodeSequence(rv)

	case reflect.Array:
		return encodeSequence(rv)

	case reflect.Map:
		return encodeGoMap(rv)

	case reflect.Struct:
		m := NewMap()
		if err := encodeStructFields(rv, m); err != nil {
			return Value{}, err
		}
		return FromMap(m), nil

	default:
		return Value{}, fmt.Errorf("%w: unsupported type %s", ErrSerialization, rv.Type())
	}
}

func encodeSequence(rv reflect.Value) (Value, error) {
	items := make([]Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, err := encodeReflect(rv.Index(i))
		if err != nil {
			return Value{}, err
		}
		items[i] = item
	}
	return List(items...), nil
}

func encodeGoMap(rv reflect.Value) (Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return Value{}, fmt.Errorf("%w: map key type %s is not a string", ErrSerialization, rv.Type().Key())
	}
	if rv.IsNil() {
		return Null(), nil
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	m := NewMap()
	for _, k := range keys {
		v, err := encodeReflect(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
		if err != nil {
			return Value{}, fmt.Errorf("key %q: %w", k, err)
		}
		m.Set(k, v)
	}
	return FromMap(m), nil
}

func encodeStructFields(rv reflect.Value, m *Map) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		fv := rv.Field(i)

		// Embedded structs without an explicit tag flatten into the
		// parent map, mirroring encoding/json.
		if field.Anonymous && field.Tag.Get("json") == "" && embeddedStruct(fv) {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if err := encodeStructFields(ev, m); err != nil {
				return err
			}
			continue
		}

		v, err := encodeReflect(fv)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		m.Set(name, v)
	}
	return nil
}

func embeddedStruct(rv reflect.Value) bool {
	t := rv.Type()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t != timeType && !t.Implements(valueMarshalerType) && !reflect.PointerTo(t).Implements(valueMarshalerType)
}

// fieldName resolves the canonical map key for a struct field from its
// json tag, falling back to the Go field name.
func fieldName(f reflect.StructField) (name string, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if tag != "" {
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag, false
		}
	}
	return f.Name, false
}
