package codec

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"
)

// ValueUnmarshaler is implemented by types that control their own decoding
// from the canonical Value form.
type ValueUnmarshaler interface {
	UnmarshalValue(Value) error
}

var valueUnmarshalerType = reflect.TypeOf((*ValueUnmarshaler)(nil)).Elem()

// Decode reconstructs a Go value from its canonical Value form, guided by
// the shape of target, which must be a non-nil pointer. Missing required
// struct fields and kind mismatches fail with ErrValidation.
func Decode(v Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: decode target must be a non-nil pointer", ErrValidation)
	}
	return decodeReflect(v, rv.Elem())
}

func decodeReflect(v Value, rv reflect.Value) error {
	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(ValueUnmarshaler); ok {
			return u.UnmarshalValue(v)
		}
	}
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if rv.Type() == timeType {
		s, ok := v.AsString()
		if !ok {
			return mismatch("time.Time", v)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("%w: invalid timestamp %q: %v", ErrValidation, s, err)
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if v.IsNull() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeReflect(v, rv.Elem())

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return fmt.Errorf("%w: cannot decode into non-empty interface %s", ErrValidation, rv.Type())
		}
		rv.Set(reflect.ValueOf(native(v)))
		return nil

	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return mismatch("bool", v)
		}
		rv.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.AsInt()
		if !ok {
			return mismatch("integer", v)
		}
		if rv.OverflowInt(i) {
			return fmt.Errorf("%w: value %d overflows %s", ErrValidation, i, rv.Type())
		}
		rv.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := v.AsInt()
		if !ok {
			return mismatch("integer", v)
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return fmt.Errorf("%w: value %d does not fit %s", ErrValidation, i, rv.Type())
		}
		rv.SetUint(uint64(i))
		return nil

	case reflect.Float32, reflect.Float64:
		if f, ok := v.AsFloat(); ok {
			rv.SetFloat(f)
			return nil
		}
		// Integral floats lose their fractional marker in the canonical
		// encoding, so integers decode into float targets.
		if i, ok := v.AsInt(); ok {
			rv.SetFloat(float64(i))
			return nil
		}
		return mismatch("float", v)

	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return mismatch("string", v)
		}
		rv.SetString(s)
		return nil

	case reflect.Slice:
		return decodeSlice(v, rv)

	case reflect.Array:
		items, ok := v.AsList()
		if !ok {
			return mismatch("list", v)
		}
		if len(items) != rv.Len() {
			return fmt.Errorf("%w: list length %d does not match array %s", ErrValidation, len(items), rv.Type())
		}
		for i, item := range items {
			if err := decodeReflect(item, rv.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil

	case reflect.Map:
		return decodeGoMap(v, rv)

	case reflect.Struct:
		return decodeStruct(v, rv)

	default:
		return fmt.Errorf("%w: unsupported target type %s", ErrValidation, rv.Type())
	}
}

func decodeSlice(v Value, rv reflect.Value) error {
	if v.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		s, ok := v.AsString()
		if !ok {
			return mismatch("base64 string", v)
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("%w: invalid base64: %v", ErrValidation, err)
		}
		rv.SetBytes(raw)
		return nil
	}
	items, ok := v.AsList()
	if !ok {
		return mismatch("list", v)
	}
	out := reflect.MakeSlice(rv.Type(), len(items), len(items))
	for i, item := range items {
		if err := decodeReflect(item, out.Index(i)); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	rv.Set(out)
	return nil
}

func decodeGoMap(v Value, rv reflect.Value) error {
	if v.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	m, ok := v.AsMap()
	if !ok {
		return mismatch("map", v)
	}
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("%w: map key type %s is not a string", ErrValidation, rv.Type().Key())
	}
	out := reflect.MakeMapWithSize(rv.Type(), m.Len())
	for _, k := range m.Keys() {
		item, _ := m.Get(k)
		ev := reflect.New(rv.Type().Elem()).Elem()
		if err := decodeReflect(item, ev); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), ev)
	}
	rv.Set(out)
	return nil
}

func decodeStruct(v Value, rv reflect.Value) error {
	m, ok := v.AsMap()
	if !ok {
		return mismatch("map", v)
	}
	return decodeStructFields(m, rv)
}

func decodeStructFields(m *Map, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		fv := rv.Field(i)

		if field.Anonymous && field.Tag.Get("json") == "" && embeddedStruct(fv) {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					ev.Set(reflect.New(ev.Type().Elem()))
				}
				ev = ev.Elem()
			}
			if err := decodeStructFields(m, ev); err != nil {
				return err
			}
			continue
		}

		item, present := m.Get(name)
		if !present {
			if fieldOptional(field.Type) {
				continue
			}
			return fmt.Errorf("%w: missing required field %q", ErrValidation, name)
		}
		if err := decodeReflect(item, fv); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// fieldOptional reports whether a struct field may be absent from the
// encoded map: pointers decode to nil and self-unmarshaling types (label
// fields) simply stay unset.
func fieldOptional(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Map {
		return true
	}
	return t.Implements(valueUnmarshalerType) || reflect.PointerTo(t).Implements(valueUnmarshalerType)
}

// native converts a Value into the corresponding untyped Go value, used
// when decoding into an any target.
func native(v Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindInt:
		i, _ := v.AsInt()
		return i
	case KindFloat:
		f, _ := v.AsFloat()
		return f
	case KindString:
		s, _ := v.AsString()
		return s
	case KindList:
		items, _ := v.AsList()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = native(item)
		}
		return out
	case KindMap:
		m, _ := v.AsMap()
		out := make(map[string]any, m.Len())
		for _, k := range m.Keys() {
			item, _ := m.Get(k)
			out[k] = native(item)
		}
		return out
	default:
		return nil
	}
}

func mismatch(want string, got Value) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrValidation, want, got.Kind())
}
