package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MarshalCanonical renders a Value as deterministic JSON bytes. Map keys
// are emitted in the Value's own order, floats always carry a fractional
// or exponent marker so the int/float distinction survives a round trip,
// and there is no insignificant whitespace. Equal Values always produce
// byte-identical output.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		b, _ := v.AsBool()
		buf.WriteString(strconv.FormatBool(b))
	case KindInt:
		i, _ := v.AsInt()
		buf.WriteString(strconv.FormatInt(i, 10))
	case KindFloat:
		f, _ := v.AsFloat()
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case KindString:
		s, _ := v.AsString()
		escaped, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		buf.Write(escaped)
	case KindList:
		items, _ := v.AsList()
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		m, _ := v.AsMap()
		buf.WriteByte('{')
		for i, k := range m.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			escaped, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrSerialization, err)
			}
			buf.Write(escaped)
			buf.WriteByte(':')
			item, _ := m.Get(k)
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: unknown value kind %d", ErrSerialization, v.Kind())
	}
	return nil
}

// UnmarshalCanonical parses JSON bytes into a Value, preserving object key
// order. It accepts any valid JSON document, not only canonical output, so
// hand-edited dataset files still load.
func UnmarshalCanonical(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return Value{}, err
	}
	// Reject trailing garbage after the first document.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("%w: trailing data after JSON document", ErrValidation)
	}
	return v, nil
}

func readValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return tokenValue(dec, tok)
}

func tokenValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			i, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return Int(i), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: invalid number %q", ErrValidation, s)
		}
		return Float(f), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				item, err := readValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return Value{}, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return List(items...), nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, fmt.Errorf("%w: %v", ErrValidation, err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("%w: object key is not a string", ErrValidation)
				}
				item, err := readValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return Value{}, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return FromMap(m), nil
		default:
			return Value{}, fmt.Errorf("%w: unexpected delimiter %q", ErrValidation, t)
		}
	default:
		return Value{}, fmt.Errorf("%w: unexpected token %v", ErrValidation, tok)
	}
}
