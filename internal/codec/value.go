package codec

// Kind identifies which variant a Value holds.
type Kind int

// Possible Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the canonical intermediate form: one of null, bool, int, float,
// string, an ordered list of Values, or an ordered string-keyed map of
// Values. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    *Map
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a text Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns an ordered-sequence Value.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// FromMap returns a mapping Value backed by m.
func FromMap(m *Map) Value { return Value{kind: KindMap, m: m} }

// Kind reports which variant the Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean variant; ok is false for other kinds.
func (v Value) AsBool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer variant; ok is false for other kinds.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float variant; ok is false for other kinds.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the text variant; ok is false for other kinds.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the sequence variant; ok is false for other kinds.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the mapping variant; ok is false for other kinds.
func (v Value) AsMap() (*Map, bool) { return v.m, v.kind == KindMap }

// Equal reports deep equality of two Values, including map key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.m.Len() != o.m.Len() {
			return false
		}
		for i, k := range v.m.keys {
			if o.m.keys[i] != k {
				return false
			}
			if !v.m.vals[k].Equal(o.m.vals[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Map is a string-keyed mapping of Values that preserves insertion order.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set inserts or replaces the value for key k. A replaced key keeps its
// original position.
func (m *Map) Set(k string, v Value) {
	if _, exists := m.vals[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value for key k.
func (m *Map) Get(k string) (Value, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not modify it.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }
