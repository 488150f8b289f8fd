package dataset

import (
	"fmt"

	"github.com/danielreuter/reagency/internal/codec"
)

// Label is a row field that may be legitimately absent until bootstrapped,
// typically by a hook observing task output. It is a sum of unset | set(T):
// reading while unset fails with ErrUnset, writing always succeeds and is
// immediately visible. The zero Label is unset.
type Label[T any] struct {
	value T
	set   bool
}

// NewLabel returns a set label holding v.
func NewLabel[T any](v T) Label[T] {
	return Label[T]{value: v, set: true}
}

// Set assigns the label.
func (l *Label[T]) Set(v T) {
	l.value = v
	l.set = true
}

// Unset clears the label back to the unset state.
func (l *Label[T]) Unset() {
	var zero T
	l.value = zero
	l.set = false
}

// IsSet reports whether the label holds a value.
func (l Label[T]) IsSet() bool { return l.set }

// Get returns the value, or ErrUnset if the label was never assigned.
func (l Label[T]) Get() (T, error) {
	if !l.set {
		var zero T
		return zero, ErrUnset
	}
	return l.value, nil
}

// MustGet returns the value and panics on an unset label. Use it only
// where an unset label is a programming error.
func (l Label[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("dataset: %v", err))
	}
	return v
}

// Or returns the value, or def if the label is unset.
func (l Label[T]) Or(def T) T {
	if !l.set {
		return def
	}
	return l.value
}

// MarshalValue encodes a set label as its inner value and an unset label
// as null.
func (l Label[T]) MarshalValue() (codec.Value, error) {
	if !l.set {
		return codec.Null(), nil
	}
	return codec.Encode(l.value)
}

// UnmarshalValue decodes null (or an absent field) to unset and anything
// else into the inner type.
func (l *Label[T]) UnmarshalValue(v codec.Value) error {
	if v.IsNull() {
		l.Unset()
		return nil
	}
	var inner T
	if err := codec.Decode(v, &inner); err != nil {
		return err
	}
	l.Set(inner)
	return nil
}
