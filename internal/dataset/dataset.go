package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/danielreuter/reagency/internal/codec"
	"github.com/danielreuter/reagency/internal/platform/atomicfile"
)

// Shared validator instance for row schema checks.
var validate = validator.New()

// Dataset is an ordered collection of rows with a name and a backing file.
// Row ids are unique within a dataset and an id index is maintained
// alongside the sequence, so access by position and by id are both O(1).
type Dataset[R Identifiable] struct {
	name    string
	path    string
	rows    []R
	index   map[string]int
	subsets map[string]func(R) bool
}

// Option configures a Dataset at construction time.
type Option[R Identifiable] func(*Dataset[R])

// WithDir places the backing file at dir/<name>.json.
func WithDir[R Identifiable](dir string) Option[R] {
	return func(d *Dataset[R]) {
		d.path = filepath.Join(dir, d.name+".json")
	}
}

// WithPath sets the backing file path explicitly.
func WithPath[R Identifiable](path string) Option[R] {
	return func(d *Dataset[R]) {
		d.path = path
	}
}

// WithSubset declares a named, reusable filter over rows. Subsets are pure
// predicates producing live views, never copies.
func WithSubset[R Identifiable](name string, pred func(R) bool) Option[R] {
	return func(d *Dataset[R]) {
		d.subsets[name] = pred
	}
}

// New constructs a dataset. If the backing file exists its full row
// sequence is loaded; otherwise the dataset starts empty and the file is
// created on the first Save.
func New[R Identifiable](name string, opts ...Option[R]) (*Dataset[R], error) {
	d := &Dataset[R]{
		name:    name,
		path:    name + ".json",
		index:   make(map[string]int),
		subsets: make(map[string]func(R) bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

// Name returns the dataset name.
func (d *Dataset[R]) Name() string { return d.name }

// Path returns the backing file path.
func (d *Dataset[R]) Path() string { return d.path }

// Len returns the number of rows.
func (d *Dataset[R]) Len() int { return len(d.rows) }

// Rows returns the underlying row sequence in insertion order. The slice
// is shared; mutations to rows are visible to the dataset.
func (d *Dataset[R]) Rows() []R { return d.rows }

// Get returns the row at position i.
func (d *Dataset[R]) Get(i int) R { return d.rows[i] }

// ByID returns the row with the given identifier.
func (d *Dataset[R]) ByID(id string) (R, bool) {
	i, ok := d.index[id]
	if !ok {
		var zero R
		return zero, false
	}
	return d.rows[i], true
}

// Append adds a single row. See Extend.
func (d *Dataset[R]) Append(row R) error {
	return d.Extend(row)
}

// Extend appends rows, assigning ids to any row lacking one. Existing rows
// are never dropped. Nothing is persisted until Save.
func (d *Dataset[R]) Extend(rows ...R) error {
	for _, row := range rows {
		row.EnsureID()
		id := row.RowID()
		if _, exists := d.index[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		d.index[id] = len(d.rows)
		d.rows = append(d.rows, row)
	}
	return nil
}

// Subset returns the live filtered view declared under name.
func (d *Dataset[R]) Subset(name string) (*View[R], error) {
	pred, ok := d.subsets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubset, name)
	}
	return &View[R]{ds: d, name: name, pred: pred}, nil
}

// Save validates every row against its declared schema, then atomically
// rewrites the backing file with the canonical encoding of the full row
// sequence. Validation failure aborts the save with no partial write, so
// a crash or a bad row can never corrupt the previous valid state.
func (d *Dataset[R]) Save() error {
	items := make([]codec.Value, len(d.rows))
	for i, row := range d.rows {
		if err := validate.Struct(row); err != nil {
			return fmt.Errorf("%w: row %s: %v", ErrRowInvalid, row.RowID(), err)
		}
		v, err := codec.Encode(row)
		if err != nil {
			return fmt.Errorf("%w: row %s: %v", ErrRowInvalid, row.RowID(), err)
		}
		items[i] = v
	}

	data, err := codec.MarshalCanonical(codec.List(items...))
	if err != nil {
		return fmt.Errorf("encoding dataset %s: %w", d.name, err)
	}
	if err := atomicfile.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("saving dataset %s: %w", d.name, err)
	}
	return nil
}

func (d *Dataset[R]) load() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading dataset %s: %w", d.name, err)
	}

	v, err := codec.UnmarshalCanonical(data)
	if err != nil {
		return fmt.Errorf("parsing dataset %s: %w", d.name, err)
	}
	items, ok := v.AsList()
	if !ok {
		return fmt.Errorf("%w: dataset %s: expected a list of rows", codec.ErrValidation, d.name)
	}

	for i, item := range items {
		row := newRow[R]()
		if err := codec.Decode(item, row); err != nil {
			return fmt.Errorf("dataset %s: row %d: %w", d.name, i, err)
		}
		if err := d.Extend(row); err != nil {
			return fmt.Errorf("dataset %s: %w", d.name, err)
		}
	}
	return nil
}

// newRow allocates a fresh row. R is a pointer-to-struct type, so the
// zero R is nil and the pointee must be allocated through reflection.
func newRow[R Identifiable]() R {
	var zero R
	rt := reflect.TypeOf(&zero).Elem()
	if rt.Kind() != reflect.Pointer {
		return zero
	}
	return reflect.New(rt.Elem()).Interface().(R)
}
