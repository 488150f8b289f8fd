package dataset

// View is a live filtered window over a dataset, produced by a named
// subset predicate. It holds no row copies: mutations through the view
// propagate to the underlying collection, and saving a view persists the
// whole dataset.
type View[R Identifiable] struct {
	ds   *Dataset[R]
	name string
	pred func(R) bool
}

// Name returns the subset name the view was built from.
func (v *View[R]) Name() string { return v.name }

// Rows returns the matching rows, evaluated against current row state.
func (v *View[R]) Rows() []R {
	var out []R
	for _, row := range v.ds.rows {
		if v.pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// Len returns the current number of matching rows.
func (v *View[R]) Len() int { return len(v.Rows()) }

// Save persists the underlying dataset, not just the view.
func (v *View[R]) Save() error { return v.ds.Save() }
