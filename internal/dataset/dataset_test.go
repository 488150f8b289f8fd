package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// InvoiceRow exercises the declared/label field split: markdown and
// created are required up front, the remaining fields are bootstrapped
// later by hooks or direct assignment.
type InvoiceRow struct {
	Row
	Markdown      string         `json:"markdown" validate:"required"`
	Created       time.Time      `json:"created"`
	TotalCost     Label[float64] `json:"total_cost"`
	ContainsError Label[bool]    `json:"contains_error"`
}

func newInvoices(t *testing.T, dir string) *Dataset[*InvoiceRow] {
	t.Helper()
	ds, err := New("invoices",
		WithDir[*InvoiceRow](dir),
		WithSubset("contains_error", func(r *InvoiceRow) bool {
			return r.ContainsError.Or(false)
		}),
	)
	require.NoError(t, err)
	return ds
}

func TestNewDatasetStartsEmpty(t *testing.T) {
	t.Parallel()

	ds := newInvoices(t, t.TempDir())
	assert.Equal(t, 0, ds.Len())
}

func TestLabelLaziness(t *testing.T) {
	t.Parallel()

	row := &InvoiceRow{Markdown: "invoice1...", Created: time.Now().UTC()}

	_, err := row.TotalCost.Get()
	assert.ErrorIs(t, err, ErrUnset)
	assert.False(t, row.TotalCost.IsSet())

	row.TotalCost.Set(100.0)
	got, err := row.TotalCost.Get()
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	row.TotalCost.Unset()
	_, err = row.TotalCost.Get()
	assert.ErrorIs(t, err, ErrUnset)
}

func TestLabelMustGetPanicsOnUnset(t *testing.T) {
	t.Parallel()

	var l Label[int]
	assert.Panics(t, func() { l.MustGet() })

	l.Set(3)
	assert.Equal(t, 3, l.MustGet())
}

func TestExtendAssignsIDs(t *testing.T) {
	t.Parallel()

	ds := newInvoices(t, t.TempDir())
	r1 := &InvoiceRow{Markdown: "invoice1...", Created: time.Now().UTC()}
	r2 := &InvoiceRow{Markdown: "invoice2...", Created: time.Now().UTC()}
	require.NoError(t, ds.Extend(r1, r2))

	assert.Equal(t, 2, ds.Len())
	assert.NotEmpty(t, r1.RowID())
	assert.NotEmpty(t, r2.RowID())
	assert.NotEqual(t, r1.RowID(), r2.RowID())
}

func TestExtendRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	ds := newInvoices(t, t.TempDir())
	r1 := &InvoiceRow{Row: Row{ID: "dup"}, Markdown: "a", Created: time.Now().UTC()}
	r2 := &InvoiceRow{Row: Row{ID: "dup"}, Markdown: "b", Created: time.Now().UTC()}

	require.NoError(t, ds.Append(r1))
	assert.ErrorIs(t, ds.Append(r2), ErrDuplicateID)
}

func TestAccessByIndexAndID(t *testing.T) {
	t.Parallel()

	ds := newInvoices(t, t.TempDir())
	r1 := &InvoiceRow{Markdown: "invoice1...", Created: time.Now().UTC()}
	require.NoError(t, ds.Extend(r1))

	assert.Equal(t, "invoice1...", ds.Get(0).Markdown)

	byID, ok := ds.ByID(r1.RowID())
	require.True(t, ok)
	assert.Same(t, r1, byID)

	_, ok = ds.ByID("missing")
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	ds := newInvoices(t, dir)
	r1 := &InvoiceRow{Markdown: "invoice1...", Created: created}
	r1.TotalCost.Set(99.5)
	r2 := &InvoiceRow{Markdown: "invoice2...", Created: created}
	require.NoError(t, ds.Extend(r1, r2))
	require.NoError(t, ds.Save())

	loaded := newInvoices(t, dir)
	require.Equal(t, 2, loaded.Len())

	got, ok := loaded.ByID(r1.RowID())
	require.True(t, ok)
	assert.Equal(t, "invoice1...", got.Markdown)
	assert.True(t, got.Created.Equal(created))

	cost, err := got.TotalCost.Get()
	require.NoError(t, err)
	assert.Equal(t, 99.5, cost)

	// The unset label stays unset across the round trip.
	second, ok := loaded.ByID(r2.RowID())
	require.True(t, ok)
	_, err = second.TotalCost.Get()
	assert.ErrorIs(t, err, ErrUnset)
}

func TestSaveValidationAbortsWithNoPartialWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ds := newInvoices(t, dir)
	good := &InvoiceRow{Markdown: "ok", Created: time.Now().UTC()}
	require.NoError(t, ds.Extend(good))
	require.NoError(t, ds.Save())

	before, err := os.ReadFile(filepath.Join(dir, "invoices.json"))
	require.NoError(t, err)

	// Markdown is required; the empty row must abort the save.
	bad := &InvoiceRow{Created: time.Now().UTC()}
	require.NoError(t, ds.Extend(bad))
	assert.ErrorIs(t, ds.Save(), ErrRowInvalid)

	after, err := os.ReadFile(filepath.Join(dir, "invoices.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "previous valid state must survive a failed save")
}

func TestSubsetIsALiveView(t *testing.T) {
	t.Parallel()

	ds := newInvoices(t, t.TempDir())
	r1 := &InvoiceRow{Markdown: "a", Created: time.Now().UTC()}
	r1.ContainsError.Set(true)
	r2 := &InvoiceRow{Markdown: "b", Created: time.Now().UTC()}
	r2.ContainsError.Set(false)
	require.NoError(t, ds.Extend(r1, r2))

	view, err := ds.Subset("contains_error")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Len())

	// Mutating a row re-evaluates membership: views are windows, not copies.
	r2.ContainsError.Set(true)
	assert.Equal(t, 2, view.Len())

	// Mutations through the view reach the underlying rows.
	view.Rows()[0].TotalCost.Set(5)
	assert.True(t, r1.TotalCost.IsSet())

	_, err = ds.Subset("nope")
	assert.ErrorIs(t, err, ErrUnknownSubset)
}

func TestLoadedUnsetLabelWrittenAsNull(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ds := newInvoices(t, dir)
	require.NoError(t, ds.Extend(&InvoiceRow{Markdown: "x", Created: time.Now().UTC()}))
	require.NoError(t, ds.Save())

	data, err := os.ReadFile(filepath.Join(dir, "invoices.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_cost":null`)
}
