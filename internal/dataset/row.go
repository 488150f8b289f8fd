package dataset

import "github.com/google/uuid"

// Row is the embeddable identity base for dataset rows. User row types
// embed it and add their declared and label fields:
//
//	type InvoiceRow struct {
//		dataset.Row
//		Markdown  string                 `json:"markdown" validate:"required"`
//		TotalCost dataset.Label[float64] `json:"total_cost"`
//	}
type Row struct {
	ID string `json:"id"`
}

// RowID returns the row's unique identifier.
func (r *Row) RowID() string { return r.ID }

// EnsureID generates an identifier if the row does not have one yet.
func (r *Row) EnsureID() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
}

// Identifiable is satisfied by pointers to structs embedding Row.
type Identifiable interface {
	RowID() string
	EnsureID()
}
