package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldErrors maps a field key to a human-readable message. An empty map
// means the checked document is valid and the caller may advance.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Add records a message for a field, keeping the first message if the
// field already failed.
func (fe FieldErrors) Add(key, message string) {
	if _, exists := fe[key]; exists {
		return
	}
	fe[key] = message
}

// Merge folds another result set into this one.
func (fe FieldErrors) Merge(other FieldErrors) {
	for key, message := range other {
		fe.Add(key, message)
	}
}

// RequireString fails the field when the value is empty or whitespace-only.
func RequireString(fe FieldErrors, key, label, value string) {
	if strings.TrimSpace(value) == "" {
		fe.Add(key, label+" is required")
	}
}

// LineRow is the row shape shared by invoice line items and catalog items.
// Validity of one field depends on its siblings, so rows are checked as a
// whole rather than field by field.
type LineRow struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// Complete reports whether the row carries both a description and a
// positive rate, i.e. it counts toward the document.
func (r LineRow) Complete() bool {
	return strings.TrimSpace(r.Description) != "" && r.Rate.IsPositive()
}

// Touched reports whether the user has started filling the row in. Blank
// placeholder rows produce no row-level errors.
func (r LineRow) Touched() bool {
	return strings.TrimSpace(r.Description) != "" || !r.Rate.IsZero()
}

// RowKey builds the error key for a row field, addressing rows by index.
func RowKey(index int, field string) string {
	return fmt.Sprintf("items.%d.%s", index, field)
}

// CheckRows applies the sibling-dependency rules to every row and the
// collection-level rule to the document: at least one complete row must
// exist even when no individual row is in error.
func CheckRows(fe FieldErrors, rows []LineRow) {
	complete := 0
	for i, row := range rows {
		if row.Complete() {
			complete++
		}
		if !row.Touched() {
			continue
		}
		if strings.TrimSpace(row.Description) == "" {
			fe.Add(RowKey(i, "description"), "Description is required")
		}
		if !row.Rate.IsPositive() {
			fe.Add(RowKey(i, "rate"), "Rate must be greater than 0")
		}
		if !row.Quantity.IsPositive() {
			fe.Add(RowKey(i, "quantity"), "Quantity must be greater than 0")
		}
	}
	if complete == 0 {
		fe.Add("items", "At least one item with description and rate is required")
	}
}
