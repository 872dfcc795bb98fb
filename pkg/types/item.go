package types

import "errors"

// Item is a single to-do entry. ID is assigned by the store on insert and
// never changes; Value is set at creation and never edited; Done moves from
// false to true at most once in normal use.
type Item struct {
	ID    int64  `json:"id"`
	Done  bool   `json:"done"`
	Value string `json:"value"`
}

// Pending reports whether the item belongs to the pending partition.
func (i Item) Pending() bool {
	return !i.Done
}

// Item errors.
var (
	// ErrEmptyValue is returned by Insert for empty text. It is a validation
	// failure, not a store failure.
	ErrEmptyValue = errors.New("item value must not be empty")

	// ErrInvalidID is returned when an item ID cannot be parsed or is not
	// positive.
	ErrInvalidID = errors.New("invalid item ID")
)
