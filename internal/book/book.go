package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no book row matches an ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidSort is returned for a sort criterion other than date or rating.
	ErrInvalidSort = errors.New("invalid sort criterion")
	// ErrDuplicateISBN is returned when an insert or update collides on isbn.
	ErrDuplicateISBN = errors.New("a book with this isbn already exists")
)

const dateLayout = "2006-01-02"

// Book is one entry of the reading log, keyed by ISBN.
type Book struct {
	ISBN     string     `json:"isbn"`
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	// Rating and DateRead are nil when the reader left them blank.
	Rating   *float64   `json:"rating,omitempty"`
	DateRead *time.Time `json:"date_read,omitempty"`
	Notes    string     `json:"notes"`
	// Username records who added the book.
	Username string `json:"username"`
}

// DateReadString formats DateRead for date inputs; empty when unset.
func (b Book) DateReadString() string {
	if b.DateRead == nil {
		return ""
	}
	return b.DateRead.Format(dateLayout)
}

// Sort selects the ordering of the book list.
type Sort string

const (
	SortNone     Sort = ""
	SortByDate   Sort = "date"
	SortByRating Sort = "rating"
)

// ParseSort accepts the path values "date" and "rating".
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortByDate, SortByRating:
		return Sort(s), nil
	default:
		return SortNone, ErrInvalidSort
	}
}
