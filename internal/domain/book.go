package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BookStatus represents where a book sits on the user's shelf.
type BookStatus string

// Possible book status values.
const (
	BookStatusToRead   BookStatus = "to-read"
	BookStatusReading  BookStatus = "reading"
	BookStatusFinished BookStatus = "finished"
	BookStatusDNF      BookStatus = "dnf" // did not finish
)

// Common validation errors for Book.
var (
	ErrEmptyBookID          = errors.New("book ID cannot be empty")
	ErrEmptyBookOwnerID     = errors.New("book owner ID cannot be empty")
	ErrEmptyBookTitle       = errors.New("book title cannot be empty")
	ErrInvalidBookStatus    = errors.New("invalid book status")
	ErrNonPositiveTotal     = errors.New("book total pages must be positive")
	ErrNegativeCurrentPage  = errors.New("book current page cannot be negative")
	ErrRatingOutOfRange     = errors.New("book rating must be between 0 and 5")
)

// Book is an entry on the user's reading list.
type Book struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"` // URL to a book cover
	Status      BookStatus `json:"status"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	Rating      int        `json:"rating"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewBook creates a new Book on the to-read shelf owned by ownerID.
// Returns an error if validation fails.
func NewBook(ownerID uuid.UUID, title string, totalPages int) (*Book, error) {
	book := &Book{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Title:      title,
		Status:     BookStatusToRead,
		TotalPages: totalPages,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
// Returns an error if any field fails validation.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if b.OwnerID == uuid.Nil {
		return ErrEmptyBookOwnerID
	}

	if b.Title == "" {
		return ErrEmptyBookTitle
	}

	if !isValidBookStatus(b.Status) {
		return ErrInvalidBookStatus
	}

	if b.TotalPages <= 0 {
		return ErrNonPositiveTotal
	}

	if b.CurrentPage < 0 {
		return ErrNegativeCurrentPage
	}

	if b.Rating < 0 || b.Rating > 5 {
		return ErrRatingOutOfRange
	}

	return nil
}

// ProgressPercent reports reading progress as a whole percentage.
func (b *Book) ProgressPercent() int {
	if b.TotalPages <= 0 {
		return 0
	}
	return int(float64(b.CurrentPage)/float64(b.TotalPages)*100 + 0.5)
}

// isValidBookStatus checks if the given status is a valid BookStatus.
func isValidBookStatus(s BookStatus) bool {
	switch s {
	case BookStatusToRead, BookStatusReading, BookStatusFinished, BookStatusDNF:
		return true
	default:
		return false
	}
}
