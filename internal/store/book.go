package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyflow-api/internal/domain"
)

// BookStore defines the interface for reading-list persistence. Every
// operation is scoped to an owner, like TaskStore.
type BookStore interface {
	// Create saves a new book to the store.
	Create(ctx context.Context, book *domain.Book) error

	// GetForOwner retrieves one book by (id, ownerID).
	// Returns ErrBookNotFound if no such book is owned by ownerID.
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Book, error)

	// List returns all of the owner's books, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)

	// Update rewrites the book row identified by (book.ID, book.OwnerID).
	// Returns ErrBookNotFound if no such book is owned by the book's owner.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes the book identified by (id, ownerID).
	// Returns ErrBookNotFound if no such book is owned by ownerID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// CountByStatus reports how many of the owner's books are in the
	// given status.
	CountByStatus(ctx context.Context, ownerID uuid.UUID, status domain.BookStatus) (int, error)

	// FirstByStatus returns the most recently updated book in the given
	// status, or ErrBookNotFound when the shelf has none.
	FirstByStatus(ctx context.Context, ownerID uuid.UUID, status domain.BookStatus) (*domain.Book, error)
}
