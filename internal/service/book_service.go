package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// CreateBookInput carries the caller-supplied fields for a new book.
type CreateBookInput struct {
	Title      string
	Author     string
	TotalPages int
}

// UpdateBookInput carries a partial book update. Nil fields are left
// unchanged.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	Status      *domain.BookStatus
	CurrentPage *int
	TotalPages  *int
	Rating      *int
}

// BookService provides reading-list CRUD operations scoped to an owner.
type BookService interface {
	// CreateBook adds a new book to the owner's reading list.
	CreateBook(ctx context.Context, ownerID uuid.UUID, input CreateBookInput) (*domain.Book, error)

	// GetBook retrieves one of the owner's books.
	GetBook(ctx context.Context, ownerID, bookID uuid.UUID) (*domain.Book, error)

	// ListBooks returns all of the owner's books.
	ListBooks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)

	// UpdateBook applies a partial update to one of the owner's books
	// and returns the updated book.
	UpdateBook(ctx context.Context, ownerID, bookID uuid.UUID, input UpdateBookInput) (*domain.Book, error)

	// DeleteBook removes one of the owner's books.
	DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error
}

// bookServiceImpl implements the BookService interface
type bookServiceImpl struct {
	bookStore store.BookStore
	logger    *slog.Logger
}

// Ensure bookServiceImpl implements BookService interface
var _ BookService = (*bookServiceImpl)(nil)

// NewBookService creates a new BookService.
// It returns an error if any of the required dependencies are nil.
func NewBookService(bookStore store.BookStore, logger *slog.Logger) (BookService, error) {
	if bookStore == nil {
		return nil, domain.NewValidationError("bookStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		bookStore: bookStore,
		logger:    logger.With(slog.String("component", "book_service")),
	}, nil
}

// CreateBook implements BookService.CreateBook
func (s *bookServiceImpl) CreateBook(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateBookInput,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := domain.NewBook(ownerID, input.Title, input.TotalPages)
	if err != nil {
		log.Debug("invalid book data during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	book.Author = input.Author

	if err := s.bookStore.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// GetBook implements BookService.GetBook
func (s *bookServiceImpl) GetBook(
	ctx context.Context,
	ownerID, bookID uuid.UUID,
) (*domain.Book, error) {
	book, err := s.bookStore.GetForOwner(ctx, ownerID, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}
	return book, nil
}

// ListBooks implements BookService.ListBooks
func (s *bookServiceImpl) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	books, err := s.bookStore.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// UpdateBook implements BookService.UpdateBook
// It follows the pattern of retrieving the complete book, applying the
// changed fields, and writing the whole row back.
func (s *bookServiceImpl) UpdateBook(
	ctx context.Context,
	ownerID, bookID uuid.UUID,
	input UpdateBookInput,
) (*domain.Book, error) {
	book, err := s.bookStore.GetForOwner(ctx, ownerID, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve book for update: %w", err)
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Status != nil {
		book.Status = *input.Status
	}
	if input.CurrentPage != nil {
		book.CurrentPage = *input.CurrentPage
	}
	if input.TotalPages != nil {
		book.TotalPages = *input.TotalPages
	}
	if input.Rating != nil {
		book.Rating = *input.Rating
	}

	if err := s.bookStore.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return book, nil
}

// DeleteBook implements BookService.DeleteBook
func (s *bookServiceImpl) DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error {
	if err := s.bookStore.Delete(ctx, ownerID, bookID); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
