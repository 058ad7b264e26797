package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

const bookColumns = `id, owner_id, title, author, status, current_page, total_pages, rating, created_at, updated_at`

// scanBook reads one book row into a domain.Book.
func scanBook(row interface{ Scan(...any) error }) (*domain.Book, error) {
	var book domain.Book
	var status string

	err := row.Scan(
		&book.ID,
		&book.OwnerID,
		&book.Title,
		&book.Author,
		&status,
		&book.CurrentPage,
		&book.TotalPages,
		&book.Rating,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	book.Status = domain.BookStatus(status)
	return &book, nil
}

// Create implements store.BookStore.Create
// It saves a new book to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		book.ID,
		book.OwnerID,
		book.Title,
		book.Author,
		book.Status,
		book.CurrentPage,
		book.TotalPages,
		book.Rating,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during book creation",
				slog.String("error", err.Error()),
				slog.String("book_id", book.ID.String()),
				slog.String("owner_id", book.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, book.OwnerID)
		}

		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	log.Info("book created successfully",
		slog.String("book_id", book.ID.String()),
		slog.String("owner_id", book.OwnerID.String()))
	return nil
}

// GetForOwner implements store.BookStore.GetForOwner
// Returns store.ErrBookNotFound if no such book is owned by ownerID.
func (s *PostgresBookStore) GetForOwner(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1 AND owner_id = $2
	`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found",
				slog.String("book_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, err
	}

	return book, nil
}

// List implements store.BookStore.List
// It returns all of the owner's books, newest first.
// Returns an empty slice if the shelf is empty.
func (s *PostgresBookStore) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query books",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Error("failed to scan book row",
				slog.String("error", err.Error()))
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed books",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(books)))
	return books, nil
}

// Update implements store.BookStore.Update
// It rewrites the book row identified by (book.ID, book.OwnerID).
// Returns store.ErrBookNotFound if no such book is owned by the book's owner.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during update",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	book.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE books
		SET title = $1, author = $2, status = $3, current_page = $4,
		    total_pages = $5, rating = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.Status,
		book.CurrentPage,
		book.TotalPages,
		book.Rating,
		book.UpdatedAt,
		book.ID,
		book.OwnerID,
	)

	if err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("book not found for update",
			slog.String("book_id", book.ID.String()),
			slog.String("owner_id", book.OwnerID.String()))
		return store.ErrBookNotFound
	}

	log.Info("book updated successfully",
		slog.String("book_id", book.ID.String()))
	return nil
}

// Delete implements store.BookStore.Delete
// Returns store.ErrBookNotFound if no such book is owned by ownerID.
func (s *PostgresBookStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM books
		WHERE id = $1 AND owner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("book not found for delete",
			slog.String("book_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return store.ErrBookNotFound
	}

	log.Info("book deleted successfully",
		slog.String("book_id", id.String()))
	return nil
}

// CountByStatus implements store.BookStore.CountByStatus
func (s *PostgresBookStore) CountByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.BookStatus,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM books
		WHERE owner_id = $1 AND status = $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, ownerID, status).Scan(&count)
	if err != nil {
		log.Error("failed to count books by status",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()),
			slog.String("status", string(status)))
		return 0, err
	}

	return count, nil
}

// FirstByStatus implements store.BookStore.FirstByStatus
// It returns the most recently updated book in the given status.
// Returns store.ErrBookNotFound when the shelf has none.
func (s *PostgresBookStore) FirstByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.BookStatus,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE owner_id = $1 AND status = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, ownerID, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no book in status",
				slog.String("owner_id", ownerID.String()),
				slog.String("status", string(status)))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get first book by status",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	return book, nil
}
