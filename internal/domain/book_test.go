package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studyflow-api/internal/domain"
)

func TestNewBook(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name       string
		ownerID    uuid.UUID
		title      string
		totalPages int
		wantErr    error
	}{
		{
			name:       "valid book",
			ownerID:    ownerID,
			title:      "The Go Programming Language",
			totalPages: 380,
		},
		{
			name:       "empty owner",
			ownerID:    uuid.Nil,
			title:      "The Go Programming Language",
			totalPages: 380,
			wantErr:    domain.ErrEmptyBookOwnerID,
		},
		{
			name:       "empty title",
			ownerID:    ownerID,
			title:      "",
			totalPages: 380,
			wantErr:    domain.ErrEmptyBookTitle,
		},
		{
			name:       "zero pages",
			ownerID:    ownerID,
			title:      "The Go Programming Language",
			totalPages: 0,
			wantErr:    domain.ErrNonPositiveTotal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			book, err := domain.NewBook(tt.ownerID, tt.title, tt.totalPages)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, book)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.BookStatusToRead, book.Status)
			assert.Zero(t, book.CurrentPage)
			assert.Zero(t, book.Rating)
		})
	}
}

func TestBookValidate(t *testing.T) {
	t.Parallel()

	base := func() *domain.Book {
		book, err := domain.NewBook(uuid.New(), "SICP", 657)
		require.NoError(t, err)
		return book
	}

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		book := base()
		book.Status = domain.BookStatus("abandoned")
		assert.ErrorIs(t, book.Validate(), domain.ErrInvalidBookStatus)
	})

	t.Run("dnf is valid", func(t *testing.T) {
		t.Parallel()
		book := base()
		book.Status = domain.BookStatusDNF
		assert.NoError(t, book.Validate())
	})

	t.Run("negative current page", func(t *testing.T) {
		t.Parallel()
		book := base()
		book.CurrentPage = -1
		assert.ErrorIs(t, book.Validate(), domain.ErrNegativeCurrentPage)
	})

	t.Run("rating out of range", func(t *testing.T) {
		t.Parallel()
		book := base()
		book.Rating = 6
		assert.ErrorIs(t, book.Validate(), domain.ErrRatingOutOfRange)
	})
}

func TestBookProgressPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		want        int
	}{
		{name: "not started", currentPage: 0, totalPages: 100, want: 0},
		{name: "halfway", currentPage: 50, totalPages: 100, want: 50},
		{name: "finished", currentPage: 100, totalPages: 100, want: 100},
		{name: "rounds to nearest", currentPage: 1, totalPages: 3, want: 33},
		{name: "rounds up", currentPage: 2, totalPages: 3, want: 67},
		{name: "zero total pages", currentPage: 10, totalPages: 0, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			book := &domain.Book{CurrentPage: tt.currentPage, TotalPages: tt.totalPages}
			assert.Equal(t, tt.want, book.ProgressPercent())
		})
	}
}
