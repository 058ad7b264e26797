package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studyflow-api/internal/api"
	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/service"
	"github.com/phrazzld/studyflow-api/internal/store"
	"github.com/phrazzld/studyflow-api/internal/testutils"
)

func TestCreateBook(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success returns 201 on the to-read shelf", func(t *testing.T) {
		t.Parallel()

		book := testutils.MustNewBook(t, userID, "The Go Programming Language", 380)

		bookService := &stubBookService{
			createFunc: func(_ context.Context, ownerID uuid.UUID, input service.CreateBookInput) (*domain.Book, error) {
				assert.Equal(t, userID, ownerID)
				assert.Equal(t, "The Go Programming Language", input.Title)
				assert.Equal(t, "Donovan & Kernighan", input.Author)
				assert.Equal(t, 380, input.TotalPages)
				return book, nil
			},
		}

		handler := api.NewBookHandler(bookService, nil)

		req := authedJSONRequest(t, http.MethodPost, "/api/books", userID, api.CreateBookRequest{
			Title:      "The Go Programming Language",
			Author:     "Donovan & Kernighan",
			TotalPages: 380,
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/books", handler.CreateBook)
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody[domain.Book](t, rec)
		assert.Equal(t, book.ID, body.ID)
		assert.Equal(t, domain.BookStatusToRead, body.Status)
	})

	t.Run("missing title returns 400", func(t *testing.T) {
		t.Parallel()

		handler := api.NewBookHandler(&stubBookService{}, nil)

		req := authedJSONRequest(t, http.MethodPost, "/api/books", userID, api.CreateBookRequest{
			Author: "Anonymous",
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/books", handler.CreateBook)
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Invalid Title: required field", body.Error)
	})
}

func TestGetBook(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("unknown book returns 404", func(t *testing.T) {
		t.Parallel()

		bookService := &stubBookService{
			getFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Book, error) {
				return nil, store.ErrBookNotFound
			},
		}

		handler := api.NewBookHandler(bookService, nil)

		req := authedJSONRequest(t, http.MethodGet, "/api/books/"+uuid.NewString(), userID, nil)
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Get("/api/books/{id}", handler.GetBook)
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Book not found", body.Error)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		book := testutils.MustNewBook(t, userID, "A Deepness in the Sky", 775)
		bookService := &stubBookService{
			getFunc: func(_ context.Context, ownerID, bookID uuid.UUID) (*domain.Book, error) {
				assert.Equal(t, userID, ownerID)
				assert.Equal(t, book.ID, bookID)
				return book, nil
			},
		}

		handler := api.NewBookHandler(bookService, nil)

		req := authedJSONRequest(t, http.MethodGet, "/api/books/"+book.ID.String(), userID, nil)
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Get("/api/books/{id}", handler.GetBook)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[domain.Book](t, rec)
		assert.Equal(t, book.ID, body.ID)
	})
}

func TestListBooks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	bookService := &stubBookService{
		listFunc: func(_ context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
			assert.Equal(t, userID, ownerID)
			return []*domain.Book{
				testutils.MustNewBook(t, userID, "Book one", 100),
				testutils.MustNewBook(t, userID, "Book two", 200),
			}, nil
		},
	}

	handler := api.NewBookHandler(bookService, nil)

	req := authedJSONRequest(t, http.MethodGet, "/api/books", userID, nil)
	rec := serveWithRoutes(req, func(r chi.Router) {
		r.Get("/api/books", handler.ListBooks)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[[]domain.Book](t, rec)
	assert.Len(t, body, 2)
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	book := testutils.MustNewBook(t, userID, "Working in Public", 250)

	t.Run("maps partial fields into the service input", func(t *testing.T) {
		t.Parallel()

		var gotInput service.UpdateBookInput
		bookService := &stubBookService{
			updateFunc: func(_ context.Context, _, bookID uuid.UUID, input service.UpdateBookInput) (*domain.Book, error) {
				assert.Equal(t, book.ID, bookID)
				gotInput = input
				return book, nil
			},
		}

		handler := api.NewBookHandler(bookService, nil)

		status := "reading"
		currentPage := 42
		req := authedJSONRequest(t, http.MethodPut, "/api/books/"+book.ID.String(), userID, api.UpdateBookRequest{
			Status:      &status,
			CurrentPage: &currentPage,
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Put("/api/books/{id}", handler.UpdateBook)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotInput.Status)
		assert.Equal(t, domain.BookStatusReading, *gotInput.Status)
		require.NotNil(t, gotInput.CurrentPage)
		assert.Equal(t, 42, *gotInput.CurrentPage)
		assert.Nil(t, gotInput.Title)
		assert.Nil(t, gotInput.Rating)
	})

	t.Run("invalid payloads return 400", func(t *testing.T) {
		t.Parallel()

		badStatus := "abandoned"
		badRating := 6
		tests := []struct {
			name    string
			payload api.UpdateBookRequest
			want    string
		}{
			{
				name:    "unknown status",
				payload: api.UpdateBookRequest{Status: &badStatus},
				want:    "Invalid Status: invalid value",
			},
			{
				name:    "rating above scale",
				payload: api.UpdateBookRequest{Rating: &badRating},
				want:    "Invalid Rating: too long",
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				handler := api.NewBookHandler(&stubBookService{}, nil)

				req := authedJSONRequest(t, http.MethodPut, "/api/books/"+book.ID.String(), userID, tt.payload)
				rec := serveWithRoutes(req, func(r chi.Router) {
					r.Put("/api/books/{id}", handler.UpdateBook)
				})

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				body := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, tt.want, body.Error)
			})
		}
	})
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success returns 204", func(t *testing.T) {
		t.Parallel()

		bookID := uuid.New()
		var gotBookID uuid.UUID
		bookService := &stubBookService{
			deleteFunc: func(_ context.Context, _, id uuid.UUID) error {
				gotBookID = id
				return nil
			},
		}

		handler := api.NewBookHandler(bookService, nil)

		req := authedJSONRequest(t, http.MethodDelete, "/api/books/"+bookID.String(), userID, nil)
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Delete("/api/books/{id}", handler.DeleteBook)
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, bookID, gotBookID)
	})

	t.Run("unknown book returns 404", func(t *testing.T) {
		t.Parallel()

		bookService := &stubBookService{
			deleteFunc: func(_ context.Context, _, _ uuid.UUID) error {
				return store.ErrBookNotFound
			},
		}

		handler := api.NewBookHandler(bookService, nil)

		req := authedJSONRequest(t, http.MethodDelete, "/api/books/"+uuid.NewString(), userID, nil)
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Delete("/api/books/{id}", handler.DeleteBook)
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
