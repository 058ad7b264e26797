package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/service"
)

// BookHandler handles reading-list API requests.
type BookHandler struct {
	bookService service.BookService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookService service.BookService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &BookHandler{
		bookService: bookService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "book_handler")),
	}
}

// CreateBook handles POST /api/books.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	book, err := h.bookService.CreateBook(r.Context(), userID, service.CreateBookInput{
		Title:      req.Title,
		Author:     req.Author,
		TotalPages: req.TotalPages,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, book)
}

// GetBook handles GET /api/books/{id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, bookID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	book, err := h.bookService.GetBook(r.Context(), userID, bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// ListBooks handles GET /api/books.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	books, err := h.bookService.ListBooks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, books)
}

// UpdateBook handles PUT /api/books/{id}.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, bookID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.UpdateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		CurrentPage: req.CurrentPage,
		TotalPages:  req.TotalPages,
		Rating:      req.Rating,
	}
	if req.Status != nil {
		status := domain.BookStatus(*req.Status)
		input.Status = &status
	}

	book, err := h.bookService.UpdateBook(r.Context(), userID, bookID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/{id}.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, bookID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), userID, bookID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
