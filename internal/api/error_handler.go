package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
)

// HandleAPIError is the single exit path for handler errors. It maps the
// error to an HTTP status, picks a sanitized message, and writes the
// response while logging the redacted details. defaultMsg replaces the
// generic message for errors the taxonomy does not recognize; pass ""
// to keep the generic one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	var message string
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		message = fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	default:
		message = GetSafeErrorMessage(err)
		if defaultMsg != "" && status == http.StatusInternalServerError {
			message = defaultMsg
		}
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
