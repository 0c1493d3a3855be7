package httpx

import (
	"errors"
	"net/http"

	"github.com/tableforge/tableforge/internal/shared"
)

// RespondError maps domain errors to failure envelopes. Authentication
// failures all land on 401 with their taxonomy code; validation errors carry
// field details; anything unexpected is a bare 500.
func RespondError(w http.ResponseWriter, err error) {
	var validation *shared.ValidationError
	var missingPass *shared.MissingPasswordError
	switch {
	case errors.As(err, &validation):
		FailureFields(w, http.StatusBadRequest, shared.ErrorType(err), "validation failed", validation.Fields)
	case errors.As(err, &missingPass):
		Failure(w, http.StatusUnprocessableEntity, shared.ErrorType(err), "no active password credential")
	case shared.IsAuthFailure(err):
		Failure(w, http.StatusUnauthorized, shared.ErrorType(err), "authentication failed")
	case errors.Is(err, shared.ErrNotFound):
		Failure(w, http.StatusNotFound, shared.ErrorType(err), "not found")
	default:
		Failure(w, http.StatusInternalServerError, "internal", "")
	}
}
