package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/apperr"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

// errorPayload is the uniform error body. Kind is machine-readable; field
// is set for validation failures so clients know what to correct.
type errorPayload struct {
	Kind   string `json:"kind"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail"`
}

// writeError maps the core's error taxonomy onto HTTP statuses. Unmapped
// errors fall through to 500.
func writeError(c *gin.Context, err error) {
	var verr *reservation.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorPayload{
			Kind:   validationKind(verr.Err),
			Field:  verr.Field,
			Detail: verr.Err.Error(),
		}})
		return
	}

	switch {
	case errors.Is(err, listing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errorPayload{Kind: "not_found", Detail: err.Error()}})
	case errors.Is(err, reservation.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": errorPayload{Kind: "conflict", Detail: err.Error()}})
	case errors.Is(err, reservation.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorPayload{Kind: "validation", Field: "name", Detail: err.Error()}})
	case errors.Is(err, apperr.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errorPayload{Kind: "storage_unavailable", Detail: "storage temporarily unavailable"}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorPayload{Kind: "internal", Detail: err.Error()}})
	}
}

func validationKind(err error) string {
	switch {
	case errors.Is(err, reservation.ErrMissingField):
		return "missing_field"
	case errors.Is(err, reservation.ErrMalformedDate):
		return "malformed_date"
	case errors.Is(err, reservation.ErrPastDate):
		return "past_date"
	case errors.Is(err, reservation.ErrInvertedRange):
		return "inverted_range"
	default:
		return "validation"
	}
}
