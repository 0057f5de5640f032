package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okian/bakeoff/internal/domain/errs"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	errInvalidID   = errors.New("id must be a positive integer")
	errInvalidWeek = errors.New("week must be an integer")
)

// Error codes carried in error responses.
const (
	codeBadRequest       = "bad_request"
	codeValidation       = "validation_failed"
	codeNotFound         = "not_found"
	codeUnknownCategory  = "unknown_category"
	codeEliminated       = "contestant_eliminated"
	codeDuplicateWinner  = "duplicate_winner"
	codeInternal         = "internal_error"
	headerIdempotencyKey = "Idempotency-Key"
	headerRequestID      = "X-Request-ID"
	// headerIdempotentReplay is set on a POST /scores answered from the idempotency memory.
	headerIdempotentReplay = "Idempotent-Replayed"
)

// statusFor maps a domain error kind to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch errs.KindOf(err) {
	case errs.ErrNotFound:
		return http.StatusNotFound, codeNotFound
	case errs.ErrValidation:
		return http.StatusBadRequest, codeValidation
	case errs.ErrUnknownCategory:
		return http.StatusBadRequest, codeUnknownCategory
	case errs.ErrEliminatedContestant:
		return http.StatusUnprocessableEntity, codeEliminated
	case errs.ErrDuplicateWinner:
		return http.StatusConflict, codeDuplicateWinner
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func writeError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	if err != nil {
		_ = c.Error(err)
	}
	writeJSON(c, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError answers with the status matching err's kind.
func writeDomainError(c *gin.Context, err error) {
	status, code := statusFor(err)
	writeError(c, status, code, err)
}

// bindJSON decodes the request body into v, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, http.StatusBadRequest, codeBadRequest, errors.Join(ErrBadRequest, err))
		return false
	}
	return true
}
