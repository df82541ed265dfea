package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
)

// Error codes carried in the envelope.
const (
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeInvalidArgument  = "invalid_argument"
	CodeInvalidOperation = "invalid_operation"
	CodeUnauthorized     = "unauthorized"
	CodeInternal         = "internal"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Count:   domain.CountOf(err),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// StatusFor maps an error to its HTTP status and envelope code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusUnprocessableEntity, CodeInvalidOperation
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Fail writes the envelope for err. Unclassified errors are recorded on the
// gin context for the request logger and reported with a generic message.
func Fail(c *gin.Context, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, status, code, errors.New("internal server error"))
		return
	}
	RespondError(c, status, code, err)
}
