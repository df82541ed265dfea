package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/masterplan/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NotFound("x"), http.StatusNotFound, CodeNotFound},
		{domain.Conflict("x"), http.StatusConflict, CodeConflict},
		{domain.InvalidArgument("x"), http.StatusBadRequest, CodeInvalidArgument},
		{domain.Blocked(2, "x"), http.StatusUnprocessableEntity, CodeInvalidOperation},
		{fmt.Errorf("wrapped: %w", domain.NotFound("x")), http.StatusNotFound, CodeNotFound},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := StatusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func serveFail(t *testing.T, err error) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Fail(c, err)
	return rec, c
}

func TestFail_EnvelopeCarriesCount(t *testing.T) {
	rec, _ := serveFail(t, domain.Blocked(3, "classification 7 has 3 child classifications"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, CodeInvalidOperation, env.Error.Code)
	assert.Equal(t, 3, env.Error.Count)
	assert.Contains(t, env.Error.Message, "3 child")
}

func TestFail_HidesInternalErrors(t *testing.T) {
	rec, c := serveFail(t, errors.New("pq: connection refused on 10.0.0.3"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	require.Len(t, c.Errors, 1, "the cause is kept for the request log")
}
