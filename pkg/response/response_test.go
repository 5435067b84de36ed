package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

func serve(t *testing.T, h gin.HandlerFunc) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestSuccess(t *testing.T) {
	status, resp := serve(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, resp.Data)
}

func TestErrorCarriesFields(t *testing.T) {
	err := apperrors.NewValidation(map[string]string{"title": "书名不能为空"})
	status, resp := serve(t, func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, apperrors.ErrInvalidParams.Code, resp.Code)
	assert.Equal(t, "书名不能为空", resp.Fields["title"])
}

func TestErrorHidesInternalCause(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) { Error(c, errors.New("dial tcp: connection refused")) })
	assert.Equal(t, apperrors.ErrInternal.Code, resp.Code)
	assert.NotContains(t, resp.Message, "connection refused")
}

func TestAbort(t *testing.T) {
	status, resp := serve(t, func(c *gin.Context) { Abort(c, http.StatusUnauthorized, apperrors.ErrUnauthorized) })
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ErrUnauthorized.Code, resp.Code)
}
