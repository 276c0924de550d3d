package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/userdirectory/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func run(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/user/create", nil)
	Error(c, err)
	return w
}

func TestError_AppError(t *testing.T) {
	w := run(apperror.UserNotFound(4))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":false,"error":"User 4 not found","extra_data":{"user_id":4}}`, w.Body.String())
}

func TestError_WrappedAppError(t *testing.T) {
	w := run(fmt.Errorf("handler: %w", apperror.NotEnoughRights()))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status":false,"error":"Not enough rights","extra_data":{}}`, w.Body.String())
}

func TestError_Storage(t *testing.T) {
	w := run(apperror.Storage(errors.New("disk full")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"status":false,"error":"disk full","extra_data":{"type":"StorageError","path":"/user/create"}}`,
		w.Body.String())
}

func TestError_Unknown(t *testing.T) {
	w := run(errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	assert.Contains(t, w.Body.String(), `"type":"InternalError"`)
}

func TestOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":true}`, w.Body.String())
}
