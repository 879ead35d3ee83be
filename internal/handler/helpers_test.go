package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"glowpos/internal/model"
	"glowpos/internal/repository"
	"glowpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{
			"invalid input",
			&service.InvalidInputError{Reason: "quantity must be positive"},
			http.StatusBadRequest,
		},
		{
			"not found",
			&repository.NotFoundError{Entity: "product", Ref: uuid.NewString()},
			http.StatusNotFound,
		},
		{
			"insufficient stock",
			&repository.InsufficientStockError{Ref: model.StockRef{ProductID: uuid.New()}, Available: 1, Requested: 3},
			http.StatusConflict,
		},
		{
			"store conflict",
			fmt.Errorf("%w: deadlock detected", repository.ErrStoreConflict),
			http.StatusServiceUnavailable,
		},
		{
			"unknown error",
			errors.New("boom"),
			http.StatusInternalServerError,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			writeError(c, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), "detail")
		})
	}
}

func TestWriteError_StoreConflictIsRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	writeError(c, fmt.Errorf("%w: serialization failure", repository.ErrStoreConflict))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestWriteError_InternalDetailWithheld(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	writeError(c, errors.New("pq: column users.secret does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
