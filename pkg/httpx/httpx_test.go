package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.Validation(apperror.CodeEmptyCart, "empty"), http.StatusBadRequest},
		{apperror.Validation(apperror.CodeMinimumOrderNotMet, "min"), http.StatusUnprocessableEntity},
		{apperror.Validation(apperror.CodeProductUnavailable, "gone"), http.StatusUnprocessableEntity},
		{apperror.NotFound(apperror.CodeOrderNotFound, "missing"), http.StatusNotFound},
		{apperror.Conflict(apperror.CodeInsufficientStock, "short", nil), http.StatusConflict},
		{apperror.Conflict(apperror.CodeOrderBusy, "busy", nil), http.StatusConflict},
		{apperror.NotFound(apperror.CodeDeliveryNotFound, "no delivery"), http.StatusNotFound},
		{apperror.Internal("boom", errors.New("db")), http.StatusInternalServerError},
		{errors.New("raw"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), "%v", tt.err)
	}
}

func TestPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, defaultPageSize},
		{"?page=3&page_size=5", 3, 5},
		{"?page=-1&page_size=1000", 1, maxPageSize},
		{"?page=x&page_size=y", 1, defaultPageSize},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		page, size := Paging(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}
