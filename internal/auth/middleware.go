package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// RequireOperator guards operator routes with a static bearer token. An
// empty token disables the check.
func RequireOperator(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		given, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(given)), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpx.ErrorResponse{
				Error: httpx.ErrorBody{Code: "UNAUTHORIZED", Message: "Operator token required"},
			})
			return
		}

		c.Next()
	}
}
