// Package httpx holds the gin plumbing shared by every HTTP handler: error
// rendering, request logging and paging parameters.
package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ListResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// StatusOf maps an error kind to an HTTP status. NotFound and Conflict are
// caller-actionable and stay in the 4xx range; only Internal and unknown
// errors are 5xx.
func StatusOf(err error) int {
	appErr, ok := apperror.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case apperror.KindValidation:
		switch appErr.Code {
		case apperror.CodeMinimumOrderNotMet, apperror.CodeProductUnavailable:
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error renders err. Internal failures get a generic body; the cause only
// goes to the log.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status := StatusOf(err)
	body := ErrorBody{Code: apperror.CodeInternal, Message: "Internal server error"}

	if appErr, ok := apperror.As(err); ok && appErr.Kind != apperror.KindInternal {
		body = ErrorBody{Code: appErr.Code, Message: appErr.Message}
	} else {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{Code: "BAD_REQUEST", Message: message}})
}

// Paging reads page and page_size query parameters with defaults.
func Paging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// RequestLogger replaces gin.Logger with structured zap output.
func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

// NewEngine returns a gin engine with recovery and request logging.
func NewEngine(log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log), gin.Recovery())
	return r
}
