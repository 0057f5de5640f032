package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okian/bakeoff/pkg/logger"
	"github.com/okian/bakeoff/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest    = 400
	statusNotFound      = 404
	statusConflict      = 409
	statusUnprocessable = 422
	statusInternalError = 500
)

type requestIDKey struct{}

// RequestID returns the request id stored in ctx by RequestIDMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware reuses the caller's X-Request-ID or issues a new one,
// echoes it on the response and stores it in the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey{}, id))
		c.Next()
	}
}

// AccessLogMiddleware logs one line per request: server errors at error level,
// client errors at warn, the rest at debug.
func AccessLogMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("elapsed", time.Since(start)),
			logger.String("requestID", RequestID(c.Request.Context())),
		}
		if err := c.Errors.Last(); err != nil {
			fields = append(fields, logger.Error(err.Err))
		}
		ctx := c.Request.Context()
		switch {
		case status >= statusInternalError:
			log.Error(ctx, "request failed", fields...)
		case status >= statusBadRequest:
			log.Warn(ctx, "request rejected", fields...)
		default:
			log.Debug(ctx, "request served", fields...)
		}
	}
}

// MetricsMiddleware records Prometheus metrics per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		durationMs := float64(time.Since(start).Microseconds()) / 1000
		status := c.Writer.Status()
		statusCodeStr := strconv.Itoa(status)

		metrics.RecordHTTPRequest(endpoint, c.Request.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, c.Request.Method, statusCodeStr, durationMs)

		if status >= statusBadRequest {
			errorType := getErrorType(status)
			metrics.RecordErrorByEndpoint(endpoint, c.Request.Method, errorType)
			metrics.RecordErrorByType(errorType, getErrorSeverity(status))
		}
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode == statusConflict:
		return "conflict"
	case statusCode == statusUnprocessable:
		return "unprocessable"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// getErrorSeverity returns error severity based on HTTP status code.
func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "high"
	case statusCode >= statusBadRequest:
		return "medium"
	default:
		return "low"
	}
}
