// Package middleware holds the HTTP middleware chain: error translation,
// request ids, request logging and panic recovery.
package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
	"triage_server/pkg/response"
)

// RequestIDHeader carries the request id to clients and logs.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the fiber locals key for the request id.
const requestIDKey = "request_id"

// ErrorHandler translates errors into the standard response envelope.
// Registered as the fiber app's ErrorHandler, so handlers just return errors.
// Fiber-native errors (unknown routes, disallowed methods, oversize bodies)
// keep their status instead of collapsing into 500s.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= 500 {
			logger.WithField(requestIDKey, RequestID(c)).
				WithError(err).
				Error("request failed")
		}
		return response.Error(c, appErr.Status, appErr.Code, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return response.Error(c, fiberErr.Code, statusCode(fiberErr.Code), fiberErr.Message)
	}

	logger.WithField(requestIDKey, RequestID(c)).
		WithError(err).
		Error("unhandled error")
	return response.Error(c, fiber.StatusInternalServerError,
		apperr.CodeInternalError, "internal server error")
}

// statusCode picks the envelope error code for a bare HTTP status.
func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return apperr.CodeBadRequest
	case fiber.StatusNotFound:
		return apperr.CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusConflict:
		return apperr.CodeConflict
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return apperr.CodeInternalError
		}
		return apperr.CodeBadRequest
	}
}

// NewRequestID assigns each request a uuid, reusing a caller-provided one.
func NewRequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestID returns the request id assigned by NewRequestID, or "".
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewRequestLogger logs one structured line per request.
func NewRequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := logger.WithFields(map[string]any{
			requestIDKey: RequestID(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
		}).WithDuration(time.Since(start))

		if err != nil {
			entry.WithError(err).Warn("request completed with error")
		} else {
			entry.Info("request completed")
		}
		return err
	}
}

// NewRecover converts handler panics into 500 responses instead of killing
// the process.
func NewRecover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(map[string]any{
					requestIDKey: RequestID(c),
					"panic":      r,
					"path":       c.Path(),
				}).Error("panic recovered")
				err = apperr.Internal("internal server error")
			}
		}()
		return c.Next()
	}
}
