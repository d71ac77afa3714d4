// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/stratawallet/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// MsgServerError is the only body clients see for internal failures.
const MsgServerError = "Erro no servidor"

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// ServerError logs err and writes the generic 500 text response.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	e.LogWithFields(r, msg, err, fields...)
	jsonutil.Text(w, http.StatusInternalServerError, MsgServerError)
}

// Handler provides fallback handlers for the router.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound writes {"error":"not found"} with 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed writes {"error":"method not allowed"} with 405.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
