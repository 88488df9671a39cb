package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the console response envelope.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorInfo provides details for error responses. Fields carries inline
// form errors keyed by field name.
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Toast     string `json:"toast,omitempty"`
	Theme     string `json:"theme,omitempty"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    meta(c),
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	FieldError(c, code, errCode, message, nil)
}

// FieldError is Error with inline form errors attached.
func FieldError(c *gin.Context, code int, errCode, message string, fields map[string]string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
			Fields:  fields,
		},
		Meta: meta(c),
	})
}

// SetToast attaches the toast raised while handling the request to the
// response meta.
func SetToast(c *gin.Context, message string) {
	c.Set("toast", message)
}

// SetTheme attaches the active theme ("dark" or "light") to the response
// meta so every rendered page knows how to draw itself.
func SetTheme(c *gin.Context, theme string) {
	c.Set("theme", theme)
}

func meta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().Format(time.RFC3339),
		Toast:     c.GetString("toast"),
		Theme:     c.GetString("theme"),
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
