package utils

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// FieldError represents a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse represents a 400 response with field-level messages
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func SendError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Message: message,
	})
}

func SendValidationErrors(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Message: "Validation failed",
		Errors:  errs,
	})
}

// SendServerError answers 500; the error detail is exposed only outside release mode
func SendServerError(c *gin.Context, err error) {
	resp := ErrorResponse{Message: "Server error"}
	if gin.Mode() != gin.ReleaseMode && err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

func SendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
