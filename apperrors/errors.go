package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Auth(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

func EmptyCart() *Error {
	return New(http.StatusBadRequest, "Cart is empty", nil)
}

func InsufficientStock(available int) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf("Insufficient stock. Available: %d", available), nil)
}

func Upload(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Respond writes err as the standard {success:false, message} JSON body.
// Non-application errors become a generic 500.
func Respond(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Internal("Internal server error", err)
	}
	c.JSON(appErr.Code, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}
