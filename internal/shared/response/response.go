package response

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Common error responses
func Unauthorized(c *gin.Context, code, message string) {
	ErrorResponse(c, 401, code, message)
}

func TooManyRequests(c *gin.Context, message string) {
	ErrorResponse(c, 429, "TOO_MANY_REQUESTS", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, 500, "INTERNAL_SERVER_ERROR", message)
}
