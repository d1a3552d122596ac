package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every non-2xx JSON response.
type ErrorBody struct {
	Error     string            `json:"error"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageBody acknowledges operations that return no resource.
type MessageBody struct {
	Message string `json:"message"`
}

// Success writes data as the response body. Resources are returned bare, not wrapped.
func Success[T any](c *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// Message writes {"message": msg}.
func Message(c *gin.Context, status int, msg string) {
	Success(c, status, MessageBody{Message: msg})
}

// Error aborts the chain and writes an ErrorBody carrying the request id.
func Error(c *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:     message,
		Details:   details,
		RequestID: c.GetString("request_id"),
	})
}
