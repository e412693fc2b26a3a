package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with. A successful
// response carries Data, a failed one carries Message, never both.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success writes data inside a successful envelope.
func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Fail writes message inside a failed envelope.
func Fail(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, APIResponse{
		Success: false,
		Message: message,
	})
}

// AbortWithFail writes a failed envelope and stops the handler chain.
func AbortWithFail(c *gin.Context, status int, message string) {
	Fail(c, status, message)
	c.Abort()
}
