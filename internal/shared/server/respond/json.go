package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ack confirms an operation that returns no resource.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Success writes a 200 Ack carrying message.
func Success(c *gin.Context, message string) {
	OK(c, Ack{Success: true, Message: message})
}
