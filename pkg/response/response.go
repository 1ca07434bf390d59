package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
)

// Envelope is the uniform response contract. Transport status is always 200;
// Code carries the application status, with 0 meaning success.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK sends a success envelope with a payload.
func OK(c *gin.Context, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, Envelope{Code: 0, Message: "success", Data: data})
}

// Message sends a success envelope carrying only a human-readable message.
func Message(c *gin.Context, message string) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, Envelope{Code: 0, Message: message})
}

// Error sends a failure envelope converting the error to the closed taxonomy.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, Envelope{Code: appErr.Code, Message: appErr.Message})
}

// Abort writes a failure envelope and terminates the request immediately. It
// is intended for middleware where no downstream handler may run.
func Abort(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(http.StatusOK, Envelope{Code: appErr.Code, Message: appErr.Message})
}
