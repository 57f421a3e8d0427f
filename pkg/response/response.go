package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guardline/backend/pkg/apperr"
)

// APIResponse is the uniform envelope for every endpoint. Error carries the
// stable machine-readable code from pkg/apperr; production responses never
// include stack detail.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	})
}

func Error(ctx *gin.Context, status int, code string, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     code,
		Details:   details,
	})
}

// FromErr translates a service error through the apperr taxonomy.
func FromErr(ctx *gin.Context, err error) {
	Error(ctx, apperr.Status(err), apperr.Code(err), err.Error(), nil)
}
