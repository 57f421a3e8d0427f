package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guardline/backend/internal/container"
	handlers "github.com/guardline/backend/internal/interface/http"
	"github.com/guardline/backend/internal/interface/middleware"
)

// RecoveryModule wires the public password reset routes. All four are rate
// limited per IP and path on top of the per-account single-active-secret
// rule enforced in the service.
type RecoveryModule struct {
	Handler *handlers.RecoveryHandler
}

func NewRecoveryModule(h *handlers.RecoveryHandler) *RecoveryModule {
	return &RecoveryModule{Handler: h}
}

func (m *RecoveryModule) Register(rg *gin.RouterGroup) {
	issueLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	completeLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/forgot-password", issueLimiter, m.Handler.ForgotPassword)
	rg.POST("/request-reset", issueLimiter, m.Handler.RequestReset)
	rg.POST("/verify-reset", completeLimiter, m.Handler.VerifyReset)
	rg.POST("/reset-password/:token", completeLimiter, m.Handler.ResetPassword)
}
