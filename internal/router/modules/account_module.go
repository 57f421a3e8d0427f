package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guardline/backend/internal/container"
	handlers "github.com/guardline/backend/internal/interface/http"
	"github.com/guardline/backend/internal/interface/middleware"
	"github.com/guardline/backend/pkg/helpers"
)

// AccountModule wires signup/login and the authenticated user routes.
// Public: POST /api/signup, POST /api/login
// Protected: GET|DELETE /api/users/:id, PUT /api/users/:id/avatar
// Moderator: POST /api/users/:id/approve
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/:id", m.Handler.GetUser)
		auth.DELETE("/users/:id", m.Handler.Delete)
		auth.PUT("/users/:id/avatar", m.Handler.UpdateAvatar)
	}

	mod := auth.Group("/")
	mod.Use(middleware.RequireModerator())
	{
		mod.POST("/users/:id/approve", m.Handler.Approve)
	}
}
