package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guardline/backend/internal/container"
	handlers "github.com/guardline/backend/internal/interface/http"
	"github.com/guardline/backend/internal/interface/middleware"
	"github.com/guardline/backend/pkg/helpers"
)

// ReportModule wires incident report routes. Submission is public so that
// reports can be filed anonymously; the moderator views require an approved
// moderator session.
type ReportModule struct {
	Handler *handlers.ReportHandler
	JWT     *helpers.JWTManager
}

func NewReportModule(h *handlers.ReportHandler, jwt *helpers.JWTManager) *ReportModule {
	return &ReportModule{Handler: h, JWT: jwt}
}

func (m *ReportModule) Register(rg *gin.RouterGroup) {
	submitLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/reports", submitLimiter, m.Handler.Submit)

	mod := rg.Group("/")
	mod.Use(middleware.Auth(m.JWT), middleware.RequireModerator())
	mod.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		mod.GET("/reports", m.Handler.List)
		mod.GET("/reports/search", m.Handler.Search)
		mod.PUT("/reports/:id/status", m.Handler.UpdateStatus)
	}
}
