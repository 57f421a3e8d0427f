package router

import (
	"github.com/guardline/backend/internal/application"
	"github.com/guardline/backend/internal/container"
	pginfra "github.com/guardline/backend/internal/infrastructure/postgres"
	handlers "github.com/guardline/backend/internal/interface/http"
	"github.com/guardline/backend/internal/router/modules"
	"github.com/guardline/backend/pkg/helpers"
	"github.com/guardline/backend/pkg/mailer"
)

// InitModules builds services from the container singletons and registers
// every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	var blobs application.BlobUploader
	if container.GetGCS() != nil && cfg.GCSBucket != "" {
		blobs = helpers.NewGCSUploader(container.GetGCS(), cfg.GCSBucket)
	}

	var chatProvider application.ChatProvider
	if container.GetChat() != nil {
		chatProvider = container.GetChat()
	}

	accounts := application.NewAccountService(
		repo,
		container.GetJWT(),
		chatProvider,
		blobs,
		container.GetRedis(),
		logger,
	)

	recovery := application.NewRecoveryService(
		repo,
		mailer.NewQueueDispatcher(container.GetRabbitPub()),
		logger,
		cfg.AppName,
		cfg.ResetURLBase,
		cfg.SupportURL,
	)

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(accounts, logger), container.GetJWT()))
	r.Add(modules.NewRecoveryModule(handlers.NewRecoveryHandler(recovery, logger)))

	if container.GetReports() != nil {
		reports := application.NewReportService(
			container.GetReports(),
			blobs,
			container.GetES(),
			cfg.ESReportsIndex,
			logger,
		)
		r.Add(modules.NewReportModule(handlers.NewReportHandler(reports, logger), container.GetJWT()))
	}

	if cfg.DebugVarsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
