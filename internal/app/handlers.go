package app

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/Khushv4/fireApp/internal/http/handlers"
	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/server"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Meeting  *httpH.MeetingHandler
	External *httpH.ExternalHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Meeting:  httpH.NewMeetingHandler(serviceset.Meeting),
		External: httpH.NewExternalHandler(serviceset.Sync, serviceset.Artifact),
	}
}

func wireRouter(cfg Config, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		HealthHandler:   handlerset.Health,
		MeetingHandler:  handlerset.Meeting,
		ExternalHandler: handlerset.External,
		AllowOrigins:    cfg.AllowOrigins,
	})
}
