package app

import (
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/clients/fireflies"
	"github.com/Khushv4/fireApp/internal/clients/openai"
	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/services"
)

type Services struct {
	Sync     services.SyncService
	Meeting  services.MeetingService
	Artifact services.ArtifactService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	firefliesClient, err := fireflies.NewClient(log)
	if err != nil {
		return Services{}, err
	}
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Sync:     services.NewSyncService(db, log, reposet.Meeting, firefliesClient),
		Meeting:  services.NewMeetingService(db, log, reposet.Meeting, openaiClient),
		Artifact: services.NewArtifactService(db, log, reposet.Meeting, openaiClient),
	}, nil
}
