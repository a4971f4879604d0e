package app

import (
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/data/repos"
	"github.com/Khushv4/fireApp/internal/platform/logger"
)

type Repos struct {
	Meeting repos.MeetingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Meeting: repos.NewMeetingRepo(db, log),
	}
}
