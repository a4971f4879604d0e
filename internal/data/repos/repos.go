package repos

import (
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/data/repos/meetings"
	"github.com/Khushv4/fireApp/internal/platform/logger"
)

type MeetingRepo = meetings.MeetingRepo
type MeetingUpsert = meetings.MeetingUpsert

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	return meetings.NewMeetingRepo(db, baseLog)
}
