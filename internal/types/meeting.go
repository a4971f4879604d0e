package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Meeting is the cached copy of one Fireflies transcript plus everything the
// dashboard layers on top of it (edited summary, generated documents).
// ExternalID is the natural key for upserts; ID and CreatedAt never change
// once the row exists.
type Meeting struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID      string         `gorm:"uniqueIndex;not null;column:external_id" json:"external_id"`
	Title           string         `gorm:"not null;default:'';column:title" json:"title"`
	MeetingDate     *time.Time     `gorm:"column:meeting_date" json:"meeting_date"`
	DurationSeconds int            `gorm:"not null;default:0;column:duration_seconds" json:"duration_seconds"`
	TranscriptJSON  string         `gorm:"type:text;not null;default:'[]';column:transcript_json" json:"transcript_json"`
	Summary         string         `gorm:"type:text;column:summary" json:"summary"`
	FunctionalDoc   string         `gorm:"type:text;column:functional_doc" json:"functional_doc"`
	Mockups         string         `gorm:"type:text;column:mockups" json:"mockups"`
	MarkdownDoc     string         `gorm:"type:text;column:markdown_doc" json:"markdown_doc"`
	ArtifactsJSON   datatypes.JSON `gorm:"column:artifacts_json" json:"artifacts_json,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (Meeting) TableName() string {
	return "meeting"
}

// ArtifactFile is one named generated document as submitted by the client.
type ArtifactFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
