package meetings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/types"
)

// MeetingUpsert carries the fields of an upsert-by-external-id. Nil pointer
// fields retain whatever the stored row already has; on first insert they
// fall back to zero-value defaults.
type MeetingUpsert struct {
	ExternalID      string
	Title           *string
	MeetingDate     *time.Time
	DurationSeconds *int
	TranscriptJSON  *string
	Summary         *string
}

type MeetingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, meeting *types.Meeting) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Meeting, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Meeting, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Meeting, error)
	UpsertByExternalID(ctx context.Context, tx *gorm.DB, input MeetingUpsert) (*types.Meeting, error)
	UpdateSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) (int64, error)
	UpdateArtifacts(ctx context.Context, tx *gorm.DB, id uuid.UUID, slots map[string]string, snapshot datatypes.JSON) (int64, error)
}

type meetingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	repoLog := baseLog.With("repo", "MeetingRepo")
	return &meetingRepo{db: db, log: repoLog}
}

func (mr *meetingRepo) Create(ctx context.Context, tx *gorm.DB, meeting *types.Meeting) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(meeting).Error
}

func (mr *meetingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.Meeting
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *meetingRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.Meeting
	err := transaction.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *meetingRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Meeting
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpsertByExternalID runs one INSERT ... ON CONFLICT (external_id) DO UPDATE.
// Only fields present in the input are assigned on conflict; id and
// created_at are never reassigned. A single conditional statement keeps the
// race window between concurrent syncs for the same external id down to the
// store's own write path (last write wins, no app-level locking).
func (mr *meetingRepo) UpsertByExternalID(ctx context.Context, tx *gorm.DB, input MeetingUpsert) (*types.Meeting, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	row := types.Meeting{
		ID:             uuid.New(),
		ExternalID:     input.ExternalID,
		TranscriptJSON: "[]",
	}
	assignments := map[string]any{}
	if input.Title != nil {
		row.Title = *input.Title
		assignments["title"] = *input.Title
	}
	if input.MeetingDate != nil {
		row.MeetingDate = input.MeetingDate
		assignments["meeting_date"] = *input.MeetingDate
	}
	if input.DurationSeconds != nil {
		row.DurationSeconds = *input.DurationSeconds
		assignments["duration_seconds"] = *input.DurationSeconds
	}
	if input.TranscriptJSON != nil {
		row.TranscriptJSON = *input.TranscriptJSON
		assignments["transcript_json"] = *input.TranscriptJSON
	}
	if input.Summary != nil {
		row.Summary = *input.Summary
		assignments["summary"] = *input.Summary
	}
	// Never an empty DO UPDATE set; also bumps updated_at on a pure re-sync.
	assignments["updated_at"] = time.Now().UTC()

	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	// On the conflict path the stored row kept its original id, so read the
	// surviving row back rather than trusting the candidate we sent.
	return mr.GetByExternalID(ctx, transaction, input.ExternalID)
}

func (mr *meetingRepo) UpdateSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Meeting{}).
		Where("id = ?", id).
		Update("summary", summary)
	return result.RowsAffected, result.Error
}

// UpdateArtifacts writes the matched slot columns plus the full serialized
// snapshot of the submitted set in one statement.
func (mr *meetingRepo) UpdateArtifacts(ctx context.Context, tx *gorm.DB, id uuid.UUID, slots map[string]string, snapshot datatypes.JSON) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	updates := map[string]any{
		"artifacts_json": snapshot,
	}
	for column, content := range slots {
		updates[column] = content
	}

	result := transaction.WithContext(ctx).
		Model(&types.Meeting{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}
