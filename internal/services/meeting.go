package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/clients/openai"
	"github.com/Khushv4/fireApp/internal/data/repos"
	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/types"
)

// UpsertMeetingRequest is the client-facing upsert payload. ExternalID is
// required; nil optional fields retain whatever the stored record has.
type UpsertMeetingRequest struct {
	ExternalID      string     `json:"external_id"`
	Title           *string    `json:"title"`
	MeetingDate     *time.Time `json:"meeting_date"`
	DurationSeconds float64    `json:"duration_seconds"`
	TranscriptJSON  *string    `json:"transcript_json"`
	Summary         *string    `json:"summary"`
}

type MeetingListItem struct {
	ID          uuid.UUID  `json:"id"`
	ExternalID  string     `json:"external_id"`
	Title       string     `json:"title"`
	CreatedAt   time.Time  `json:"created_at"`
	MeetingDate *time.Time `json:"meeting_date"`
	Summary     string     `json:"summary"`
}

type MeetingService interface {
	List(ctx context.Context) ([]MeetingListItem, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Meeting, error)
	Upsert(ctx context.Context, req UpsertMeetingRequest) (*SyncResult, error)
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error
	SummaryFile(ctx context.Context, id uuid.UUID) (string, error)
	GenerateSummary(ctx context.Context, id uuid.UUID) (string, error)
}

type meetingService struct {
	db          *gorm.DB
	log         *logger.Logger
	meetingRepo repos.MeetingRepo
	ai          openai.Client
}

func NewMeetingService(db *gorm.DB, baseLog *logger.Logger, meetingRepo repos.MeetingRepo, ai openai.Client) MeetingService {
	return &meetingService{
		db:          db,
		log:         baseLog.With("service", "MeetingService"),
		meetingRepo: meetingRepo,
		ai:          ai,
	}
}

func (s *meetingService) List(ctx context.Context) ([]MeetingListItem, error) {
	rows, err := s.meetingRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.PersistenceFailed(err)
	}
	items := make([]MeetingListItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, MeetingListItem{
			ID:          m.ID,
			ExternalID:  m.ExternalID,
			Title:       m.Title,
			CreatedAt:   m.CreatedAt,
			MeetingDate: m.MeetingDate,
			Summary:     m.Summary,
		})
	}
	return items, nil
}

func (s *meetingService) Get(ctx context.Context, id uuid.UUID) (*types.Meeting, error) {
	m, err := s.meetingRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.PersistenceFailed(err)
	}
	if m == nil {
		return nil, apierr.NotFound(fmt.Errorf("meeting %s not found", id))
	}
	return m, nil
}

// Upsert is the explicit write path the client calls after it has fetched a
// transcript itself. Validation happens before any store access. A missing
// date defaults to now here; the read-through miss path stores NULL instead
// (two deliberately different defaulting rules).
func (s *meetingService) Upsert(ctx context.Context, req UpsertMeetingRequest) (*SyncResult, error) {
	if req.ExternalID == "" {
		return nil, apierr.ValidationFailed(fmt.Errorf("external_id is required"))
	}

	meetingDate := time.Now().UTC()
	if req.MeetingDate != nil {
		meetingDate = *req.MeetingDate
	}
	duration := roundDuration(req.DurationSeconds)

	input := repos.MeetingUpsert{
		ExternalID:      req.ExternalID,
		Title:           req.Title,
		MeetingDate:     &meetingDate,
		DurationSeconds: &duration,
		TranscriptJSON:  req.TranscriptJSON,
		Summary:         req.Summary,
	}

	m, err := s.meetingRepo.UpsertByExternalID(ctx, nil, input)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.PersistenceFailed(fmt.Errorf("storage constraint violated: %w", err))
		}
		return nil, apierr.PersistenceFailed(fmt.Errorf("storage unavailable: %w", err))
	}
	return &SyncResult{ID: m.ID, ExternalID: m.ExternalID}, nil
}

func (s *meetingService) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	affected, err := s.meetingRepo.UpdateSummary(ctx, nil, id, summary)
	if err != nil {
		return apierr.PersistenceFailed(err)
	}
	if affected == 0 {
		return apierr.NotFound(fmt.Errorf("meeting %s not found", id))
	}
	return nil
}

// SummaryFile renders the plain-text download body for a meeting summary.
func (s *meetingService) SummaryFile(ctx context.Context, id uuid.UUID) (string, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return summaryText(m), nil
}

func (s *meetingService) GenerateSummary(ctx context.Context, id uuid.UUID) (string, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Summarize the following meeting:\n%s", m.Summary)
	text, err := s.ai.GenerateText(ctx, "You are a helpful assistant.", prompt)
	if err != nil {
		return "", apierr.UpstreamUnavailable(0, err)
	}
	return text, nil
}

func summaryText(m *types.Meeting) string {
	date := ""
	if m.MeetingDate != nil {
		date = m.MeetingDate.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("Meeting Title: %s\nDate: %s\n\nSummary:\n%s", m.Title, date, m.Summary)
}
