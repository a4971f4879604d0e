package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/clients/fireflies"
	"github.com/Khushv4/fireApp/internal/data/repos"
	"github.com/Khushv4/fireApp/internal/normalization"
	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/types"
)

// TranscriptFetcher is the slice of the Fireflies client the coordinator
// needs; tests substitute a counting fake.
type TranscriptFetcher interface {
	FetchTranscripts(ctx context.Context, limit int) (json.RawMessage, error)
	FetchTranscript(ctx context.Context, id string) (*fireflies.Transcript, error)
}

type MeetingViewSummary struct {
	Overview     string `json:"overview"`
	ShortSummary string `json:"short_summary"`
}

// MeetingView is the client-facing read shape for a cached meeting, mirroring
// the upstream transcript shape so the frontend renders both the same way.
// The stored summary is duplicated into both summary fields.
type MeetingView struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Date      *time.Time         `json:"date"`
	Duration  int                `json:"duration"`
	Sentences json.RawMessage    `json:"sentences"`
	Summary   MeetingViewSummary `json:"summary"`
}

type SyncResult struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
}

// SyncService owns the two access policies for a meeting keyed by its
// Fireflies id. GetMeeting is the read-through cache; SyncMeeting always
// fetches and upserts. They are distinct operations with different failure
// contracts, not variants of one.
type SyncService interface {
	GetMeeting(ctx context.Context, externalID string) (any, error)
	SyncMeeting(ctx context.Context, externalID string) (*SyncResult, error)
	ListUpstream(ctx context.Context, limit int) (json.RawMessage, error)
}

type syncService struct {
	db          *gorm.DB
	log         *logger.Logger
	meetingRepo repos.MeetingRepo
	fetcher     TranscriptFetcher
}

func NewSyncService(db *gorm.DB, baseLog *logger.Logger, meetingRepo repos.MeetingRepo, fetcher TranscriptFetcher) SyncService {
	return &syncService{
		db:          db,
		log:         baseLog.With("service", "SyncService"),
		meetingRepo: meetingRepo,
		fetcher:     fetcher,
	}
}

// GetMeeting serves the cached record when one exists and never calls
// upstream on a hit. On a miss it fetches once, caches the result, and
// returns the upstream payload verbatim. The cache is an optimization here:
// store failures are logged and the fetched data still reaches the caller.
func (s *syncService) GetMeeting(ctx context.Context, externalID string) (any, error) {
	if externalID == "" {
		return nil, apierr.ValidationFailed(fmt.Errorf("meeting id required"))
	}

	cached, err := s.meetingRepo.GetByExternalID(ctx, nil, externalID)
	if err != nil {
		s.log.Warn("Cache lookup failed, falling through to upstream fetch",
			"external_id", externalID, "error", err.Error())
	}
	if cached != nil {
		return mapMeetingToView(cached), nil
	}

	t, err := s.fetcher.FetchTranscript(ctx, externalID)
	if err != nil {
		return nil, err
	}

	meeting := meetingFromTranscript(t, externalID)
	if err := s.meetingRepo.Create(ctx, nil, meeting); err != nil {
		s.log.Warn("Failed caching fetched meeting, returning upstream payload anyway",
			"external_id", externalID, "error", err.Error())
	}

	return t.Raw, nil
}

// SyncMeeting always fetches from upstream and upserts the local record so
// the caller leaves with a durable internal id. Unlike the read path, a
// failed write here is the whole point of the call and is surfaced.
func (s *syncService) SyncMeeting(ctx context.Context, externalID string) (*SyncResult, error) {
	if externalID == "" {
		return nil, apierr.ValidationFailed(fmt.Errorf("meeting id required"))
	}

	t, err := s.fetcher.FetchTranscript(ctx, externalID)
	if err != nil {
		return nil, err
	}

	id := t.ID
	if id == "" {
		id = externalID
	}
	sentencesJSON := marshalSentences(t.Sentences)
	duration := roundDuration(t.Duration)
	summary := transcriptSummary(t)

	input := repos.MeetingUpsert{
		ExternalID:      id,
		Title:           &t.Title,
		MeetingDate:     normalization.NormalizeDate(t.Date),
		DurationSeconds: &duration,
		TranscriptJSON:  &sentencesJSON,
		Summary:         &summary,
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

func (s *syncService) ListUpstream(ctx context.Context, limit int) (json.RawMessage, error) {
	return s.fetcher.FetchTranscripts(ctx, limit)
}

// meetingFromTranscript builds the cache record for the read-through miss
// path. An absent or unparsable upstream date is stored as NULL here; the
// explicit upsert endpoint defaults to now instead (see MeetingService).
func meetingFromTranscript(t *fireflies.Transcript, fallbackID string) *types.Meeting {
	id := t.ID
	if id == "" {
		id = fallbackID
	}
	return &types.Meeting{
		ExternalID:      id,
		Title:           t.Title,
		MeetingDate:     normalization.NormalizeDate(t.Date),
		DurationSeconds: roundDuration(t.Duration),
		TranscriptJSON:  marshalSentences(t.Sentences),
		Summary:         transcriptSummary(t),
	}
}

func mapMeetingToView(m *types.Meeting) *MeetingView {
	sentences := json.RawMessage(m.TranscriptJSON)
	if len(sentences) == 0 || !json.Valid(sentences) {
		sentences = json.RawMessage("[]")
	}
	return &MeetingView{
		ID:        m.ExternalID,
		Title:     m.Title,
		Date:      m.MeetingDate,
		Duration:  m.DurationSeconds,
		Sentences: sentences,
		Summary: MeetingViewSummary{
			Overview:     m.Summary,
			ShortSummary: m.Summary,
		},
	}
}

func transcriptSummary(t *fireflies.Transcript) string {
	if t.Summary.Overview != "" {
		return t.Summary.Overview
	}
	return t.Summary.ShortSummary
}

func marshalSentences(sentences []fireflies.Sentence) string {
	if len(sentences) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(sentences)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func roundDuration(seconds float64) int {
	rounded := int(math.Round(seconds))
	if rounded < 0 {
		return 0
	}
	return rounded
}
