package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/clients/fireflies"
	"github.com/Khushv4/fireApp/internal/data/repos"
	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeFetcher struct {
	transcript     *fireflies.Transcript
	err            error
	fetchCalls     int
	fetchListCalls int
}

func (f *fakeFetcher) FetchTranscripts(ctx context.Context, limit int) (json.RawMessage, error) {
	f.fetchListCalls++
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeFetcher) FetchTranscript(ctx context.Context, id string) (*fireflies.Transcript, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

// fakeMeetingRepo keeps records in memory and mirrors the real upsert's
// nil-retain merge so service tests exercise the same semantics.
type fakeMeetingRepo struct {
	byExternal map[string]*types.Meeting

	createErr error
	upsertErr error
	lookupErr error

	createCalls int
	upsertCalls int
	lastUpsert  *repos.MeetingUpsert
	lastSlots   map[string]string
	lastSnap    datatypes.JSON
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{byExternal: map[string]*types.Meeting{}}
}

func (r *fakeMeetingRepo) Create(ctx context.Context, tx *gorm.DB, meeting *types.Meeting) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.byExternal[meeting.ExternalID]; exists {
		return fmt.Errorf("duplicate external id %q", meeting.ExternalID)
	}
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	meeting.CreatedAt = time.Now().UTC()
	r.byExternal[meeting.ExternalID] = meeting
	return nil
}

func (r *fakeMeetingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Meeting, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, m := range r.byExternal {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Meeting, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.byExternal[externalID], nil
}

func (r *fakeMeetingRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Meeting, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	out := make([]*types.Meeting, 0, len(r.byExternal))
	for _, m := range r.byExternal {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMeetingRepo) UpsertByExternalID(ctx context.Context, tx *gorm.DB, input repos.MeetingUpsert) (*types.Meeting, error) {
	r.upsertCalls++
	r.lastUpsert = &input
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}

	m, exists := r.byExternal[input.ExternalID]
	if !exists {
		m = &types.Meeting{
			ID:             uuid.New(),
			ExternalID:     input.ExternalID,
			TranscriptJSON: "[]",
			CreatedAt:      time.Now().UTC(),
		}
		r.byExternal[input.ExternalID] = m
	}
	if input.Title != nil {
		m.Title = *input.Title
	}
	if input.MeetingDate != nil {
		m.MeetingDate = input.MeetingDate
	}
	if input.DurationSeconds != nil {
		m.DurationSeconds = *input.DurationSeconds
	}
	if input.TranscriptJSON != nil {
		m.TranscriptJSON = *input.TranscriptJSON
	}
	if input.Summary != nil {
		m.Summary = *input.Summary
	}
	return m, nil
}

func (r *fakeMeetingRepo) UpdateSummary(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary string) (int64, error) {
	for _, m := range r.byExternal {
		if m.ID == id {
			m.Summary = summary
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeMeetingRepo) UpdateArtifacts(ctx context.Context, tx *gorm.DB, id uuid.UUID, slots map[string]string, snapshot datatypes.JSON) (int64, error) {
	r.lastSlots = slots
	r.lastSnap = snapshot
	for _, m := range r.byExternal {
		if m.ID == id {
			return 1, nil
		}
	}
	return 0, nil
}

type fakeAI struct {
	prompts []string
	reply   func(user string) string
	err     error
}

func (f *fakeAI) GenerateText(ctx context.Context, system string, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	if f.reply != nil {
		return f.reply(user), nil
	}
	return "generated", nil
}
