package meetings

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/types"
)

var testDBSeq int

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:meetingrepo%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Meeting{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUpsertByExternalIDInsertsThenUpdates(t *testing.T) {
	db := testDB(t)
	repo := NewMeetingRepo(db, testLogger(t))
	ctx := context.Background()

	date := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	first, err := repo.UpsertByExternalID(ctx, nil, MeetingUpsert{
		ExternalID:      "abc",
		Title:           strPtr("Standup"),
		MeetingDate:     &date,
		DurationSeconds: intPtr(930),
		TranscriptJSON:  strPtr(`[{"index":0,"text":"hi"}]`),
		Summary:         strPtr("first summary"),
	})
	if err != nil {
		t.Fatalf("UpsertByExternalID (insert): %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("insert: expected assigned id")
	}
	if first.Title != "Standup" || first.DurationSeconds != 930 {
		t.Fatalf("insert: unexpected row: %+v", first)
	}

	second, err := repo.UpsertByExternalID(ctx, nil, MeetingUpsert{
		ExternalID: "abc",
		Title:      strPtr("Standup (renamed)"),
	})
	if err != nil {
		t.Fatalf("UpsertByExternalID (update): %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("update: internal id changed: %s -> %s", first.ID, second.ID)
	}
	if second.CreatedAt.Unix() != first.CreatedAt.Unix() {
		t.Fatalf("update: created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Title != "Standup (renamed)" {
		t.Fatalf("update: title not overwritten: %q", second.Title)
	}
	// Fields absent from the second call retain the stored values.
	if second.Summary != "first summary" {
		t.Fatalf("update: summary not retained: %q", second.Summary)
	}
	if second.TranscriptJSON != `[{"index":0,"text":"hi"}]` {
		t.Fatalf("update: transcript not retained: %q", second.TranscriptJSON)
	}
	if second.MeetingDate == nil || !second.MeetingDate.UTC().Equal(date) {
		t.Fatalf("update: meeting date not retained: %v", second.MeetingDate)
	}

	var count int64
	if err := db.Model(&types.Meeting{}).Where("external_id = ?", "abc").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row for external id, got %d", count)
	}
}

func TestUpsertByExternalIDDefaults(t *testing.T) {
	db := testDB(t)
	repo := NewMeetingRepo(db, testLogger(t))
	ctx := context.Background()

	m, err := repo.UpsertByExternalID(ctx, nil, MeetingUpsert{ExternalID: "bare"})
	if err != nil {
		t.Fatalf("UpsertByExternalID: %v", err)
	}
	if m.Title != "" || m.DurationSeconds != 0 || m.Summary != "" {
		t.Fatalf("unexpected defaults: %+v", m)
	}
	if m.TranscriptJSON != "[]" {
		t.Fatalf("transcript default: got %q, want []", m.TranscriptJSON)
	}
	if m.MeetingDate != nil {
		t.Fatalf("meeting date default: got %v, want nil", m.MeetingDate)
	}
}

func TestCreateAndLookups(t *testing.T) {
	db := testDB(t)
	repo := NewMeetingRepo(db, testLogger(t))
	ctx := context.Background()

	meeting := &types.Meeting{
		ExternalID:     "xyz",
		Title:          "Planning",
		TranscriptJSON: "[]",
	}
	if err := repo.Create(ctx, nil, meeting); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if meeting.ID == uuid.Nil {
		t.Fatalf("Create: expected assigned id")
	}

	byExternal, err := repo.GetByExternalID(ctx, nil, "xyz")
	if err != nil {
		t.Fatalf("GetByExternalID: %v", err)
	}
	if byExternal == nil || byExternal.ID != meeting.ID {
		t.Fatalf("GetByExternalID: unexpected result: %+v", byExternal)
	}

	byID, err := repo.GetByID(ctx, nil, meeting.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID == nil || byID.ExternalID != "xyz" {
		t.Fatalf("GetByID: unexpected result: %+v", byID)
	}

	missing, err := repo.GetByExternalID(ctx, nil, "nope")
	if err != nil {
		t.Fatalf("GetByExternalID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByExternalID (missing): expected nil, got %+v", missing)
	}

	// Duplicate natural key through the plain insert path must fail.
	err = repo.Create(ctx, nil, &types.Meeting{ExternalID: "xyz", TranscriptJSON: "[]"})
	if err == nil {
		t.Fatalf("Create (duplicate external id): expected error")
	}
}

func TestUpdateSummary(t *testing.T) {
	db := testDB(t)
	repo := NewMeetingRepo(db, testLogger(t))
	ctx := context.Background()

	meeting := &types.Meeting{ExternalID: "sum", TranscriptJSON: "[]", Summary: "old"}
	if err := repo.Create(ctx, nil, meeting); err != nil {
		t.Fatalf("Create: %v", err)
	}

	affected, err := repo.UpdateSummary(ctx, nil, meeting.ID, "new summary")
	if err != nil {
		t.Fatalf("UpdateSummary: %v", err)
	}
	if affected != 1 {
		t.Fatalf("UpdateSummary: affected = %d, want 1", affected)
	}

	got, err := repo.GetByID(ctx, nil, meeting.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if got.Summary != "new summary" {
		t.Fatalf("summary not updated: %q", got.Summary)
	}
	// Summary edits leave transcript fields alone.
	if got.TranscriptJSON != "[]" {
		t.Fatalf("transcript touched by summary update: %q", got.TranscriptJSON)
	}

	affected, err = repo.UpdateSummary(ctx, nil, uuid.New(), "whatever")
	if err != nil {
		t.Fatalf("UpdateSummary (missing): %v", err)
	}
	if affected != 0 {
		t.Fatalf("UpdateSummary (missing): affected = %d, want 0", affected)
	}
}

func TestUpdateArtifacts(t *testing.T) {
	db := testDB(t)
	repo := NewMeetingRepo(db, testLogger(t))
	ctx := context.Background()

	meeting := &types.Meeting{ExternalID: "art", TranscriptJSON: "[]"}
	if err := repo.Create(ctx, nil, meeting); err != nil {
		t.Fatalf("Create: %v", err)
	}

	snapshot, _ := json.Marshal([]types.ArtifactFile{
		{Name: "FunctionalDoc.txt", Content: "doc"},
		{Name: "random.txt", Content: "extra"},
	})
	affected, err := repo.UpdateArtifacts(ctx, nil, meeting.ID,
		map[string]string{"functional_doc": "doc"}, datatypes.JSON(snapshot))
	if err != nil {
		t.Fatalf("UpdateArtifacts: %v", err)
	}
	if affected != 1 {
		t.Fatalf("UpdateArtifacts: affected = %d, want 1", affected)
	}

	got, err := repo.GetByID(ctx, nil, meeting.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if got.FunctionalDoc != "doc" {
		t.Fatalf("functional_doc not written: %q", got.FunctionalDoc)
	}
	var stored []types.ArtifactFile
	if err := json.Unmarshal(got.ArtifactsJSON, &stored); err != nil {
		t.Fatalf("snapshot unmarshal: %v", err)
	}
	if len(stored) != 2 || stored[1].Name != "random.txt" {
		t.Fatalf("snapshot lost content: %+v", stored)
	}
}
