package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/types"
)

func TestGenerateReturnsThreeOrderedDrafts(t *testing.T) {
	ai := &fakeAI{reply: func(user string) string { return "draft for: " + user }}
	svc := NewArtifactService(nil, testLogger(t), newFakeMeetingRepo(), ai)

	files, err := svc.Generate(context.Background(), "quarterly roadmap sync")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(files))
	}
	wantNames := []string{"FunctionalDoc.txt", "Mockups.txt", "Markdown.md"}
	for i, name := range wantNames {
		if files[i].Name != name {
			t.Fatalf("draft %d: got %q, want %q", i, files[i].Name, name)
		}
		if files[i].Content == "" {
			t.Fatalf("draft %d has no content", i)
		}
	}
	if len(ai.prompts) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(ai.prompts))
	}
	for _, p := range ai.prompts {
		if !strings.Contains(p, "quarterly roadmap sync") {
			t.Fatalf("summary missing from prompt: %q", p)
		}
	}
}

func TestGenerateSurfacesModelFailure(t *testing.T) {
	ai := &fakeAI{err: fmt.Errorf("model overloaded")}
	svc := NewArtifactService(nil, testLogger(t), newFakeMeetingRepo(), ai)

	_, err := svc.Generate(context.Background(), "summary")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeUpstreamUnavailable {
		t.Fatalf("model failure not surfaced as upstream error: %v", err)
	}
}

func TestSaveMatchesSlotsAndKeepsFullSnapshot(t *testing.T) {
	repo := newFakeMeetingRepo()
	meeting := &types.Meeting{ExternalID: "abc", TranscriptJSON: "[]"}
	if err := repo.Create(context.Background(), nil, meeting); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewArtifactService(nil, testLogger(t), repo, &fakeAI{})

	files := []types.ArtifactFile{
		{Name: "FunctionalDoc.txt", Content: "doc body"},
		{Name: "Mockups.md", Content: "mockup body"},
		{Name: "random.txt", Content: "stray notes"},
	}
	if err := svc.Save(context.Background(), meeting.ID, files); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Slot matching ignores case and extension; unmatched names get no slot.
	if got := repo.lastSlots["functional_doc"]; got != "doc body" {
		t.Fatalf("functional_doc slot: %q", got)
	}
	if got := repo.lastSlots["mockups"]; got != "mockup body" {
		t.Fatalf("mockups slot: %q", got)
	}
	if len(repo.lastSlots) != 2 {
		t.Fatalf("unexpected slots: %+v", repo.lastSlots)
	}

	// The snapshot keeps everything submitted, matched or not.
	var snap []types.ArtifactFile
	if err := json.Unmarshal(repo.lastSnap, &snap); err != nil {
		t.Fatalf("snapshot unmarshal: %v", err)
	}
	if len(snap) != 3 || snap[2].Name != "random.txt" || snap[2].Content != "stray notes" {
		t.Fatalf("snapshot lost content: %+v", snap)
	}
}

func TestSaveMissingMeeting(t *testing.T) {
	svc := NewArtifactService(nil, testLogger(t), newFakeMeetingRepo(), &fakeAI{})

	err := svc.Save(context.Background(), uuid.New(), []types.ArtifactFile{{Name: "Markdown.md", Content: "x"}})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSlotForName(t *testing.T) {
	cases := []struct {
		name string
		slot string
		ok   bool
	}{
		{"FunctionalDoc.txt", "functional_doc", true},
		{"functionaldoc", "functional_doc", true},
		{"FUNCTIONALDOC.md", "functional_doc", true},
		{"Mockups.md", "mockups", true},
		{" mockups .txt", "mockups", true},
		{"Markdown.md", "markdown_doc", true},
		{"markdown", "markdown_doc", true},
		{"random.txt", "", false},
		{"FunctionalDocs.txt", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		slot, ok := slotForName(tc.name)
		if slot != tc.slot || ok != tc.ok {
			t.Fatalf("slotForName(%q) = %q, %v; want %q, %v", tc.name, slot, ok, tc.slot, tc.ok)
		}
	}
}
