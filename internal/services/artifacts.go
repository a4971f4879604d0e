package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Khushv4/fireApp/internal/clients/openai"
	"github.com/Khushv4/fireApp/internal/data/repos"
	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/platform/logger"
	"github.com/Khushv4/fireApp/internal/types"
)

const generateSystemPrompt = "You are a helpful assistant that turns meeting summaries into functional docs, mockups, and markdown."

// The three generated drafts, in the order the editor presents them.
var draftKinds = []struct {
	Name   string
	Prompt string
}{
	{"FunctionalDoc.txt", "Here is the meeting summary:\n\n%s\n\nPlease generate a functional document for it."},
	{"Mockups.txt", "Here is the meeting summary:\n\n%s\n\nPlease generate mockup descriptions for it."},
	{"Markdown.md", "Here is the meeting summary:\n\n%s\n\nPlease generate a markdown version of it."},
}

type ArtifactService interface {
	Generate(ctx context.Context, summary string) ([]types.ArtifactFile, error)
	Save(ctx context.Context, meetingID uuid.UUID, files []types.ArtifactFile) error
}

type artifactService struct {
	db          *gorm.DB
	log         *logger.Logger
	meetingRepo repos.MeetingRepo
	ai          openai.Client
}

func NewArtifactService(db *gorm.DB, baseLog *logger.Logger, meetingRepo repos.MeetingRepo, ai openai.Client) ArtifactService {
	return &artifactService{
		db:          db,
		log:         baseLog.With("service", "ArtifactService"),
		meetingRepo: meetingRepo,
		ai:          ai,
	}
}

// Generate produces exactly three ordered drafts from one summary:
// functional document, mockup descriptions, markdown version.
func (s *artifactService) Generate(ctx context.Context, summary string) ([]types.ArtifactFile, error) {
	files := make([]types.ArtifactFile, 0, len(draftKinds))
	for _, kind := range draftKinds {
		content, err := s.ai.GenerateText(ctx, generateSystemPrompt, fmt.Sprintf(kind.Prompt, summary))
		if err != nil {
			return nil, apierr.UpstreamUnavailable(0, fmt.Errorf("generating %s: %w", kind.Name, err))
		}
		files = append(files, types.ArtifactFile{Name: kind.Name, Content: content})
	}
	return files, nil
}

// Save writes edited artifacts onto an existing meeting. Recognized names
// land in their slot columns; the full submitted set is always serialized
// into the snapshot so unconventionally named content survives too.
func (s *artifactService) Save(ctx context.Context, meetingID uuid.UUID, files []types.ArtifactFile) error {
	m, err := s.meetingRepo.GetByID(ctx, nil, meetingID)
	if err != nil {
		return apierr.PersistenceFailed(err)
	}
	if m == nil {
		return apierr.NotFound(fmt.Errorf("meeting %s not found", meetingID))
	}

	slots := map[string]string{}
	for _, f := range files {
		if column, ok := slotForName(f.Name); ok {
			slots[column] = f.Content
		} else {
			s.log.Debug("Artifact name matched no slot, kept in snapshot only", "name", f.Name)
		}
	}

	snapshot, err := json.Marshal(files)
	if err != nil {
		return apierr.PersistenceFailed(fmt.Errorf("serializing artifact snapshot: %w", err))
	}

	affected, err := s.meetingRepo.UpdateArtifacts(ctx, nil, meetingID, slots, datatypes.JSON(snapshot))
	if err != nil {
		return apierr.PersistenceFailed(err)
	}
	if affected == 0 {
		return apierr.NotFound(fmt.Errorf("meeting %s not found", meetingID))
	}
	return nil
}

// slotForName maps an artifact file name to its column: case-insensitive,
// file extension stripped, matched against the three fixed slot names. The
// editing UI round-trips slot identity through these names, so the rule is
// isolated here and must not loosen or tighten.
func slotForName(name string) (string, bool) {
	base := strings.TrimSuffix(name, path.Ext(name))
	switch strings.ToLower(strings.TrimSpace(base)) {
	case "functionaldoc":
		return "functional_doc", true
	case "mockups":
		return "mockups", true
	case "markdown":
		return "markdown_doc", true
	default:
		return "", false
	}
}
