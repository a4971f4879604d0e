package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Khushv4/fireApp/internal/http/response"
	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/services"
	"github.com/Khushv4/fireApp/internal/types"
)

type saveFilesRequest struct {
	MeetingID string               `json:"meeting_id"`
	Files     []types.ArtifactFile `json:"files"`
}

func (r saveFilesRequest) meetingUUID() (uuid.UUID, error) {
	if strings.TrimSpace(r.MeetingID) == "" {
		return uuid.Nil, fmt.Errorf("meeting_id is required")
	}
	id, err := uuid.Parse(r.MeetingID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid meeting_id: %w", err)
	}
	return id, nil
}

type ExternalHandler struct {
	syncService     services.SyncService
	artifactService services.ArtifactService
}

func NewExternalHandler(syncService services.SyncService, artifactService services.ArtifactService) *ExternalHandler {
	return &ExternalHandler{
		syncService:     syncService,
		artifactService: artifactService,
	}
}

// GET /api/external/meetings?limit=25
func (eh *ExternalHandler) ListMeetings(c *gin.Context) {
	limit := 25
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	transcripts, err := eh.syncService.ListUpstream(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, transcripts)
}

// GET /api/external/meetings/:id — read-through: cached record on hit,
// fetch-persist-and-return on miss.
func (eh *ExternalHandler) GetMeeting(c *gin.Context) {
	payload, err := eh.syncService.GetMeeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, payload)
}

// POST /api/external/meetings/:id/sync — always fetch upstream and upsert,
// returning the durable ids.
func (eh *ExternalHandler) SyncMeeting(c *gin.Context) {
	result, err := eh.syncService.SyncMeeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// POST /api/external/generate-files
// body: { "summary": "..." }
func (eh *ExternalHandler) GenerateFiles(c *gin.Context) {
	var req struct {
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed, err)
		return
	}

	files, err := eh.artifactService.Generate(c.Request.Context(), req.Summary)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, files)
}

// POST /api/external/save-files
// body: { "meeting_id": "...", "files": [{ "name": "...", "content": "..." }] }
func (eh *ExternalHandler) SaveFiles(c *gin.Context) {
	var req saveFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed, err)
		return
	}

	id, err := req.meetingUUID()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed, err)
		return
	}

	if err := eh.artifactService.Save(c.Request.Context(), id, req.Files); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
