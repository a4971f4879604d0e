package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Khushv4/fireApp/internal/http/response"
	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/services"
)

type MeetingHandler struct {
	meetingService services.MeetingService
}

func NewMeetingHandler(meetingService services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// GET /api/meetings
func (mh *MeetingHandler) List(c *gin.Context) {
	items, err := mh.meetingService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, items)
}

// GET /api/meetings/:id
func (mh *MeetingHandler) GetByID(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}
	m, err := mh.meetingService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, m)
}

// POST /api/meetings/upsert
// body: { "external_id": "...", "title"?, "meeting_date"?, "duration_seconds"?, "transcript_json"?, "summary"? }
func (mh *MeetingHandler) Upsert(c *gin.Context) {
	var req services.UpsertMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed, err)
		return
	}

	result, err := mh.meetingService.Upsert(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// PUT /api/meetings/:id/summary
// body: { "summary": "..." }
func (mh *MeetingHandler) UpdateSummary(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	var req struct {
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed, err)
		return
	}

	if err := mh.meetingService.UpdateSummary(c.Request.Context(), id, req.Summary); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/meetings/:id/download-summary
func (mh *MeetingHandler) DownloadSummary(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	body, err := mh.meetingService.SummaryFile(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="summary.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// POST /api/meetings/:id/generate-summary
func (mh *MeetingHandler) GenerateSummary(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	text, err := mh.meetingService.GenerateSummary(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ai_summary": text})
}

func meetingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("invalid meeting id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}
