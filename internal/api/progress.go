package api

import (
	"errors"
	"net/http"
	"time"

	"bookquest/internal/model"
	"bookquest/internal/service"
	"bookquest/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type progressRoutes struct {
	ps *service.ProgressService
	a  *auth.JWTAuth
}

func NewProgressRoutes(handler *gin.RouterGroup, ps *service.ProgressService, a *auth.JWTAuth) {
	h := &progressRoutes{ps: ps, a: a}

	progress := handler.Group("/participations/:id/progress")
	progress.Use(a.AuthMiddleware())
	{
		progress.POST("", h.CreateProgress)
		progress.GET("", h.ListProgress)
		progress.GET("/:progress_id", h.GetProgress)
		progress.PATCH("/:progress_id", h.UpdateProgress)
		progress.DELETE("/:progress_id", h.DeleteProgress)
	}
}

type progressResponse struct {
	ID              uuid.UUID  `json:"id"`
	ParticipationID uuid.UUID  `json:"participation_id"`
	QuestID         uuid.UUID  `json:"quest_id"`
	ProgressCount   int        `json:"progress_count"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at"`

	Quest *questResponse `json:"quest,omitempty"`
}

func toProgressResponse(progress *model.QuestProgress) progressResponse {
	resp := progressResponse{
		ID:              progress.ID,
		ParticipationID: progress.ParticipationID,
		QuestID:         progress.QuestID,
		ProgressCount:   progress.ProgressCount,
		Completed:       progress.Completed,
		CompletedAt:     progress.CompletedAt,
	}
	if progress.Quest != nil {
		quest := toQuestResponse(progress.Quest)
		resp.Quest = &quest
	}
	return resp
}

func toProgressResponses(progress []*model.QuestProgress) []progressResponse {
	responses := make([]progressResponse, len(progress))
	for i, p := range progress {
		responses[i] = toProgressResponse(p)
	}
	return responses
}

type createProgressRequest struct {
	QuestID       uuid.UUID `json:"quest_id" binding:"required"`
	ProgressCount int       `json:"progress_count"`
	Completed     bool      `json:"completed"`
}

type updateProgressRequest struct {
	ProgressCount *int  `json:"progress_count"`
	Completed     *bool `json:"completed"`
}

func (h *progressRoutes) CreateProgress(c *gin.Context) {
	participationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}

	var req createProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	progress, err := h.ps.CreateProgress(c.Request.Context(), participationID, req.QuestID, req.ProgressCount, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "participation not found"})
		case errors.Is(err, service.ErrProgressExists):
			c.JSON(http.StatusConflict, gin.H{"error": "progress record already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toProgressResponse(progress))
}

func (h *progressRoutes) ListProgress(c *gin.Context) {
	participationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}

	progress, err := h.ps.ListProgress(c.Request.Context(), participationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProgressResponses(progress))
}

func (h *progressRoutes) GetProgress(c *gin.Context) {
	participationID, progressID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	progress, err := h.ps.GetProgress(c.Request.Context(), progressID, participationID)
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "progress record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProgressResponse(progress))
}

func (h *progressRoutes) UpdateProgress(c *gin.Context) {
	participationID, progressID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.ps.UpdateProgress(c.Request.Context(), progressID, participationID, req.ProgressCount, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgressNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "progress record not found"})
		case errors.Is(err, service.ErrInvalidTargetCount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "progress count must not be negative"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":            toProgressResponse(result.Progress),
		"challenge_completed": result.ChallengeCompleted,
	})
}

func (h *progressRoutes) DeleteProgress(c *gin.Context) {
	participationID, progressID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	if err := h.ps.DeleteProgress(c.Request.Context(), progressID, participationID); err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "progress record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *progressRoutes) parseIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	participationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return uuid.Nil, uuid.Nil, false
	}

	progressID, err := uuid.Parse(c.Param("progress_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress id"})
		return uuid.Nil, uuid.Nil, false
	}

	return participationID, progressID, true
}
