package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookquest/internal/model"
	"bookquest/internal/service"
	"bookquest/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type questRoutes struct {
	qs *service.QuestService
	a  *auth.JWTAuth
}

func NewQuestRoutes(handler *gin.RouterGroup, qs *service.QuestService, a *auth.JWTAuth) {
	h := &questRoutes{qs: qs, a: a}

	quests := handler.Group("/challenges/:id/quests")
	quests.Use(a.AuthMiddleware())
	{
		quests.POST("", h.CreateQuest)
		quests.GET("", h.ListQuests)
		quests.GET("/:quest_id", h.GetQuest)
		quests.PATCH("/:quest_id", h.UpdateQuest)
		quests.DELETE("/:quest_id", h.DeleteQuest)
	}
}

type questResponse struct {
	ID          uuid.UUID `json:"id"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	Prompt      string    `json:"prompt"`
	Type        string    `json:"type"`
	TargetCount int       `json:"target_count"`
	CreatedAt   time.Time `json:"created_at"`

	Books []questBookResponse `json:"books,omitempty"`
}

func toQuestResponse(quest *model.ChallengeQuest) questResponse {
	resp := questResponse{
		ID:          quest.ID,
		ChallengeID: quest.ChallengeID,
		Prompt:      quest.Prompt,
		Type:        string(quest.Type),
		TargetCount: quest.TargetCount,
		CreatedAt:   quest.CreatedAt,
	}
	if len(quest.Books) > 0 {
		resp.Books = toQuestBookResponses(quest.Books)
	}
	return resp
}

func toQuestResponses(quests []*model.ChallengeQuest) []questResponse {
	responses := make([]questResponse, len(quests))
	for i, quest := range quests {
		responses[i] = toQuestResponse(quest)
	}
	return responses
}

type createQuestRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	Type        string `json:"type" binding:"required"`
	TargetCount int    `json:"target_count"`
}

type updateQuestRequest struct {
	Prompt      *string `json:"prompt"`
	Type        *string `json:"type"`
	TargetCount *int    `json:"target_count"`
}

func (h *questRoutes) CreateQuest(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	var req createQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.qs.CreateQuest(c.Request.Context(), &model.ChallengeQuest{
		ChallengeID: challengeID,
		Prompt:      req.Prompt,
		Type:        model.QuestType(req.Type),
		TargetCount: req.TargetCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, service.ErrPromptRequired), errors.Is(err, service.ErrInvalidQuestType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *questRoutes) ListQuests(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.qs.ListQuests(c.Request.Context(), challengeID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quests":       toQuestResponses(result.Quests),
		"total_quests": result.TotalQuests,
		"total_pages":  result.TotalPages,
		"current_page": result.CurrentPage,
	})
}

func (h *questRoutes) GetQuest(c *gin.Context) {
	challengeID, questID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	quest, err := h.qs.GetQuest(c.Request.Context(), challengeID, questID)
	if err != nil {
		if errors.Is(err, service.ErrQuestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toQuestResponse(quest))
}

func (h *questRoutes) UpdateQuest(c *gin.Context) {
	challengeID, questID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	var req updateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := &service.QuestUpdate{
		Prompt:      req.Prompt,
		TargetCount: req.TargetCount,
	}
	if req.Type != nil {
		questType := model.QuestType(*req.Type)
		update.Type = &questType
	}

	quest, err := h.qs.UpdateQuest(c.Request.Context(), challengeID, questID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
		case errors.Is(err, service.ErrPromptRequired),
			errors.Is(err, service.ErrInvalidQuestType),
			errors.Is(err, service.ErrInvalidTargetCount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toQuestResponse(quest))
}

func (h *questRoutes) DeleteQuest(c *gin.Context) {
	challengeID, questID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	if err := h.qs.DeleteQuest(c.Request.Context(), challengeID, questID); err != nil {
		if errors.Is(err, service.ErrQuestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *questRoutes) parseIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return uuid.Nil, uuid.Nil, false
	}

	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return uuid.Nil, uuid.Nil, false
	}

	return challengeID, questID, true
}
