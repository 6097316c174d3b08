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

type challengeRoutes struct {
	cs *service.ChallengeService
	a  *auth.JWTAuth
}

func NewChallengeRoutes(handler *gin.RouterGroup, cs *service.ChallengeService, a *auth.JWTAuth) {
	h := &challengeRoutes{cs: cs, a: a}

	challenges := handler.Group("/challenges")
	challenges.Use(a.AuthMiddleware())
	{
		challenges.POST("", h.CreateChallenge)
		challenges.GET("/public", h.GetPublicChallenges)
		challenges.GET("/overview/:user_id", h.GetUserOverview)
		challenges.GET("/:id", h.GetChallenge)
		challenges.PATCH("/:id", h.UpdateChallenge)
		challenges.DELETE("/:id", h.DeleteChallenge)
		challenges.GET("/:id/stats", h.GetChallengeStats)
		challenges.POST("/:id/share", h.ShareChallenge)
	}
}

type challengeResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublic    bool       `json:"is_public"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toChallengeResponse(challenge *model.ReadingChallenge) challengeResponse {
	return challengeResponse{
		ID:          challenge.ID,
		Title:       challenge.Title,
		Description: challenge.Description,
		IsPublic:    challenge.IsPublic,
		StartDate:   challenge.StartDate,
		EndDate:     challenge.EndDate,
		OwnerID:     challenge.OwnerID,
		CreatedAt:   challenge.CreatedAt,
	}
}

func toChallengeResponses(challenges []*model.ReadingChallenge) []challengeResponse {
	responses := make([]challengeResponse, len(challenges))
	for i, challenge := range challenges {
		responses[i] = toChallengeResponse(challenge)
	}
	return responses
}

type challengeOverviewResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	QuestTarget     int       `json:"quest_target"`
	CompletedQuests int       `json:"completed_quests"`
}

func toOverviewResponses(overviews []*model.ChallengeOverview) []challengeOverviewResponse {
	responses := make([]challengeOverviewResponse, len(overviews))
	for i, o := range overviews {
		responses[i] = challengeOverviewResponse{
			ID:              o.ID,
			Title:           o.Title,
			Description:     o.Description,
			QuestTarget:     o.QuestTarget,
			CompletedQuests: o.CompletedQuests,
		}
	}
	return responses
}

type challengeStatsResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	ParticipantsCount    int       `json:"participants_count"`
	CompletedQuests      int       `json:"completed_quests"`
	CompletionPercentage int       `json:"completion_percentage"`
}

type createChallengeRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	IsPublic    bool       `json:"is_public"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updateChallengeRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (h *challengeRoutes) CreateChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.cs.CreateChallenge(c.Request.Context(), &model.ReadingChallenge{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerID:     user.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrInvalidDateOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *challengeRoutes) GetPublicChallenges(c *gin.Context) {
	challenges, err := h.cs.GetPublicChallenges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toChallengeResponses(challenges))
}

func (h *challengeRoutes) GetChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	details, err := h.cs.GetChallengeDetails(c.Request.Context(), id, user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, service.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge":    toChallengeResponse(details.Challenge),
		"quests":       toQuestResponses(details.Quests),
		"participants": toParticipantResponses(details.Participants),
	})
}

func (h *challengeRoutes) GetUserOverview(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	overview, err := h.cs.GetUserChallengeOverview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created":       toOverviewResponses(overview.Created),
		"participating": toOverviewResponses(overview.Participating),
	})
}

func (h *challengeRoutes) UpdateChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	var req updateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge, err := h.cs.UpdateChallenge(c.Request.Context(), id, user.UserID, &model.ReadingChallenge{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the owner may update a challenge"})
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrInvalidDateOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}

func (h *challengeRoutes) DeleteChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	if err := h.cs.DeleteChallenge(c.Request.Context(), id, user.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the owner may delete a challenge"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *challengeRoutes) GetChallengeStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	stats, err := h.cs.GetChallengeStats(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, challengeStatsResponse{
		ID:                   stats.ID,
		Title:                stats.Title,
		ParticipantsCount:    stats.ParticipantsCount,
		CompletedQuests:      stats.CompletedQuests,
		CompletionPercentage: stats.CompletionPercentage,
	})
}

func (h *challengeRoutes) ShareChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	if err := h.cs.ShareChallenge(c.Request.Context(), id, user.UserID); err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "invites sent"})
}
