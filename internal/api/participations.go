package api

import (
	"errors"
	"net/http"
	"strconv"

	"bookquest/internal/model"
	"bookquest/internal/service"
	"bookquest/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type participationRoutes struct {
	ps *service.ParticipationService
	a  *auth.JWTAuth
}

func NewParticipationRoutes(handler *gin.RouterGroup, ps *service.ParticipationService, a *auth.JWTAuth) {
	h := &participationRoutes{ps: ps, a: a}

	challenges := handler.Group("/challenges/:id")
	challenges.Use(a.AuthMiddleware())
	{
		challenges.POST("/join", h.JoinChallenge)
		challenges.GET("/participants", h.ListParticipants)
		challenges.GET("/participants/:user_id", h.CheckParticipant)
	}

	participations := handler.Group("/participations")
	participations.Use(a.AuthMiddleware())
	{
		participations.GET("/user/:user_id", h.GetUserParticipations)
		participations.GET("/invites/:user_id", h.ListPendingInvites)
		participations.GET("/:id", h.GetParticipation)
		participations.DELETE("/:id", h.LeaveChallenge)
		participations.PATCH("/:id/invite", h.UpdateInviteStatus)
	}
}

type participationResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      int64     `json:"user_id"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	Status      string    `json:"status"`
}

func toParticipationResponse(participation *model.Participation) participationResponse {
	return participationResponse{
		ID:          participation.ID,
		UserID:      participation.UserID,
		ChallengeID: participation.ChallengeID,
		Status:      string(participation.Status),
	}
}

type participantResponse struct {
	UserID            int64       `json:"user_id"`
	Username          string      `json:"username"`
	CompletedQuests   int         `json:"completed_quests"`
	CompletedQuestIDs []uuid.UUID `json:"completed_quest_ids"`
}

func toParticipantResponses(participants []*model.Participant) []participantResponse {
	responses := make([]participantResponse, len(participants))
	for i, p := range participants {
		responses[i] = participantResponse{
			UserID:            p.UserID,
			Username:          p.Username,
			CompletedQuests:   p.CompletedQuests,
			CompletedQuestIDs: p.CompletedQuestIDs,
		}
	}
	return responses
}

type inviteResponse struct {
	ParticipationID uuid.UUID `json:"participation_id"`
	ChallengeID     uuid.UUID `json:"challenge_id"`
	ChallengeTitle  string    `json:"challenge_title"`
	OwnerUsername   string    `json:"owner_username"`
}

type participationDetailsResponse struct {
	Participation participationResponse `json:"participation"`
	Progress      []progressResponse    `json:"progress"`
}

func toParticipationDetails(details *service.ParticipationDetails) participationDetailsResponse {
	return participationDetailsResponse{
		Participation: toParticipationResponse(details.Participation),
		Progress:      toProgressResponses(details.Progress),
	}
}

func (h *participationRoutes) JoinChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	participation, err := h.ps.JoinChallenge(c.Request.Context(), user.UserID, challengeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, service.ErrAlreadyParticipant):
			c.JSON(http.StatusConflict, gin.H{"error": "already a participant"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toParticipationResponse(participation))
}

func (h *participationRoutes) ListParticipants(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	participants, err := h.ps.ListParticipants(c.Request.Context(), challengeID, user.UserID)
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

	c.JSON(http.StatusOK, toParticipantResponses(participants))
}

func (h *participationRoutes) CheckParticipant(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	isParticipant, err := h.ps.CheckParticipant(c.Request.Context(), userID, challengeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_participant": isParticipant})
}

func (h *participationRoutes) GetUserParticipations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	details, err := h.ps.GetUserParticipations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]participationDetailsResponse, len(details))
	for i, d := range details {
		responses[i] = toParticipationDetails(d)
	}
	c.JSON(http.StatusOK, responses)
}

func (h *participationRoutes) GetParticipation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}

	details, err := h.ps.GetParticipation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrParticipationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "participation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toParticipationDetails(details))
}

func (h *participationRoutes) LeaveChallenge(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}

	if err := h.ps.LeaveChallenge(c.Request.Context(), id, user.UserID); err != nil {
		if errors.Is(err, service.ErrParticipationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "participation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *participationRoutes) ListPendingInvites(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	invites, err := h.ps.ListPendingInvites(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]inviteResponse, len(invites))
	for i, invite := range invites {
		responses[i] = inviteResponse{
			ParticipationID: invite.ParticipationID,
			ChallengeID:     invite.ChallengeID,
			ChallengeTitle:  invite.ChallengeTitle,
			OwnerUsername:   invite.OwnerUsername,
		}
	}
	c.JSON(http.StatusOK, responses)
}

type inviteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *participationRoutes) UpdateInviteStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}

	var req inviteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err = h.ps.UpdateInviteStatus(c.Request.Context(), id, model.ParticipationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "participation not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
