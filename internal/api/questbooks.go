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

type questBookRoutes struct {
	qbs *service.QuestBookService
	a   *auth.JWTAuth
}

func NewQuestBookRoutes(handler *gin.RouterGroup, qbs *service.QuestBookService, a *auth.JWTAuth) {
	h := &questBookRoutes{qbs: qbs, a: a}

	books := handler.Group("/quests/:quest_id/books")
	books.Use(a.AuthMiddleware())
	{
		books.POST("", h.AddBook)
		books.GET("", h.ListBooks)
		books.GET("/:id", h.GetBook)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.RemoveBook)
	}
}

type questBookResponse struct {
	ID       uuid.UUID  `json:"id"`
	QuestID  uuid.UUID  `json:"quest_id"`
	BookID   int64      `json:"book_id"`
	AddedBy  int64      `json:"added_by"`
	Status   string     `json:"status"`
	ReadDate *time.Time `json:"read_date"`
	AddedAt  time.Time  `json:"added_at"`

	Book *bookSummaryResponse `json:"book,omitempty"`
	User *userSummaryResponse `json:"user,omitempty"`
}

type bookSummaryResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	GoogleBooksID string `json:"google_books_id"`
}

type userSummaryResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func toQuestBookResponse(qb *model.QuestBook) questBookResponse {
	resp := questBookResponse{
		ID:       qb.ID,
		QuestID:  qb.QuestID,
		BookID:   qb.BookID,
		AddedBy:  qb.AddedBy,
		Status:   string(qb.Status),
		ReadDate: qb.ReadDate,
		AddedAt:  qb.AddedAt,
	}
	if qb.Book != nil {
		resp.Book = &bookSummaryResponse{
			ID:            qb.Book.ID,
			Title:         qb.Book.Title,
			GoogleBooksID: qb.Book.GoogleBooksID,
		}
	}
	if qb.User != nil {
		resp.User = &userSummaryResponse{
			ID:       qb.User.ID,
			Username: qb.User.Username,
		}
	}
	return resp
}

func toQuestBookResponses(questBooks []*model.QuestBook) []questBookResponse {
	responses := make([]questBookResponse, len(questBooks))
	for i, qb := range questBooks {
		responses[i] = toQuestBookResponse(qb)
	}
	return responses
}

type addQuestBookRequest struct {
	BookID   int64      `json:"book_id" binding:"required"`
	Status   string     `json:"status"`
	ReadDate *time.Time `json:"read_date"`
}

type updateQuestBookRequest struct {
	Status   *string    `json:"status"`
	ReadDate *time.Time `json:"read_date"`
}

func (h *questBookRoutes) AddBook(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return
	}

	var req addQuestBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	questBook, err := h.qbs.AddBookToQuest(c.Request.Context(), questID, user.UserID, req.BookID,
		model.QuestBookStatus(req.Status), req.ReadDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrBookAlreadyAdded):
			c.JSON(http.StatusConflict, gin.H{"error": "book already added to this quest"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toQuestBookResponse(questBook))
}

func (h *questBookRoutes) ListBooks(c *gin.Context) {
	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return
	}

	var addedBy *int64
	if raw := c.Query("added_by"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid added_by"})
			return
		}
		addedBy = &id
	}

	books, err := h.qbs.ListQuestBooks(c.Request.Context(), questID, addedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toQuestBookResponses(books))
}

func (h *questBookRoutes) GetBook(c *gin.Context) {
	id, questID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	questBook, err := h.qbs.GetQuestBook(c.Request.Context(), id, questID)
	if err != nil {
		if errors.Is(err, service.ErrQuestBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quest book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toQuestBookResponse(questBook))
}

func (h *questBookRoutes) UpdateBook(c *gin.Context) {
	id, questID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	var req updateQuestBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var status *model.QuestBookStatus
	if req.Status != nil {
		s := model.QuestBookStatus(*req.Status)
		status = &s
	}

	questBook, err := h.qbs.UpdateQuestBook(c.Request.Context(), id, questID, status, req.ReadDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "quest book not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toQuestBookResponse(questBook))
}

func (h *questBookRoutes) RemoveBook(c *gin.Context) {
	id, questID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	if err := h.qbs.RemoveBookFromQuest(c.Request.Context(), id, questID); err != nil {
		if errors.Is(err, service.ErrQuestBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quest book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *questBookRoutes) parseIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest book id"})
		return uuid.Nil, uuid.Nil, false
	}

	return id, questID, true
}
