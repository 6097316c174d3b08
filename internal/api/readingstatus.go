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

type readingStatusRoutes struct {
	rs *service.ReadingStatusService
	a  *auth.JWTAuth
}

func NewReadingStatusRoutes(handler *gin.RouterGroup, rs *service.ReadingStatusService, a *auth.JWTAuth) {
	h := &readingStatusRoutes{rs: rs, a: a}

	statuses := handler.Group("/reading-statuses")
	statuses.Use(a.AuthMiddleware())
	{
		statuses.POST("", h.CreateStatus)
		statuses.GET("/user/:user_id", h.ListUserStatuses)
		statuses.GET("/user/:user_id/book/:book_id", h.GetStatusByBook)
		statuses.GET("/:id", h.GetStatus)
		statuses.PATCH("/:id/status", h.UpdateStatus)
		statuses.PATCH("/:id/start-date", h.UpdateStartDate)
		statuses.PATCH("/:id/finish-date", h.UpdateFinishDate)
		statuses.PATCH("/:id/page-counter", h.UpdatePageCounter)
		statuses.PATCH("/:id/pages", h.UpdatePages)
		statuses.DELETE("/:id", h.DeleteStatus)
	}
}

type readingStatusResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int64      `json:"user_id"`
	BookID      int64      `json:"book_id"`
	Status      string     `json:"status"`
	Pages       int        `json:"pages"`
	PageCounter int        `json:"page_counter"`
	StartDate   *time.Time `json:"start_date"`
	FinishDate  *time.Time `json:"finish_date"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toReadingStatusResponse(status *model.ReadingStatus) readingStatusResponse {
	return readingStatusResponse{
		ID:          status.ID,
		UserID:      status.UserID,
		BookID:      status.BookID,
		Status:      string(status.Status),
		Pages:       status.Pages,
		PageCounter: status.PageCounter,
		StartDate:   status.StartDate,
		FinishDate:  status.FinishDate,
		UpdatedAt:   status.UpdatedAt,
	}
}

type shelfEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	BookID        int64     `json:"book_id"`
	Status        string    `json:"status"`
	Title         string    `json:"title"`
	GoogleBooksID string    `json:"google_books_id"`
	Pages         int       `json:"pages"`
	PageCounter   int       `json:"page_counter"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type createStatusRequest struct {
	BookID int64  `json:"book_id" binding:"required"`
	Status string `json:"status" binding:"required"`
	Pages  int    `json:"pages"`
}

func (h *readingStatusRoutes) CreateStatus(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.rs.CreateReadingStatus(c.Request.Context(), user.UserID, req.BookID,
		model.ReadingState(req.Status), req.Pages)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrInvalidReadingState):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toReadingStatusResponse(status))
}

func (h *readingStatusRoutes) GetStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	status, err := h.rs.GetReadingStatus(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

func (h *readingStatusRoutes) ListUserStatuses(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	statuses, err := h.rs.ListUserReadingStatuses(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]shelfEntryResponse, len(statuses))
	for i, status := range statuses {
		responses[i] = shelfEntryResponse{
			ID:            status.ID,
			BookID:        status.BookID,
			Status:        string(status.Status),
			Title:         status.Title,
			GoogleBooksID: status.GoogleBooksID,
			Pages:         status.Pages,
			PageCounter:   status.PageCounter,
			UpdatedAt:     status.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, responses)
}

func (h *readingStatusRoutes) GetStatusByBook(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
		return
	}

	status, err := h.rs.GetReadingStatusByBook(c.Request.Context(), userID, bookID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

type updateStateRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *readingStatusRoutes) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.rs.UpdateStatus(c.Request.Context(), id, model.ReadingState(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

type updateDateRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

func (h *readingStatusRoutes) UpdateStartDate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.rs.UpdateStartDate(c.Request.Context(), id, req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

func (h *readingStatusRoutes) UpdateFinishDate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.rs.UpdateFinishDate(c.Request.Context(), id, req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

type updateCounterRequest struct {
	Value int `json:"value"`
}

func (h *readingStatusRoutes) UpdatePageCounter(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.rs.UpdatePageCounter(c.Request.Context(), id, req.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

func (h *readingStatusRoutes) UpdatePages(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.rs.UpdatePages(c.Request.Context(), id, req.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReadingStatusResponse(status))
}

func (h *readingStatusRoutes) DeleteStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.rs.DeleteReadingStatus(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *readingStatusRoutes) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reading status id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *readingStatusRoutes) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReadingStatusNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reading status not found"})
	case errors.Is(err, service.ErrInvalidReadingState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
