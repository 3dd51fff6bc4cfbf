package handlers

import (
	"net/http"

	"mediquery/middleware"
	"mediquery/models"
	"mediquery/services/session"
	"mediquery/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the symptom search session over HTTP. Each session
// is a server-side state machine; handlers mutate it and return the
// resulting snapshot so the UI can render without tracking state itself.
type SessionHandler struct {
	Registry *session.Registry
	Logger   *zap.Logger
}

func NewSessionHandler(registry *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{Registry: registry, Logger: logger}
}

func (h *SessionHandler) controller(c *gin.Context) (*session.Controller, bool) {
	ctrl, ok := h.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return ctrl, true
}

// Create starts a new session and returns its id with the initial snapshot.
func (h *SessionHandler) Create(c *gin.Context) {
	id, ctrl := h.Registry.Create()
	h.Logger.Info("Session created", zap.String("sessionId", id))
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": id,
		"snapshot":  ctrl.Snapshot(),
	})
}

// Get returns the current snapshot of a session.
func (h *SessionHandler) Get(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Delete ends a session.
func (h *SessionHandler) Delete(c *gin.Context) {
	h.Registry.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

type locateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Locate resolves the user's position. Explicit coordinates win; otherwise
// the client IP is geolocated.
func (h *SessionHandler) Locate(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req locateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var geo session.Geolocator
	if req.Latitude != nil && req.Longitude != nil {
		geo = session.StaticPosition{Latitude: *req.Latitude, Longitude: *req.Longitude}
	} else {
		geo = &session.IPGeolocator{IP: middleware.ClientIP(c)}
	}

	_, err := ctrl.LocateUser(c.Request.Context(), geo)
	if err != nil {
		if utils.IsInputError(err) {
			respondError(c, err)
			return
		}
		// Geolocation failure is not fatal; the session continues unlocated.
		c.JSON(http.StatusOK, gin.H{"located": false, "snapshot": ctrl.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"located": true, "snapshot": ctrl.Snapshot()})
}

type searchRequest struct {
	Symptoms      string `json:"symptoms"`
	MaxDistanceKm int    `json:"maxDistanceKm"`
}

// Search runs a symptom query and returns the post-search snapshot.
func (h *SessionHandler) Search(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	query := models.SearchQuery{Symptoms: req.Symptoms, MaxDistanceKm: req.MaxDistanceKm}
	if err := ctrl.Search(c.Request.Context(), query); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

type followUpOpenRequest struct {
	Disease string `json:"disease"`
}

// OpenFollowUp begins answering follow-up questions for one disease card.
func (h *SessionHandler) OpenFollowUp(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req followUpOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := ctrl.OpenFollowUp(req.Disease); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

type followUpAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnswerFollowUp records a single follow-up answer.
func (h *SessionHandler) AnswerFollowUp(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req followUpAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := ctrl.AnswerFollowUp(req.Question, req.Answer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

type followUpSubmitRequest struct {
	Answers models.FollowUpAnswers `json:"answers"`
}

// SubmitFollowUp sends the completed answer set for refinement.
func (h *SessionHandler) SubmitFollowUp(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req followUpSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := ctrl.SubmitFollowUp(c.Request.Context(), req.Answers); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Reset clears results and returns the session to its idle state.
func (h *SessionHandler) Reset(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.Reset()
	c.JSON(http.StatusOK, ctrl.Snapshot())
}
