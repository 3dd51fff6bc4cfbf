package handlers

import (
	"net/http"

	"mediquery/services/timeline"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimelineHandler serves the patient's medical timeline.
type TimelineHandler struct {
	Timeline timeline.TimelineService
	Logger   *zap.Logger
}

func NewTimelineHandler(tl timeline.TimelineService, logger *zap.Logger) *TimelineHandler {
	return &TimelineHandler{Timeline: tl, Logger: logger}
}

// Get returns the patient's timeline cards in server order.
func (h *TimelineHandler) Get(c *gin.Context) {
	cards, err := h.Timeline.BuildTimeline(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": cards})
}
