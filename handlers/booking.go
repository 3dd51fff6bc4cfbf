package handlers

import (
	"net/http"

	"mediquery/client"
	"mediquery/models"
	"mediquery/services/booking"
	"mediquery/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes slot booking, cancellation and history. Booking is
// session-scoped so the session can refresh its slot lists afterwards;
// cancellation and history work standalone.
type BookingHandler struct {
	Registry *session.Registry
	API      client.DiagnosisAPI
	Logger   *zap.Logger
}

func NewBookingHandler(registry *session.Registry, api client.DiagnosisAPI, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Registry: registry, API: api, Logger: logger}
}

func (h *BookingHandler) service(resync booking.Resyncer) booking.BookingService {
	return &booking.DefaultBookingService{API: h.API, Session: resync, Logger: h.Logger}
}

// BookSlot books a slot within a session and returns the confirmation plus
// the refreshed session snapshot.
func (h *BookingHandler) BookSlot(c *gin.Context) {
	ctrl, ok := h.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	confirmation, err := h.service(ctrl).BookSlot(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"confirmation": confirmation,
		"snapshot":     ctrl.Snapshot(),
	})
}

type cancelRequest struct {
	BookingID string `json:"bookingId"`
	PatientID string `json:"patientId"`
}

// CancelAppointment cancels a booking and returns the refreshed history.
func (h *BookingHandler) CancelAppointment(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	appointments, err := h.service(nil).CancelAppointment(c.Request.Context(), req.BookingID, req.PatientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "appointment cancelled",
		"appointments": appointments,
	})
}

// History returns the patient's appointment history.
func (h *BookingHandler) History(c *gin.Context) {
	appointments, err := h.service(nil).History(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}
