package handlers

import (
	"errors"
	"net/http"

	"mediquery/services/sharing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SharingHandler exposes prescription share links: generation and redemption.
type SharingHandler struct {
	Shares sharing.ShareService
	Logger *zap.Logger
}

func NewSharingHandler(shares sharing.ShareService, logger *zap.Logger) *SharingHandler {
	return &SharingHandler{Shares: shares, Logger: logger}
}

type generateLinkRequest struct {
	PrescriptionID string `json:"prescriptionId"`
	ExpiryHours    int    `json:"expiryHours"`
	Password       string `json:"password"`
}

// GenerateLink creates a share link for the patient's records.
func (h *SharingHandler) GenerateLink(c *gin.Context) {
	var req generateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	link, err := h.Shares.GenerateLink(c.Request.Context(), req.PrescriptionID, c.Param("patientId"), req.ExpiryHours, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

type redeemRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// RedeemLink resolves a share token or URL. Redemption failures keep their
// distinct statuses so the UI can prompt for a password rather than report a
// dead link.
func (h *SharingHandler) RedeemLink(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	records, err := h.Shares.RedeemLink(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		var redemption *sharing.RedemptionError
		if errors.As(err, &redemption) {
			status := http.StatusNotFound
			switch redemption.Kind {
			case sharing.RedeemWrongPassword:
				status = http.StatusUnauthorized
			case sharing.RedeemExpired:
				status = http.StatusForbidden
			}
			c.JSON(status, gin.H{"error": redemption.Reason, "kind": redemption.Kind})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
