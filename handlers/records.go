package handlers

import (
	"io"
	"net/http"

	"mediquery/services/records"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordsHandler exposes the prescription archive: upload with OCR
// extraction, listing, file download and medicine search.
type RecordsHandler struct {
	Archive records.ArchiveService
	Logger  *zap.Logger
}

func NewRecordsHandler(archive records.ArchiveService, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{Archive: archive, Logger: logger}
}

// Upload accepts a multipart prescription file and returns the extracted
// OCR data.
func (h *RecordsHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prescription file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	ocr, err := h.Archive.Upload(c.Request.Context(), c.Param("patientId"), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "prescription uploaded",
		"ocrData": ocr,
	})
}

// List returns all prescriptions for a patient.
func (h *RecordsHandler) List(c *gin.Context) {
	prescriptions, err := h.Archive.List(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions})
}

// Download streams the stored prescription file back to the caller.
func (h *RecordsHandler) Download(c *gin.Context) {
	rc, err := h.Archive.Download(c.Request.Context(), c.Param("prescriptionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.Logger.Warn("Prescription download interrupted", zap.Error(err))
	}
}

// SearchMedicine scans the patient's prescriptions for a medicine name.
func (h *RecordsHandler) SearchMedicine(c *gin.Context) {
	hits, err := h.Archive.SearchMedicine(c.Request.Context(), c.Param("patientId"), c.Query("medicine"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits})
}
