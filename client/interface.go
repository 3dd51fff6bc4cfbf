package client

import (
	"context"
	"io"

	"mediquery/models"
)

// DiagnosisAPI is the typed facade over the remote diagnosis backend. The
// diagnosis engine, OCR engine and all persistence live behind these calls;
// the facade holds no state of its own.
type DiagnosisAPI interface {
	Search(ctx context.Context, query models.SearchQuery) ([]models.DiagnosisMatch, error)
	SubmitFollowUp(ctx context.Context, originalSymptoms string, answers models.FollowUpAnswers) ([]models.DiagnosisMatch, error)

	BookAppointment(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error)
	CancelAppointment(ctx context.Context, bookingID, patientID string) error
	AppointmentHistory(ctx context.Context, patientID string) ([]models.Appointment, error)

	UploadPrescription(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error)
	ListPrescriptions(ctx context.Context, patientID string) ([]models.Prescription, error)
	DownloadPrescription(ctx context.Context, prescriptionID string) (io.ReadCloser, error)
	SearchMedicine(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error)

	GenerateShareLink(ctx context.Context, patientID string, expiryHours int, password string) (*models.ShareLink, error)
	RedeemShareLink(ctx context.Context, token, password string) (*models.SharedRecords, error)

	MedicalTimeline(ctx context.Context, patientID string) ([]models.TimelineEvent, error)
}
