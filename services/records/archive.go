package records

import (
	"context"
	"io"
	"strings"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"

	"go.uber.org/zap"
)

// ArchiveService manages a patient's prescription archive: OCR upload,
// listing, binary download and medicine-name search.
type ArchiveService interface {
	Upload(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error)
	List(ctx context.Context, patientID string) ([]models.Prescription, error)
	Download(ctx context.Context, prescriptionID string) (io.ReadCloser, error)
	SearchMedicine(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error)
}

// DefaultArchiveService implements ArchiveService over the remote facade; the
// OCR engine and all storage live behind it.
type DefaultArchiveService struct {
	API    client.DiagnosisAPI
	Logger *zap.Logger
}

var _ ArchiveService = (*DefaultArchiveService)(nil)

// Upload submits a prescription document and returns the extracted data.
func (s *DefaultArchiveService) Upload(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, utils.NewInputError("file name is required")
	}
	extracted, err := s.API.UploadPrescription(ctx, patientID, filename, file)
	if err != nil {
		return nil, err
	}
	s.logger().Info("Prescription uploaded",
		zap.String("filename", filename),
		zap.Int("medicines", len(extracted.Medicines)))
	return extracted, nil
}

// List returns the patient's prescriptions in server order.
func (s *DefaultArchiveService) List(ctx context.Context, patientID string) ([]models.Prescription, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	return s.API.ListPrescriptions(ctx, patientID)
}

// Download streams the original uploaded file; the caller must close it.
func (s *DefaultArchiveService) Download(ctx context.Context, prescriptionID string) (io.ReadCloser, error) {
	if strings.TrimSpace(prescriptionID) == "" {
		return nil, utils.NewInputError("prescription ID is required")
	}
	return s.API.DownloadPrescription(ctx, prescriptionID)
}

// SearchMedicine finds archive entries mentioning the given medicine.
func (s *DefaultArchiveService) SearchMedicine(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	if strings.TrimSpace(medicineName) == "" {
		return nil, utils.NewInputError("medicine name is required")
	}
	return s.API.SearchMedicine(ctx, patientID, medicineName)
}

func (s *DefaultArchiveService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
