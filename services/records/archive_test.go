package records

import (
	"context"
	"io"
	"strings"
	"testing"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"
)

type stubAPI struct {
	client.DiagnosisAPI
	uploadFn   func(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error)
	listFn     func(ctx context.Context, patientID string) ([]models.Prescription, error)
	downloadFn func(ctx context.Context, prescriptionID string) (io.ReadCloser, error)
	searchFn   func(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error)
}

func (s *stubAPI) UploadPrescription(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error) {
	return s.uploadFn(ctx, patientID, filename, file)
}

func (s *stubAPI) ListPrescriptions(ctx context.Context, patientID string) ([]models.Prescription, error) {
	return s.listFn(ctx, patientID)
}

func (s *stubAPI) DownloadPrescription(ctx context.Context, prescriptionID string) (io.ReadCloser, error) {
	return s.downloadFn(ctx, prescriptionID)
}

func (s *stubAPI) SearchMedicine(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error) {
	return s.searchFn(ctx, patientID, medicineName)
}

func TestUploadReturnsExtraction(t *testing.T) {
	api := &stubAPI{uploadFn: func(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error) {
		body, _ := io.ReadAll(file)
		if string(body) != "fake image bytes" {
			t.Errorf("file content not forwarded: %q", body)
		}
		return &models.OCRData{
			DoctorName: "Dr. Rao",
			Medicines:  []models.Medicine{{Name: "Paracetamol", Dosage: "500mg"}},
			RawText:    "Paracetamol 500mg",
		}, nil
	}}
	svc := &DefaultArchiveService{API: api}

	ocr, err := svc.Upload(context.Background(), "42", "rx.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(ocr.Medicines) != 1 || ocr.Medicines[0].Name != "Paracetamol" {
		t.Fatalf("extraction lost: %+v", ocr)
	}
}

func TestUploadValidation(t *testing.T) {
	svc := &DefaultArchiveService{API: &stubAPI{}}
	if _, err := svc.Upload(context.Background(), " ", "rx.jpg", strings.NewReader("x")); !utils.IsInputError(err) {
		t.Fatalf("expected input error for missing patient, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "42", "", strings.NewReader("x")); !utils.IsInputError(err) {
		t.Fatalf("expected input error for missing filename, got %v", err)
	}
}

func TestDownloadStreamsFile(t *testing.T) {
	api := &stubAPI{downloadFn: func(ctx context.Context, prescriptionID string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("binary")), nil
	}}
	svc := &DefaultArchiveService{API: api}

	rc, err := svc.Download(context.Background(), "p1")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "binary" {
		t.Fatalf("stream content wrong: %q", body)
	}

	if _, err := svc.Download(context.Background(), ""); !utils.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestSearchMedicineValidation(t *testing.T) {
	called := false
	api := &stubAPI{searchFn: func(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error) {
		called = true
		return []models.MedicineHit{{Medicine: models.Medicine{Name: "Ibuprofen"}, Doctor: "Dr. Shah"}}, nil
	}}
	svc := &DefaultArchiveService{API: api}

	if _, err := svc.SearchMedicine(context.Background(), "42", " "); !utils.IsInputError(err) {
		t.Fatalf("expected input error for missing medicine, got %v", err)
	}
	if called {
		t.Fatal("remote call made despite invalid input")
	}

	hits, err := svc.SearchMedicine(context.Background(), "42", "ibuprofen")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Medicine.Name != "Ibuprofen" {
		t.Fatalf("hits lost: %+v", hits)
	}
}
