package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mediquery/models"

	"go.uber.org/zap"
)

// Client implements DiagnosisAPI over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ DiagnosisAPI = (*Client)(nil)

// numericID converts a patient/slot identifier to a number when possible. The
// backend stores patient ids as integers but the identifier itself is
// unauthenticated free text, so non-numeric values are passed through and left
// for the server to reject.
func numericID(id string) any {
	if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
		return n
	}
	return id
}

func (c *Client) Search(ctx context.Context, query models.SearchQuery) ([]models.DiagnosisMatch, error) {
	body := map[string]any{
		"symptoms":        query.Symptoms,
		"max_distance_km": query.MaxDistanceKm,
	}
	if query.Location != nil {
		body["latitude"] = query.Location.Latitude
		body["longitude"] = query.Location.Longitude
	}
	var out struct {
		Matches []models.DiagnosisMatch `json:"matches"`
		Message string                  `json:"message"`
	}
	if err := c.postJSON(ctx, "/search", body, &out); err != nil {
		return nil, err
	}
	// A "no matching disease" reply comes back as a message with no matches.
	return out.Matches, nil
}

func (c *Client) SubmitFollowUp(ctx context.Context, originalSymptoms string, answers models.FollowUpAnswers) ([]models.DiagnosisMatch, error) {
	body := map[string]any{
		"original_symptoms": originalSymptoms,
		"follow_up_answers": answers,
	}
	var out struct {
		RefinedMatches []models.DiagnosisMatch `json:"refined_matches"`
	}
	if err := c.postJSON(ctx, "/submit-followup", body, &out); err != nil {
		return nil, err
	}
	return out.RefinedMatches, nil
}

func (c *Client) BookAppointment(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error) {
	body := map[string]any{
		"slot_id":      in.SlotID,
		"patient_id":   numericID(in.PatientID),
		"patient_name": in.PatientName,
	}
	var out struct {
		Success            bool                      `json:"success"`
		Message            string                    `json:"message"`
		BookingID          string                    `json:"booking_id"`
		AppointmentDetails models.AppointmentDetails `json:"appointment_details"`
	}
	if err := c.postJSON(ctx, "/book-appointment", body, &out); err != nil {
		return nil, err
	}
	return &models.BookingConfirmation{
		BookingID: out.BookingID,
		Details:   out.AppointmentDetails,
		Message:   out.Message,
	}, nil
}

func (c *Client) CancelAppointment(ctx context.Context, bookingID, patientID string) error {
	body := map[string]any{
		"booking_id": bookingID,
		"patient_id": numericID(patientID),
	}
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	return c.postJSON(ctx, "/cancel-appointment", body, &out)
}

func (c *Client) AppointmentHistory(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var out struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	if err := c.getJSON(ctx, "/appointment-history/"+patientID, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

func (c *Client) UploadPrescription(ctx context.Context, patientID, filename string, file io.Reader) (*models.OCRData, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read prescription file: %w", err)
	}
	if err := mw.WriteField("patient_id", patientID); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-prescription", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Success       bool           `json:"success"`
		Message       string         `json:"message"`
		ExtractedData models.OCRData `json:"extracted_data"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out.ExtractedData, nil
}

func (c *Client) ListPrescriptions(ctx context.Context, patientID string) ([]models.Prescription, error) {
	var out struct {
		Prescriptions []models.Prescription `json:"prescriptions"`
	}
	if err := c.getJSON(ctx, "/prescriptions/"+patientID, &out); err != nil {
		return nil, err
	}
	return out.Prescriptions, nil
}

// DownloadPrescription streams the original uploaded file. The caller owns the
// returned reader and must close it.
func (c *Client) DownloadPrescription(ctx context.Context, prescriptionID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download-prescription/"+prescriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download prescription: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

func (c *Client) SearchMedicine(ctx context.Context, patientID, medicineName string) ([]models.MedicineHit, error) {
	body := map[string]any{"medicine_name": medicineName}
	var out struct {
		Results []models.MedicineHit `json:"results"`
		Count   int                  `json:"count"`
	}
	if err := c.postJSON(ctx, "/search-medicine/"+patientID, body, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) GenerateShareLink(ctx context.Context, patientID string, expiryHours int, password string) (*models.ShareLink, error) {
	body := map[string]any{"expiry_hours": expiryHours}
	if password != "" {
		body["password"] = password
	}
	var out struct {
		Success          bool   `json:"success"`
		ShareURL         string `json:"share_url"`
		ExpiresAt        string `json:"expires_at"`
		RequiresPassword bool   `json:"requires_password"`
	}
	if err := c.postJSON(ctx, "/generate-share-link/"+patientID, body, &out); err != nil {
		return nil, err
	}
	return &models.ShareLink{
		ShareURL:         out.ShareURL,
		ExpiresAt:        out.ExpiresAt,
		RequiresPassword: out.RequiresPassword,
	}, nil
}

func (c *Client) RedeemShareLink(ctx context.Context, token, password string) (*models.SharedRecords, error) {
	body := map[string]any{}
	if password != "" {
		body["password"] = password
	}
	var out struct {
		Success         bool                  `json:"success"`
		Prescriptions   []models.Prescription `json:"prescriptions"`
		AccessExpiresAt string                `json:"access_expires_at"`
	}
	if err := c.postJSON(ctx, "/view-shared/"+token, body, &out); err != nil {
		return nil, err
	}
	return &models.SharedRecords{
		Prescriptions:   out.Prescriptions,
		AccessExpiresAt: out.AccessExpiresAt,
	}, nil
}

func (c *Client) MedicalTimeline(ctx context.Context, patientID string) ([]models.TimelineEvent, error) {
	var out struct {
		Timeline []models.TimelineEvent `json:"timeline"`
	}
	if err := c.getJSON(ctx, "/medical-timeline/"+patientID, &out); err != nil {
		return nil, err
	}
	return out.Timeline, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp)
		if c.logger != nil {
			c.logger.Warn("Backend rejected request",
				zap.String("path", req.URL.Path),
				zap.Int("status", resp.StatusCode),
				zap.Error(apiErr))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// decodeError turns a non-2xx reply into an *APIError when the body carries a
// server-supplied reason, and a bare transport error otherwise.
func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Reason: payload.Error}
}
