package booking

import (
	"context"
	"errors"
	"testing"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"
)

type stubAPI struct {
	client.DiagnosisAPI
	bookFn    func(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error)
	cancelFn  func(ctx context.Context, bookingID, patientID string) error
	historyFn func(ctx context.Context, patientID string) ([]models.Appointment, error)
}

func (s *stubAPI) BookAppointment(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error) {
	return s.bookFn(ctx, in)
}

func (s *stubAPI) CancelAppointment(ctx context.Context, bookingID, patientID string) error {
	return s.cancelFn(ctx, bookingID, patientID)
}

func (s *stubAPI) AppointmentHistory(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.historyFn(ctx, patientID)
}

type countingResyncer struct {
	calls int
	err   error
}

func (r *countingResyncer) Resync(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestBookSlotRequiresPatientID(t *testing.T) {
	svc := &DefaultBookingService{API: &stubAPI{}}
	_, err := svc.BookSlot(context.Background(), models.BookingInput{SlotID: 3})
	if err == nil || !utils.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestBookSlotResyncsExactlyOnce(t *testing.T) {
	var booked models.BookingInput
	api := &stubAPI{bookFn: func(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error) {
		booked = in
		return &models.BookingConfirmation{BookingID: "66f1a2b3c4d5e6f7a8b9c0d1"}, nil
	}}
	resyncer := &countingResyncer{}
	svc := &DefaultBookingService{API: api, Session: resyncer}

	confirmation, err := svc.BookSlot(context.Background(), models.BookingInput{SlotID: 3, DoctorID: 1, PatientID: "42"})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if confirmation.BookingID != "66f1a2b3c4d5e6f7a8b9c0d1" {
		t.Fatalf("unexpected booking id %q", confirmation.BookingID)
	}
	if booked.PatientName != "Guest Patient" {
		t.Fatalf("missing name must default, got %q", booked.PatientName)
	}
	if resyncer.calls != 1 {
		t.Fatalf("expected exactly one resync, got %d", resyncer.calls)
	}
}

func TestBookSlotFailureDoesNotResync(t *testing.T) {
	api := &stubAPI{bookFn: func(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error) {
		return nil, &client.APIError{StatusCode: 404, Reason: "Slot not found or already booked"}
	}}
	resyncer := &countingResyncer{}
	svc := &DefaultBookingService{API: api, Session: resyncer}

	_, err := svc.BookSlot(context.Background(), models.BookingInput{SlotID: 3, PatientID: "42"})
	if err == nil {
		t.Fatal("expected booking failure")
	}
	if apiErr, ok := client.AsAPIError(err); !ok || apiErr.Reason != "Slot not found or already booked" {
		t.Fatalf("server reason lost: %v", err)
	}
	if resyncer.calls != 0 {
		t.Fatalf("failed booking must not resync, got %d", resyncer.calls)
	}
}

func TestBookSlotSurvivesFailedResync(t *testing.T) {
	api := &stubAPI{bookFn: func(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error) {
		return &models.BookingConfirmation{BookingID: "abc"}, nil
	}}
	resyncer := &countingResyncer{err: errors.New("backend down")}
	svc := &DefaultBookingService{API: api, Session: resyncer}

	confirmation, err := svc.BookSlot(context.Background(), models.BookingInput{SlotID: 1, PatientID: "42"})
	if err != nil {
		t.Fatalf("a failed refresh must not fail the booking: %v", err)
	}
	if confirmation == nil {
		t.Fatal("confirmation lost")
	}
}

func TestCancelAppointmentRefreshesHistory(t *testing.T) {
	cancelled := false
	api := &stubAPI{
		cancelFn: func(ctx context.Context, bookingID, patientID string) error {
			cancelled = true
			return nil
		},
		historyFn: func(ctx context.Context, patientID string) ([]models.Appointment, error) {
			return []models.Appointment{{BookingID: "abc", Status: models.StatusCancelled}}, nil
		},
	}
	svc := &DefaultBookingService{API: api}

	appointments, err := svc.CancelAppointment(context.Background(), "abc", "42")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !cancelled {
		t.Fatal("cancel never reached the backend")
	}
	if len(appointments) != 1 || appointments[0].Status != models.StatusCancelled {
		t.Fatalf("refreshed history not returned: %+v", appointments)
	}
}

func TestCancelAlreadyCancelledSurfacesError(t *testing.T) {
	api := &stubAPI{cancelFn: func(ctx context.Context, bookingID, patientID string) error {
		return &client.APIError{StatusCode: 400, Reason: "Appointment already cancelled"}
	}}
	svc := &DefaultBookingService{API: api}

	_, err := svc.CancelAppointment(context.Background(), "abc", "42")
	if err == nil {
		t.Fatal("double cancellation must not be silently accepted")
	}
}

func TestCancelValidation(t *testing.T) {
	svc := &DefaultBookingService{API: &stubAPI{}}
	if _, err := svc.CancelAppointment(context.Background(), "", "42"); !utils.IsInputError(err) {
		t.Fatalf("expected input error for missing booking id, got %v", err)
	}
	if _, err := svc.CancelAppointment(context.Background(), "abc", " "); !utils.IsInputError(err) {
		t.Fatalf("expected input error for missing patient id, got %v", err)
	}
}
