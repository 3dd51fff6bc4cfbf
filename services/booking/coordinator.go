package booking

import (
	"context"
	"strings"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"

	"go.uber.org/zap"
)

// Resyncer re-runs the owning session's last successful search. Satisfied by
// the session controller.
type Resyncer interface {
	Resync(ctx context.Context) error
}

// BookingService defines slot booking and cancellation.
type BookingService interface {
	BookSlot(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error)
	CancelAppointment(ctx context.Context, bookingID, patientID string) ([]models.Appointment, error)
	History(ctx context.Context, patientID string) ([]models.Appointment, error)
}

// DefaultBookingService implements BookingService. Slot availability is
// authoritative only on the server, so after a successful booking the session
// re-runs its last query instead of patching slot lists locally; the freshly
// booked slot then disappears from every doctor's list without the client
// guessing which entries changed.
type DefaultBookingService struct {
	API     client.DiagnosisAPI
	Session Resyncer
	Logger  *zap.Logger
}

var _ BookingService = (*DefaultBookingService)(nil)

// BookSlot books one appointment slot. A missing patient ID is rejected
// before any remote call; booking failures are returned with the server's
// reason and mutate nothing.
func (s *DefaultBookingService) BookSlot(ctx context.Context, in models.BookingInput) (*models.BookingConfirmation, error) {
	if strings.TrimSpace(in.PatientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	if in.PatientName == "" {
		in.PatientName = "Guest Patient"
	}

	confirmation, err := s.API.BookAppointment(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger().Info("Appointment booked",
		zap.String("bookingId", confirmation.BookingID),
		zap.Int("slotId", in.SlotID))

	if s.Session != nil {
		// Refresh the displayed slot lists; a failed refresh does not undo
		// the booking.
		if err := s.Session.Resync(ctx); err != nil {
			s.logger().Warn("Post-booking resync failed", zap.Error(err))
		}
	}
	return confirmation, nil
}

// CancelAppointment cancels a booking and returns the refreshed appointment
// list. Cancelling an already-cancelled booking is reported by the server as
// an error, never silently accepted.
func (s *DefaultBookingService) CancelAppointment(ctx context.Context, bookingID, patientID string) ([]models.Appointment, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	if strings.TrimSpace(bookingID) == "" {
		return nil, utils.NewInputError("booking ID is required")
	}

	if err := s.API.CancelAppointment(ctx, bookingID, patientID); err != nil {
		return nil, err
	}
	s.logger().Info("Appointment cancelled", zap.String("bookingId", bookingID))

	appointments, err := s.API.AppointmentHistory(ctx, patientID)
	if err != nil {
		// The cancellation itself succeeded; surface the refresh failure.
		s.logger().Warn("Appointment list refresh failed", zap.Error(err))
		return nil, err
	}
	return appointments, nil
}

// History fetches the patient's appointment history.
func (s *DefaultBookingService) History(ctx context.Context, patientID string) ([]models.Appointment, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	return s.API.AppointmentHistory(ctx, patientID)
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
