package models

// Appointment status values.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// BookingInput carries everything required to book a slot. Patient identity is
// supplied on every call; no per-session identity is retained.
type BookingInput struct {
	SlotID      int    `json:"slotId"`
	DoctorID    int    `json:"doctorId"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
}

// AppointmentDetails mirrors the backend's appointment_details payload.
type AppointmentDetails struct {
	BookingID string  `json:"booking_id"`
	PatientID string  `json:"patient_id"`
	Doctor    string  `json:"doctor"`
	Hospital  string  `json:"hospital"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Fee       float64 `json:"fee,omitempty"`
}

// BookingConfirmation is returned to the caller after a successful booking.
type BookingConfirmation struct {
	BookingID string             `json:"bookingId"`
	Details   AppointmentDetails `json:"details"`
	Message   string             `json:"message,omitempty"`
}

// Appointment is one appointment-history entry in backend wire format.
type Appointment struct {
	BookingID        string  `json:"booking_id"`
	DoctorName       string  `json:"doctor_name"`
	Specialization   string  `json:"specialization"`
	HospitalName     string  `json:"hospital_name"`
	Location         string  `json:"location"`
	AppointmentDate  string  `json:"appointment_date"`
	AppointmentTime  string  `json:"appointment_time"`
	ConsultationFee  float64 `json:"consultation_fee,omitempty"`
	BookingTimestamp string  `json:"booking_timestamp"`
	Status           string  `json:"status"`
	CancelledAt      string  `json:"cancelled_at,omitempty"`
}
