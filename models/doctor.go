package models

// Slot is an appointment slot as last reported by the backend. Presence in a
// doctor's list implies current availability; slots are never cached beyond a
// single render cycle.
type Slot struct {
	SlotID int    `json:"slot_id"`
	Date   string `json:"slot_date"`
	Time   string `json:"slot_time"`
}

// Doctor in backend wire format.
type Doctor struct {
	ID             int     `json:"doctor_id"`
	Name           string  `json:"doctor_name"`
	Hospital       string  `json:"hospital_name"`
	Specialization string  `json:"specialization"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceKm     float64 `json:"distance_km,omitempty"`
	SuccessRate    float64 `json:"success_rate,omitempty"`
	TotalCases     int     `json:"total_cases,omitempty"`
	BaseFee        float64 `json:"base_fee,omitempty"`
	AvailableSlots []Slot  `json:"available_slots,omitempty"`
}
