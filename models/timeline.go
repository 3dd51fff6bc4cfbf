package models

// Timeline event tags the backend is known to emit. Unknown tags are rendered
// without an icon rather than failing the feed.
const (
	EventPrescription = "prescription"
	EventAppointment  = "appointment"
)

// TimelineEvent is one heterogeneous feed entry in backend wire format. The
// backend is the ordering authority for the feed.
type TimelineEvent struct {
	Type           string `json:"type"`
	ID             string `json:"id"`
	Date           string `json:"date"`
	Title          string `json:"title"`
	Doctor         string `json:"doctor,omitempty"`
	Hospital       string `json:"hospital,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	MedicinesCount int    `json:"medicines_count,omitempty"`
	Status         string `json:"status,omitempty"`
}

// TimelineCard is the uniform display shape for one feed entry.
type TimelineCard struct {
	Icon           string `json:"icon,omitempty"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Doctor         string `json:"doctor,omitempty"`
	Hospital       string `json:"hospital,omitempty"`
	MedicinesCount int    `json:"medicinesCount,omitempty"`
	Status         string `json:"status,omitempty"`
}
