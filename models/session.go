package models

// SessionPhase identifies the single current state of a consultation session.
type SessionPhase string

const (
	PhaseIdle             SessionPhase = "idle"
	PhaseLocatingUser     SessionPhase = "locating_user"
	PhaseSearching        SessionPhase = "searching"
	PhaseReady            SessionPhase = "ready"
	PhaseAwaitingFollowUp SessionPhase = "awaiting_follow_up"
	PhaseRefining         SessionPhase = "refining"
	PhaseError            SessionPhase = "error"
)

// Confidence badge tiers.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Marker kinds.
const (
	MarkerUser   = "user"
	MarkerDoctor = "doctor"
)

// Marker is one map marker with position and label.
type Marker struct {
	Position GeoPoint `json:"position"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
}

// MapState is the full map output applied by the rendering layer: current
// marker set and an optional fit-bounds request. Mutations are always full
// replaces, never incremental patches.
type MapState struct {
	Center    *GeoPoint  `json:"center,omitempty"`
	Zoom      int        `json:"zoom,omitempty"`
	Markers   []Marker   `json:"markers"`
	FitBounds []GeoPoint `json:"fitBounds,omitempty"`
}

// DoctorCard is the display shape for one doctor within a disease card.
type DoctorCard struct {
	DoctorID       int     `json:"doctorId"`
	Name           string  `json:"name"`
	Hospital       string  `json:"hospital"`
	Specialization string  `json:"specialization"`
	DistanceKm     float64 `json:"distanceKm,omitempty"`
	SuccessRate    float64 `json:"successRate,omitempty"`
	TotalCases     int     `json:"totalCases,omitempty"`
	BaseFee        float64 `json:"baseFee,omitempty"`
	Slots          []Slot  `json:"slots,omitempty"`
}

// DiseaseCard is the display shape for one diagnosis match. Rank preserves the
// backend's result order.
type DiseaseCard struct {
	Rank               int                `json:"rank"`
	Disease            string             `json:"disease"`
	ConfidencePct      int                `json:"confidencePct"`
	Tier               string             `json:"tier"`
	MatchedSymptoms    []string           `json:"matchedSymptoms"`
	RequiresUrgentCare bool               `json:"requiresUrgentCare"`
	FollowUpQuestions  []FollowUpQuestion `json:"followUpQuestions,omitempty"`
	Doctors            []DoctorCard       `json:"doctors"`
}

// RenderModel is the pure view model for the current result set.
type RenderModel struct {
	Cards []DiseaseCard `json:"cards"`
}

// FollowUpContext tracks an open follow-up questionnaire.
type FollowUpContext struct {
	Disease   string             `json:"disease"`
	Questions []FollowUpQuestion `json:"questions"`
	Answers   FollowUpAnswers    `json:"answers"`
}

// SessionSnapshot is a consistent view of the session handed to the rendering
// layer: phase, render model and map state always belong to the same state.
type SessionSnapshot struct {
	Phase       SessionPhase     `json:"phase"`
	Location    *GeoPoint        `json:"location,omitempty"`
	Query       *SearchQuery     `json:"query,omitempty"`
	Render      *RenderModel     `json:"render,omitempty"`
	Map         MapState         `json:"map"`
	FollowUp    *FollowUpContext `json:"followUp,omitempty"`
	ErrorReason string           `json:"errorReason,omitempty"`
}
