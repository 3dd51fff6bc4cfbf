package models

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchQuery is a user-submitted symptom search. A query is immutable once
// issued; a new query always supersedes a prior one.
type SearchQuery struct {
	Symptoms      string    `json:"symptoms"`
	Location      *GeoPoint `json:"location,omitempty"`
	MaxDistanceKm int       `json:"maxDistanceKm"`
}

// Follow-up question kinds as reported by the diagnosis backend.
const (
	QuestionYesNo          = "yes_no"
	QuestionMultipleChoice = "multiple_choice"
)

// FollowUpQuestion is a clarifying question attached to a match. Options is
// populated only for multiple_choice questions.
type FollowUpQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
}

// FollowUpAnswers maps question text to the chosen answer.
type FollowUpAnswers map[string]string

// DiagnosisMatch is a candidate disease with its confidence, matched symptoms
// and associated doctors, in backend wire format.
type DiagnosisMatch struct {
	Disease            string             `json:"disease"`
	Confidence         float64            `json:"confidence"`
	MatchedSymptoms    []string           `json:"matched_symptoms"`
	RequiresUrgentCare bool               `json:"requires_urgent_care"`
	Doctors            []Doctor           `json:"doctors"`
	FollowUpQuestions  []FollowUpQuestion `json:"follow_up_questions,omitempty"`
}
