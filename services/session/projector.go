package session

import (
	"math"

	"mediquery/models"
)

// Projection is the deterministic output for one result set: the render
// model, one marker per doctor, and the fit-bounds request.
type Projection struct {
	Render  models.RenderModel
	Markers []models.Marker
	Bounds  []models.GeoPoint
}

// Tier maps a confidence value to its badge tier. Thresholds are exact, not
// rounded: above 0.7 is high, above 0.4 up to 0.7 is medium, the rest low.
func Tier(confidence float64) string {
	switch {
	case confidence > 0.7:
		return models.TierHigh
	case confidence > 0.4:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

// Project turns an ordered match set into its render model and marker set.
// Input order and per-match doctor order are preserved; equal inputs always
// produce identical output. The bounds request is the union of the user
// position (when known) and every doctor position, and is empty when there
// are no doctors at all.
func Project(matches []models.DiagnosisMatch, userLoc *models.GeoPoint) Projection {
	var p Projection
	p.Render.Cards = make([]models.DiseaseCard, 0, len(matches))

	for i, match := range matches {
		card := models.DiseaseCard{
			Rank:               i + 1,
			Disease:            match.Disease,
			ConfidencePct:      int(math.Round(match.Confidence * 100)),
			Tier:               Tier(match.Confidence),
			MatchedSymptoms:    match.MatchedSymptoms,
			RequiresUrgentCare: match.RequiresUrgentCare,
			FollowUpQuestions:  match.FollowUpQuestions,
		}
		card.Doctors = make([]models.DoctorCard, 0, len(match.Doctors))
		for _, doc := range match.Doctors {
			card.Doctors = append(card.Doctors, models.DoctorCard{
				DoctorID:       doc.ID,
				Name:           doc.Name,
				Hospital:       doc.Hospital,
				Specialization: doc.Specialization,
				DistanceKm:     doc.DistanceKm,
				SuccessRate:    doc.SuccessRate,
				TotalCases:     doc.TotalCases,
				BaseFee:        doc.BaseFee,
				Slots:          doc.AvailableSlots,
			})
			p.Markers = append(p.Markers, models.Marker{
				Position: models.GeoPoint{Latitude: doc.Latitude, Longitude: doc.Longitude},
				Label:    doc.Name + " - " + doc.Hospital,
				Kind:     models.MarkerDoctor,
			})
		}
		p.Render.Cards = append(p.Render.Cards, card)
	}

	if len(p.Markers) > 0 {
		if userLoc != nil {
			p.Bounds = append(p.Bounds, *userLoc)
		}
		for _, m := range p.Markers {
			p.Bounds = append(p.Bounds, m.Position)
		}
	}
	return p
}
