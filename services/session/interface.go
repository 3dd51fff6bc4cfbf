package session

import (
	"context"

	"mediquery/models"
)

// Geolocator yields the user's current position. Implementations are a static
// position handed over by the UI and an IP-based lookup.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (models.GeoPoint, error)
}

// MapView is the geospatial rendering capability consumed by the
// MapSyncAdapter. The adapter only ever pushes full marker replacements.
type MapView interface {
	SetCenter(p models.GeoPoint)
	SetZoom(zoom int)
	ReplaceMarkers(markers []models.Marker)
	FitBounds(points []models.GeoPoint)
}

// SessionService defines the operations of one consultation session.
type SessionService interface {
	LocateUser(ctx context.Context, g Geolocator) (models.GeoPoint, error)
	Search(ctx context.Context, query models.SearchQuery) error
	OpenFollowUp(disease string) error
	AnswerFollowUp(question, answer string) error
	SubmitFollowUp(ctx context.Context, answers models.FollowUpAnswers) error
	Resync(ctx context.Context) error
	Reset()
	Snapshot() models.SessionSnapshot
}
