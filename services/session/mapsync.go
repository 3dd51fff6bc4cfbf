package session

import (
	"sync"

	"mediquery/models"
)

// userZoom is applied when the map recenters on a freshly located user.
const userZoom = 13

// MapSyncAdapter owns the active marker set. The rendered set is always
// exactly {user marker if known} plus one marker per displayed doctor; every
// mutation is a clear-then-add full replace pushed to the underlying view, so
// the view can never observe a partial overlay or a stale marker.
type MapSyncAdapter struct {
	mu      sync.Mutex
	view    MapView
	user    *models.Marker
	doctors []models.Marker
	center  *models.GeoPoint
	zoom    int
	bounds  []models.GeoPoint
}

func NewMapSyncAdapter(view MapView) *MapSyncAdapter {
	return &MapSyncAdapter{view: view}
}

// SetUser places the user marker and recenters the view on it.
func (a *MapSyncAdapter) SetUser(pos models.GeoPoint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = &models.Marker{Position: pos, Label: "Your Location", Kind: models.MarkerUser}
	a.center = &pos
	a.zoom = userZoom
	if a.view != nil {
		a.view.SetCenter(pos)
		a.view.SetZoom(userZoom)
	}
	a.push()
}

// ReplaceDoctors swaps in the marker set for a new result set along with its
// fit-bounds request. An empty bounds slice means no bounds fitting.
func (a *MapSyncAdapter) ReplaceDoctors(markers []models.Marker, bounds []models.GeoPoint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doctors = markers
	a.bounds = bounds
	a.push()
	if len(bounds) > 0 && a.view != nil {
		a.view.FitBounds(bounds)
	}
}

// ClearDoctors removes all doctor markers, leaving only the user marker. It is
// called the moment a new search or refinement is issued, before the response
// arrives.
func (a *MapSyncAdapter) ClearDoctors() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doctors = nil
	a.bounds = nil
	a.push()
}

// State returns the current full map output.
func (a *MapSyncAdapter) State() models.MapState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return models.MapState{
		Center:    a.center,
		Zoom:      a.zoom,
		Markers:   a.composed(),
		FitBounds: a.bounds,
	}
}

func (a *MapSyncAdapter) composed() []models.Marker {
	markers := make([]models.Marker, 0, len(a.doctors)+1)
	if a.user != nil {
		markers = append(markers, *a.user)
	}
	markers = append(markers, a.doctors...)
	return markers
}

func (a *MapSyncAdapter) push() {
	if a.view != nil {
		a.view.ReplaceMarkers(a.composed())
	}
}
