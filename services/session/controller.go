package session

import (
	"context"
	"strings"
	"sync"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"

	"go.uber.org/zap"
)

// Controller is the session state machine. It owns the current symptoms,
// location, distance filter, match set and follow-up context, and it is the
// only writer of the map adapter's doctor markers.
//
// Remote calls run outside the lock. Each outgoing search or refinement bumps
// a generation counter; a response may only commit when its generation is
// still the newest one. Responses to superseded requests are dropped silently,
// never applied and never surfaced as errors.
type Controller struct {
	api     client.DiagnosisAPI
	mapSync *MapSyncAdapter
	logger  *zap.Logger

	// defaultDistanceKm substitutes a missing or non-positive distance filter.
	defaultDistanceKm int

	mu         sync.Mutex
	phase      models.SessionPhase
	location   *models.GeoPoint
	query      *models.SearchQuery // most recently issued query
	lastGood   *models.SearchQuery // last query that produced a Ready state
	matches    []models.DiagnosisMatch
	render     *models.RenderModel
	followUp   *models.FollowUpContext
	errReason  string
	generation uint64

	// onChange receives a snapshot after every committed transition. It is
	// invoked with the session lock held and must not call back into the
	// controller.
	onChange func(models.SessionSnapshot)
}

var _ SessionService = (*Controller)(nil)

func NewController(api client.DiagnosisAPI, mapSync *MapSyncAdapter, defaultDistanceKm int, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mapSync == nil {
		mapSync = NewMapSyncAdapter(nil)
	}
	return &Controller{
		api:               api,
		mapSync:           mapSync,
		logger:            logger,
		defaultDistanceKm: defaultDistanceKm,
		phase:             models.PhaseIdle,
	}
}

// SetOnChange registers the state-transition listener.
func (s *Controller) SetOnChange(fn func(models.SessionSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// LocateUser resolves the user's position through the given geolocator. On
// success the location is stored and the map recenters on the user; on
// failure the session returns to Idle with the location left unset, and later
// searches simply proceed without geofiltering.
func (s *Controller) LocateUser(ctx context.Context, g Geolocator) (models.GeoPoint, error) {
	s.mu.Lock()
	if s.phase != models.PhaseIdle && s.phase != models.PhaseError {
		s.mu.Unlock()
		return models.GeoPoint{}, utils.NewInputError("location can only be requested before a search is in progress")
	}
	s.phase = models.PhaseLocatingUser
	s.errReason = ""
	s.notifyLocked()
	s.mu.Unlock()

	pos, err := g.CurrentPosition(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A search issued while the locate was in flight owns the phase now; the
	// locate result may still land, but it must not touch the phase.
	superseded := s.phase != models.PhaseLocatingUser
	if !superseded {
		s.phase = models.PhaseIdle
	}
	if err != nil {
		s.logger.Warn("Geolocation failed, continuing without location", zap.Error(err))
		if !superseded {
			s.notifyLocked()
		}
		return models.GeoPoint{}, err
	}
	s.location = &pos
	s.mapSync.SetUser(pos)
	s.notifyLocked()
	return pos, nil
}

// Search issues a new symptom query. Empty symptoms are rejected without a
// state change. A new query always supersedes a prior one, and all doctor
// markers are cleared immediately so the view never shows markers that do not
// belong to the query in flight.
func (s *Controller) Search(ctx context.Context, query models.SearchQuery) error {
	query.Symptoms = strings.TrimSpace(query.Symptoms)
	if query.Symptoms == "" {
		return utils.NewInputError("symptoms must not be empty")
	}

	s.mu.Lock()
	if query.MaxDistanceKm <= 0 {
		query.MaxDistanceKm = s.defaultDistanceKm
	}
	if query.Location == nil {
		query.Location = s.location
	}
	s.generation++
	gen := s.generation
	s.phase = models.PhaseSearching
	s.query = &query
	s.matches = nil
	s.render = nil
	s.followUp = nil
	s.errReason = ""
	s.mapSync.ClearDoctors()
	s.notifyLocked()
	s.mu.Unlock()

	matches, err := s.api.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("Dropping superseded search response",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation))
		return nil
	}
	if err != nil {
		s.failLocked(err)
		return err
	}
	s.commitReadyLocked(matches, &query)
	return nil
}

// OpenFollowUp opens the follow-up questionnaire for one displayed disease.
// The other matches remain displayed unchanged underneath.
func (s *Controller) OpenFollowUp(disease string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != models.PhaseReady {
		return utils.NewInputError("no results to refine")
	}
	for _, match := range s.matches {
		if match.Disease != disease {
			continue
		}
		if len(match.FollowUpQuestions) == 0 {
			return utils.NewInputError("no follow-up questions for " + disease)
		}
		s.phase = models.PhaseAwaitingFollowUp
		s.followUp = &models.FollowUpContext{
			Disease:   disease,
			Questions: match.FollowUpQuestions,
			Answers:   models.FollowUpAnswers{},
		}
		s.notifyLocked()
		return nil
	}
	return utils.NewInputError("disease not in current results: " + disease)
}

// AnswerFollowUp records one answer in the open questionnaire.
func (s *Controller) AnswerFollowUp(question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != models.PhaseAwaitingFollowUp || s.followUp == nil {
		return utils.NewInputError("no open follow-up questionnaire")
	}
	if strings.TrimSpace(answer) == "" {
		return utils.NewInputError("answer must not be empty")
	}
	for _, q := range s.followUp.Questions {
		if q.Question == question {
			s.followUp.Answers[question] = answer
			s.notifyLocked()
			return nil
		}
	}
	return utils.NewInputError("unknown follow-up question: " + question)
}

// SubmitFollowUp submits a complete answer set for refinement. When answers is
// nil the answers recorded through AnswerFollowUp are used. An incomplete set
// is rejected without a state change. The original query's symptom text is
// sent verbatim, and refined matches replace the displayed set wholesale.
func (s *Controller) SubmitFollowUp(ctx context.Context, answers models.FollowUpAnswers) error {
	s.mu.Lock()
	if s.phase != models.PhaseAwaitingFollowUp || s.followUp == nil {
		s.mu.Unlock()
		return utils.NewInputError("no open follow-up questionnaire")
	}
	if answers == nil {
		answers = s.followUp.Answers
	}
	if err := validateAnswers(s.followUp.Questions, answers); err != nil {
		s.mu.Unlock()
		return err
	}
	originalQuery := *s.query

	s.generation++
	gen := s.generation
	s.phase = models.PhaseRefining
	s.matches = nil
	s.render = nil
	s.followUp = nil
	s.mapSync.ClearDoctors()
	s.notifyLocked()
	s.mu.Unlock()

	refined, err := s.api.SubmitFollowUp(ctx, originalQuery.Symptoms, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("Dropping superseded refinement response", zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		s.failLocked(err)
		return err
	}
	s.commitReadyLocked(refined, &originalQuery)
	return nil
}

// Resync re-runs the last successful query. Booking flows call this instead of
// patching slot lists locally: slot availability is authoritative only on the
// server. A no-op when no query has succeeded yet.
func (s *Controller) Resync(ctx context.Context) error {
	s.mu.Lock()
	lastGood := s.lastGood
	s.mu.Unlock()
	if lastGood == nil {
		return nil
	}
	return s.Search(ctx, *lastGood)
}

// Reset returns the session to Idle, discarding results and any error. The
// user marker and stored location survive.
func (s *Controller) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++ // in-flight responses become stale
	s.phase = models.PhaseIdle
	s.query = nil
	s.matches = nil
	s.render = nil
	s.followUp = nil
	s.errReason = ""
	s.mapSync.ClearDoctors()
	s.notifyLocked()
}

// Snapshot returns a consistent view of the current state.
func (s *Controller) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Controller) snapshotLocked() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		Phase:       s.phase,
		Location:    s.location,
		Query:       s.query,
		Render:      s.render,
		Map:         s.mapSync.State(),
		ErrorReason: s.errReason,
	}
	if s.followUp != nil {
		fu := *s.followUp
		snap.FollowUp = &fu
	}
	return snap
}

// commitReadyLocked enters Ready for a fresh match set: render model, doctor
// markers and bounds all derive from the same projection.
func (s *Controller) commitReadyLocked(matches []models.DiagnosisMatch, query *models.SearchQuery) {
	s.phase = models.PhaseReady
	s.matches = matches
	s.query = query
	s.lastGood = query

	projection := Project(matches, s.location)
	s.render = &projection.Render
	s.mapSync.ReplaceDoctors(projection.Markers, projection.Bounds)
	s.logger.Info("Session ready",
		zap.Int("matches", len(matches)),
		zap.String("symptoms", query.Symptoms))
	s.notifyLocked()
}

func (s *Controller) failLocked(err error) {
	s.phase = models.PhaseError
	s.errReason = err.Error()
	s.logger.Warn("Session entered error state", zap.Error(err))
	s.notifyLocked()
}

func (s *Controller) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

// validateAnswers checks completeness: exactly one non-empty answer per
// question, nothing missing and nothing extra.
func validateAnswers(questions []models.FollowUpQuestion, answers models.FollowUpAnswers) error {
	if len(answers) != len(questions) {
		return utils.NewInputError("all follow-up questions must be answered")
	}
	for _, q := range questions {
		answer, ok := answers[q.Question]
		if !ok || strings.TrimSpace(answer) == "" {
			return utils.NewInputError("missing answer for: " + q.Question)
		}
	}
	return nil
}
