package timeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how stale a cached feed may get.
const DefaultCacheTTL = 60 * time.Second

// icons maps known event tags to their display icon. Unknown tags render
// without an icon rather than failing the feed.
var icons = map[string]string{
	models.EventPrescription: "📄",
	models.EventAppointment:  "👨‍⚕️",
}

// TimelineService merges prescription and appointment events into one feed.
type TimelineService interface {
	BuildTimeline(ctx context.Context, patientID string) ([]models.TimelineCard, error)
}

// DefaultTimelineService implements TimelineService. The server is the
// ordering authority for the feed; this service only maps each event onto a
// uniform card shape, preserving the order it received. Cache is optional and
// may be nil.
type DefaultTimelineService struct {
	API      client.DiagnosisAPI
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *zap.Logger
}

var _ TimelineService = (*DefaultTimelineService)(nil)

func (s *DefaultTimelineService) BuildTimeline(ctx context.Context, patientID string) ([]models.TimelineCard, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}

	cacheKey := "timeline:" + patientID
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cards []models.TimelineCard
			if err := json.Unmarshal([]byte(cached), &cards); err == nil {
				return cards, nil
			}
		}
	}

	events, err := s.API.MedicalTimeline(ctx, patientID)
	if err != nil {
		return nil, err
	}

	cards := make([]models.TimelineCard, 0, len(events))
	for _, event := range events {
		cards = append(cards, models.TimelineCard{
			Icon:           icons[event.Type],
			Title:          event.Title,
			Date:           event.Date,
			Doctor:         event.Doctor,
			Hospital:       event.Hospital,
			MedicinesCount: event.MedicinesCount,
			Status:         event.Status,
		})
	}

	if s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		if data, err := json.Marshal(cards); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				s.logger().Warn("Timeline cache write failed", zap.Error(err))
			}
		}
	}
	return cards, nil
}

func (s *DefaultTimelineService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
