package timeline

import (
	"context"
	"testing"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"
)

type stubAPI struct {
	client.DiagnosisAPI
	timelineFn func(ctx context.Context, patientID string) ([]models.TimelineEvent, error)
}

func (s *stubAPI) MedicalTimeline(ctx context.Context, patientID string) ([]models.TimelineEvent, error) {
	return s.timelineFn(ctx, patientID)
}

func TestBuildTimelinePreservesServerOrder(t *testing.T) {
	api := &stubAPI{timelineFn: func(ctx context.Context, patientID string) ([]models.TimelineEvent, error) {
		// Deliberately not date-sorted; the server decides the order.
		return []models.TimelineEvent{
			{Type: models.EventAppointment, Title: "Appointment with Dr. Rao", Date: "2025-01-10", Status: models.StatusConfirmed},
			{Type: models.EventPrescription, Title: "Prescription uploaded", Date: "2025-03-02", MedicinesCount: 3},
			{Type: models.EventAppointment, Title: "Appointment with Dr. Iyer", Date: "2024-11-20", Status: models.StatusCancelled},
		}, nil
	}}
	svc := &DefaultTimelineService{API: api}

	cards, err := svc.BuildTimeline(context.Background(), "42")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	wantDates := []string{"2025-01-10", "2025-03-02", "2024-11-20"}
	for i, card := range cards {
		if card.Date != wantDates[i] {
			t.Fatalf("order changed at %d: got %s, want %s", i, card.Date, wantDates[i])
		}
	}
	if cards[1].MedicinesCount != 3 {
		t.Fatalf("medicines count lost: %+v", cards[1])
	}
}

func TestBuildTimelineIcons(t *testing.T) {
	api := &stubAPI{timelineFn: func(ctx context.Context, patientID string) ([]models.TimelineEvent, error) {
		return []models.TimelineEvent{
			{Type: models.EventPrescription, Title: "Rx"},
			{Type: models.EventAppointment, Title: "Visit"},
			{Type: "lab_result", Title: "Blood panel"},
		}, nil
	}}
	svc := &DefaultTimelineService{API: api}

	cards, err := svc.BuildTimeline(context.Background(), "42")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cards[0].Icon == "" || cards[1].Icon == "" {
		t.Fatal("known event tags must carry an icon")
	}
	if cards[2].Icon != "" {
		t.Fatalf("unknown tag must render without an icon, got %q", cards[2].Icon)
	}
}

func TestBuildTimelineValidation(t *testing.T) {
	svc := &DefaultTimelineService{API: &stubAPI{}}
	if _, err := svc.BuildTimeline(context.Background(), "  "); !utils.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestBuildTimelineEmptyFeed(t *testing.T) {
	api := &stubAPI{timelineFn: func(ctx context.Context, patientID string) ([]models.TimelineEvent, error) {
		return nil, nil
	}}
	svc := &DefaultTimelineService{API: api}

	cards, err := svc.BuildTimeline(context.Background(), "42")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected empty feed, got %d cards", len(cards))
	}
}
