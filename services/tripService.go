package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/db"
	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	"github.com/samber/lo"
)

const (
	DefaultTripLimit = 20
	MaxTripLimit     = 100
)

var ErrInvalidLimit = errors.New("invalid limit")

type TripService struct {
	repo db.TripRepository
}

func NewTripService(repo db.TripRepository) *TripService {
	return &TripService{repo: repo}
}

func (s *TripService) SaveTrip(ctx context.Context, trip *models.Trip) error {
	log.Printf("[INFO] Starting save trip for question: %.100s", trip.Question)

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		log.Printf("[ERROR] Failed to save trip: %v", err)
		return fmt.Errorf("failed to save trip: %w", err)
	}

	log.Printf("[INFO] Successfully saved trip with ID: %d", trip.ID)
	return nil
}

// GetRecentTrips lists trips newest first. A zero limit means
// DefaultTripLimit.
func (s *TripService) GetRecentTrips(ctx context.Context, limit int) ([]*models.Trip, error) {
	if limit == 0 {
		limit = DefaultTripLimit
	}
	if limit < 1 || limit > MaxTripLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidLimit, MaxTripLimit, limit)
	}

	log.Printf("[INFO] Starting get recent trips with limit %d", limit)

	trips, err := s.repo.GetRecentTrips(ctx, limit)
	if err != nil {
		log.Printf("[ERROR] Failed to get recent trips: %v", err)
		return nil, fmt.Errorf("failed to get recent trips: %w", err)
	}

	log.Printf("[INFO] Successfully retrieved %d trips", len(trips))
	return trips, nil
}

// NewTripRecord builds the row stored for a completed query. Blank trip
// details are stored as NULL.
func NewTripRecord(question, answer string, details *models.TripDetails, processingTime time.Duration) *models.Trip {
	trip := &models.Trip{
		Question:       question,
		Answer:         answer,
		ProcessingTime: lo.ToPtr(processingTime.Seconds()),
		Excerpt:        excerpt(answer),
	}

	if details != nil {
		trip.Origin = optional(details.Origin)
		trip.Destination = optional(details.Destination)
		trip.Duration = optional(details.Duration)
		trip.Budget = optional(details.Budget)
		trip.TravelDates = optional(details.TravelDates)
		trip.Accommodation = optional(details.Accommodation)
		trip.TripType = optional(details.TripType)
		trip.Transportation = optional(details.Transportation)
		trip.NumberOfPeople = details.NumberOfPeople
	}

	return trip
}

func excerpt(answer string) *string {
	line, ok := lo.Find(strings.Split(answer, "\n"), func(line string) bool {
		return strings.TrimSpace(line) != ""
	})
	if !ok {
		return nil
	}
	return lo.ToPtr(strings.TrimSpace(line))
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	return lo.EmptyableToPtr(value)
}
