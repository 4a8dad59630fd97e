package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/db"
	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTripRepository struct {
	mu     sync.Mutex
	trips  []*models.Trip
	err    error
	limits []int
}

func (f *fakeTripRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	trip.ID = int64(len(f.trips) + 1)
	f.trips = append(f.trips, trip)
	return nil
}

func (f *fakeTripRepository) GetRecentTrips(ctx context.Context, limit int) ([]*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	return f.trips, f.err
}

func (f *fakeTripRepository) Close() error {
	return nil
}

func (f *fakeTripRepository) saved() []*models.Trip {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Trip(nil), f.trips...)
}

func TestNewTripRecord(t *testing.T) {
	details := &models.TripDetails{
		Origin:         "Madrid",
		Destination:    " Lisbon ",
		Budget:         "   ",
		NumberOfPeople: lo.ToPtr(3),
	}

	trip := NewTripRecord("Plan Lisbon", "\n\n  Plan A: Tourist  \nDay 1", details, 1500*time.Millisecond)

	assert.Equal(t, "Plan Lisbon", trip.Question)
	require.NotNil(t, trip.Excerpt)
	assert.Equal(t, "Plan A: Tourist", *trip.Excerpt)
	require.NotNil(t, trip.ProcessingTime)
	assert.InDelta(t, 1.5, *trip.ProcessingTime, 1e-9)
	assert.Equal(t, "Madrid", *trip.Origin)
	assert.Equal(t, "Lisbon", *trip.Destination)
	assert.Nil(t, trip.Budget)
	assert.Nil(t, trip.TravelDates)
	assert.Equal(t, 3, *trip.NumberOfPeople)
}

func TestNewTripRecordWithoutDetails(t *testing.T) {
	trip := NewTripRecord("q", "  \n ", nil, time.Second)
	assert.Nil(t, trip.Excerpt)
	assert.Nil(t, trip.Origin)
	assert.Nil(t, trip.NumberOfPeople)
}

func TestTripServiceGetRecentTripsLimits(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
		wantErr   bool
	}{
		{name: "default", limit: 0, wantLimit: DefaultTripLimit},
		{name: "explicit", limit: 5, wantLimit: 5},
		{name: "maximum", limit: MaxTripLimit, wantLimit: MaxTripLimit},
		{name: "negative", limit: -1, wantErr: true},
		{name: "too large", limit: MaxTripLimit + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeTripRepository{}
			service := NewTripService(repo)

			_, err := service.GetRecentTrips(context.Background(), tt.limit)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLimit)
				assert.Empty(t, repo.limits)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.wantLimit}, repo.limits)
		})
	}
}

func TestTripServiceWrapsRepositoryErrors(t *testing.T) {
	service := NewTripService(&fakeTripRepository{err: errors.New("disk full")})

	err := service.SaveTrip(context.Background(), &models.Trip{Question: "q", Answer: "a"})
	assert.ErrorContains(t, err, "failed to save trip: disk full")

	_, err = service.GetRecentTrips(context.Background(), 10)
	assert.ErrorContains(t, err, "failed to get recent trips: disk full")
}

func TestTripServiceWithSQLite(t *testing.T) {
	repo, err := db.NewSQLiteTripRepository(filepath.Join(t.TempDir(), "trips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	service := NewTripService(repo)
	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, service.SaveTrip(context.Background(), NewTripRecord(q, "answer to "+q, nil, time.Second)))
	}

	trips, err := service.GetRecentTrips(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "third", trips[0].Question)
	assert.Equal(t, "second", trips[1].Question)
	assert.Equal(t, "answer to third", *trips[0].Excerpt)
}
