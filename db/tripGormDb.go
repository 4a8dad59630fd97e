package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	sqliteDriver "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type tripRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Question       string `gorm:"not null"`
	Answer         string `gorm:"not null"`
	Origin         *string
	Destination    *string
	NumberOfPeople *int
	Duration       *string
	Budget         *string
	TravelDates    *string
	Accommodation  *string
	TripType       *string
	Transportation *string
	ProcessingTime *float64
	Excerpt        *string
	CreatedAt      time.Time `gorm:"index"`
}

func (tripRow) TableName() string {
	return "trips"
}

func tripRowFromModel(trip *models.Trip) tripRow {
	return tripRow{
		ID:             trip.ID,
		Question:       trip.Question,
		Answer:         trip.Answer,
		Origin:         trip.Origin,
		Destination:    trip.Destination,
		NumberOfPeople: trip.NumberOfPeople,
		Duration:       trip.Duration,
		Budget:         trip.Budget,
		TravelDates:    trip.TravelDates,
		Accommodation:  trip.Accommodation,
		TripType:       trip.TripType,
		Transportation: trip.Transportation,
		ProcessingTime: trip.ProcessingTime,
		Excerpt:        trip.Excerpt,
		CreatedAt:      trip.CreatedAt,
	}
}

func (r tripRow) toModel() *models.Trip {
	return &models.Trip{
		ID:             r.ID,
		Question:       r.Question,
		Answer:         r.Answer,
		Origin:         r.Origin,
		Destination:    r.Destination,
		NumberOfPeople: r.NumberOfPeople,
		Duration:       r.Duration,
		Budget:         r.Budget,
		TravelDates:    r.TravelDates,
		Accommodation:  r.Accommodation,
		TripType:       r.TripType,
		Transportation: r.Transportation,
		ProcessingTime: r.ProcessingTime,
		Excerpt:        r.Excerpt,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

// GormTripRepository stores trips in an embedded SQLite file.
type GormTripRepository struct {
	db *gorm.DB
}

// NewSQLiteTripRepository opens path (or ":memory:"), creating its parent
// directory when needed, and migrates the trips table.
func NewSQLiteTripRepository(path string) (*GormTripRepository, error) {
	if err := ensureSQLiteDirectory(path); err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(sqliteDriver.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" databases shared.
	sqlDB.SetMaxOpenConns(1)

	repo := &GormTripRepository{db: gormDB}
	if err := gormDB.AutoMigrate(&tripRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate trips table: %w", err)
	}

	return repo, nil
}

func (r *GormTripRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}

	row := tripRowFromModel(trip)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	trip.ID = row.ID
	return nil
}

func (r *GormTripRepository) GetRecentTrips(ctx context.Context, limit int) ([]*models.Trip, error) {
	var rows []tripRow
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}

	trips := make([]*models.Trip, 0, len(rows))
	for _, row := range rows {
		trips = append(trips, row.toModel())
	}
	return trips, nil
}

func (r *GormTripRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureSQLiteDirectory(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sqlite directory: %w", err)
	}
	return nil
}
