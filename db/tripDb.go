package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	_ "github.com/lib/pq"
)

type TripRepository interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetRecentTrips(ctx context.Context, limit int) ([]*models.Trip, error)
	Close() error
}

// PoolConfig sizes the PostgreSQL connection pool. SQLite ignores it.
type PoolConfig struct {
	PoolSize    int
	MaxOverflow int
	PoolTimeout time.Duration
	PoolRecycle time.Duration
	SSLMode     string
	SSLRootCert string
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		PoolSize:    5,
		MaxOverflow: 10,
		PoolTimeout: 30 * time.Second,
		PoolRecycle: 1800 * time.Second,
	}
}

type PostgresTripRepository struct {
	db        *sql.DB
	opTimeout time.Duration
}

const createTripsTable = `
	CREATE TABLE IF NOT EXISTS trips (
		id BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		origin TEXT,
		destination TEXT,
		number_of_people INTEGER,
		duration TEXT,
		budget TEXT,
		travel_dates TEXT,
		accommodation TEXT,
		trip_type TEXT,
		transportation TEXT,
		processing_time DOUBLE PRECISION,
		excerpt TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

func NewPostgresTripRepository(databaseURL string, pool PoolConfig) (*PostgresTripRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pool.PoolSize > 0 {
		db.SetMaxIdleConns(pool.PoolSize)
		db.SetMaxOpenConns(pool.PoolSize + max(pool.MaxOverflow, 0))
	}
	if pool.PoolRecycle > 0 {
		db.SetConnMaxLifetime(pool.PoolRecycle)
	}

	repo := &PostgresTripRepository{db: db, opTimeout: pool.PoolTimeout}

	ctx, cancel := repo.withTimeout(context.Background())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTripsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trips table: %w", err)
	}

	return repo, nil
}

// withTimeout bounds each statement by the pool timeout, which also covers
// waiting for a free connection.
func (r *PostgresTripRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

func (r *PostgresTripRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO trips (question, answer, origin, destination, number_of_people, duration, budget,
			travel_dates, accommodation, trip_type, transportation, processing_time, excerpt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	row := r.db.QueryRowContext(ctx, query,
		trip.Question, trip.Answer, trip.Origin, trip.Destination, trip.NumberOfPeople, trip.Duration,
		trip.Budget, trip.TravelDates, trip.Accommodation, trip.TripType, trip.Transportation,
		trip.ProcessingTime, trip.Excerpt)

	if err := row.Scan(&trip.ID, &trip.CreatedAt); err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

func (r *PostgresTripRepository) GetRecentTrips(ctx context.Context, limit int) ([]*models.Trip, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, question, answer, origin, destination, number_of_people, duration, budget,
			travel_dates, accommodation, trip_type, transportation, processing_time, excerpt, created_at
		FROM trips
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		err := rows.Scan(&trip.ID, &trip.Question, &trip.Answer, &trip.Origin, &trip.Destination,
			&trip.NumberOfPeople, &trip.Duration, &trip.Budget, &trip.TravelDates, &trip.Accommodation,
			&trip.TripType, &trip.Transportation, &trip.ProcessingTime, &trip.Excerpt, &trip.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}

	return trips, nil
}

func (r *PostgresTripRepository) Close() error {
	return r.db.Close()
}
