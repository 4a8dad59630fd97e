package models

import "time"

// TripDetails are the optional structured preferences sent with a query.
type TripDetails struct {
	Origin         string `json:"origin,omitempty"`
	Destination    string `json:"destination,omitempty"`
	NumberOfPeople *int   `json:"numberOfPeople,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Budget         string `json:"budget,omitempty"`
	TravelDates    string `json:"travelDates,omitempty"`
	Accommodation  string `json:"accommodation,omitempty"`
	TripType       string `json:"tripType,omitempty"`
	Transportation string `json:"transportation,omitempty"`
}

type QueryRequest struct {
	Question    string       `json:"question"`
	TripDetails *TripDetails `json:"tripDetails,omitempty"`
}

type QueryResponse struct {
	Answer         string    `json:"answer"`
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// Trip is a persisted question/answer pair. Optional fields are nil when
// the request omitted them.
type Trip struct {
	ID             int64     `json:"id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Origin         *string   `json:"origin"`
	Destination    *string   `json:"destination"`
	NumberOfPeople *int      `json:"number_of_people"`
	Duration       *string   `json:"duration"`
	Budget         *string   `json:"budget"`
	TravelDates    *string   `json:"travel_dates"`
	Accommodation  *string   `json:"accommodation"`
	TripType       *string   `json:"trip_type"`
	Transportation *string   `json:"transportation"`
	ProcessingTime *float64  `json:"processing_time"`
	Excerpt        *string   `json:"excerpt"`
	CreatedAt      time.Time `json:"created_at"`
}

// TripSummary is the listing view of a Trip.
type TripSummary struct {
	ID             int64     `json:"id"`
	Origin         *string   `json:"origin"`
	Destination    *string   `json:"destination"`
	TravelDates    *string   `json:"travel_dates"`
	NumberOfPeople *int      `json:"number_of_people"`
	Duration       *string   `json:"duration"`
	Budget         *string   `json:"budget"`
	Accommodation  *string   `json:"accommodation"`
	TripType       *string   `json:"trip_type"`
	Transportation *string   `json:"transportation"`
	Excerpt        *string   `json:"excerpt"`
	Answer         string    `json:"answer"`
	ProcessingTime *float64  `json:"processing_time"`
	CreatedAt      time.Time `json:"created_at"`
}

func (t *Trip) Summary() TripSummary {
	return TripSummary{
		ID:             t.ID,
		Origin:         t.Origin,
		Destination:    t.Destination,
		TravelDates:    t.TravelDates,
		NumberOfPeople: t.NumberOfPeople,
		Duration:       t.Duration,
		Budget:         t.Budget,
		Accommodation:  t.Accommodation,
		TripType:       t.TripType,
		Transportation: t.Transportation,
		Excerpt:        t.Excerpt,
		Answer:         t.Answer,
		ProcessingTime: t.ProcessingTime,
		CreatedAt:      t.CreatedAt,
	}
}
