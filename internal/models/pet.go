package models

import "time"

type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

func (s Species) Valid() bool {
	return s == SpeciesDog || s == SpeciesCat
}

type Pet struct {
	ID          string
	Name        string
	Species     Species
	Breed       string
	AgeText     string
	Description string
	City        string
	ImageURL    *string
	CreatedBy   string
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats are the public adoption counters served by /api/stats.
type Stats struct {
	PublishedPets  int64
	TotalUsers     int64
	DistinctCities int64
}
