// Package persistence saves and restores the full farm state as a single
// structured text document.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mamadbah2/farmsim/internal/domain/models"
)

// DocumentVersion is bumped whenever the document layout changes.
const DocumentVersion = 1

var (
	// ErrNoSave is returned when no saved game exists.
	ErrNoSave = errors.New("no saved game")
	// ErrMalformed is returned when a saved document cannot be decoded or is incomplete.
	ErrMalformed = errors.New("malformed save document")
)

// Store reads and writes the single save slot.
type Store interface {
	Save(ctx context.Context, doc Document) error
	Load(ctx context.Context) (Document, error)
	Exists(ctx context.Context) bool
}

// Document is the persisted form of a farm.
type Document struct {
	Version int       `json:"version" yaml:"version"`
	SaveID  string    `json:"save_id" yaml:"save_id"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	FarmName     string                                `json:"farm_name" yaml:"farm_name"`
	Farmer       models.Farmer                         `json:"farmer" yaml:"farmer"`
	Animals      []models.Animal                       `json:"animals" yaml:"animals"`
	Products     map[models.ProductType]models.Product `json:"products" yaml:"products"`
	Feeds        map[models.FeedType]models.Feed       `json:"feeds" yaml:"feeds"`
	Buildings    []models.Building                     `json:"buildings" yaml:"buildings"`
	Achievements map[models.AchievementID]bool         `json:"achievements" yaml:"achievements"`

	CurrentDay     int            `json:"current_day" yaml:"current_day"`
	CurrentHour    int            `json:"current_hour" yaml:"current_hour"`
	CurrentSeason  models.Season  `json:"current_season" yaml:"current_season"`
	CurrentWeather models.Weather `json:"current_weather" yaml:"current_weather"`
	DaysInSeason   int            `json:"days_in_season" yaml:"days_in_season"`

	DailyIncome   float64  `json:"daily_income" yaml:"daily_income"`
	DailyExpenses float64  `json:"daily_expenses" yaml:"daily_expenses"`
	Reputation    int      `json:"reputation" yaml:"reputation"`
	Events        []string `json:"events" yaml:"events"`
	NextAnimalID  int      `json:"next_animal_id" yaml:"next_animal_id"`
}

// FromState captures a farm state. Notifications are transient and not saved.
func FromState(s *models.FarmState, saveID string, savedAt time.Time) Document {
	c := s.Clone()
	doc := Document{
		Version:        DocumentVersion,
		SaveID:         saveID,
		SavedAt:        savedAt.UTC(),
		FarmName:       c.FarmName,
		Farmer:         c.Farmer,
		Animals:        c.Animals,
		Products:       make(map[models.ProductType]models.Product, len(c.Products)),
		Feeds:          make(map[models.FeedType]models.Feed, len(c.Feeds)),
		Buildings:      c.Buildings,
		Achievements:   c.Achievements,
		CurrentDay:     c.CurrentDay,
		CurrentHour:    c.CurrentHour,
		CurrentSeason:  c.CurrentSeason,
		CurrentWeather: c.CurrentWeather,
		DaysInSeason:   c.DaysInSeason,
		DailyIncome:    c.DailyIncome,
		DailyExpenses:  c.DailyExpenses,
		Reputation:     c.Reputation,
		Events:         c.Events,
		NextAnimalID:   c.NextAnimalID,
	}
	for k, v := range c.Products {
		doc.Products[k] = *v
	}
	for k, v := range c.Feeds {
		doc.Feeds[k] = *v
	}
	return doc
}

// ToState rebuilds a farm state from the document after validating it.
func (d Document) ToState() (*models.FarmState, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	s := &models.FarmState{
		FarmName:       d.FarmName,
		Farmer:         d.Farmer,
		Animals:        append([]models.Animal{}, d.Animals...),
		Products:       make(map[models.ProductType]*models.Product, len(d.Products)),
		Feeds:          make(map[models.FeedType]*models.Feed, len(d.Feeds)),
		Buildings:      append([]models.Building{}, d.Buildings...),
		Achievements:   make(map[models.AchievementID]bool, len(d.Achievements)),
		CurrentDay:     d.CurrentDay,
		CurrentHour:    d.CurrentHour,
		CurrentSeason:  d.CurrentSeason,
		CurrentWeather: d.CurrentWeather,
		DaysInSeason:   d.DaysInSeason,
		DailyIncome:    d.DailyIncome,
		DailyExpenses:  d.DailyExpenses,
		Reputation:     d.Reputation,
		Events:         append([]string{}, d.Events...),
		Notifications:  []models.Notification{},
		NextAnimalID:   d.NextAnimalID,
	}
	if s.Farmer.Skills == nil {
		s.Farmer.Skills = models.DefaultSkills()
	}
	for k, v := range d.Products {
		p := v
		s.Products[k] = &p
	}
	for k, v := range d.Feeds {
		f := v
		s.Feeds[k] = &f
	}
	for _, a := range models.Achievements() {
		s.Achievements[a.ID] = d.Achievements[a.ID]
	}
	return s, nil
}

func (d Document) validate() error {
	switch {
	case d.Version == 0 || d.Version > DocumentVersion:
		return malformed("unsupported version")
	case d.CurrentDay < 1:
		return malformed("current_day must be positive")
	case d.CurrentHour < 0 || d.CurrentHour >= models.HoursPerDay:
		return malformed("current_hour out of range")
	case d.NextAnimalID < 1:
		return malformed("next_animal_id must be positive")
	}
	if !models.IsKnownWeather(d.CurrentWeather) {
		return malformed("unknown weather " + string(d.CurrentWeather))
	}
	if !models.IsKnownSeason(d.CurrentSeason) {
		return malformed("unknown season " + string(d.CurrentSeason))
	}
	if err := validateFarmer(d.Farmer); err != nil {
		return err
	}
	seen := make(map[int]bool, len(d.Animals))
	for _, a := range d.Animals {
		if _, ok := models.LookupAnimal(a.Type); !ok {
			return malformed("unknown animal type " + string(a.Type))
		}
		if a.ID < 1 || a.ID >= d.NextAnimalID {
			return malformed("animal id out of range")
		}
		if seen[a.ID] {
			return malformed(fmt.Sprintf("duplicate animal id %d", a.ID))
		}
		seen[a.ID] = true
		if !inStatRange(a.Health) || !inStatRange(a.Hunger) || !inStatRange(a.Happiness) {
			return malformed(fmt.Sprintf("animal %d stats out of range", a.ID))
		}
	}
	for k, p := range d.Products {
		if !models.IsKnownProduct(k) {
			return malformed("unknown product type " + string(k))
		}
		if !models.IsKnownQuality(p.Quality) {
			return malformed("unknown product quality " + string(p.Quality))
		}
		if !nonNegative(p.Amount) {
			return malformed("negative product amount")
		}
	}
	for k, f := range d.Feeds {
		if _, ok := models.LookupFeed(k); !ok {
			return malformed("unknown feed type " + string(k))
		}
		if !nonNegative(f.Amount) {
			return malformed("negative feed amount")
		}
	}
	buildings := make(map[models.BuildingType]bool, len(d.Buildings))
	for _, b := range d.Buildings {
		if _, ok := models.LookupBuilding(b.Type); !ok {
			return malformed("unknown building type " + string(b.Type))
		}
		if buildings[b.Type] {
			return malformed("duplicate building " + string(b.Type))
		}
		if b.Level < 1 || b.Capacity < 0 {
			return malformed("building " + string(b.Type) + " level or capacity out of range")
		}
		buildings[b.Type] = true
	}
	for _, t := range models.StartingBuildings() {
		if !buildings[t] {
			return malformed("missing building " + string(t))
		}
	}
	for id := range d.Achievements {
		if _, ok := models.LookupAchievement(id); !ok {
			return malformed("unknown achievement " + string(id))
		}
	}
	return nil
}

func validateFarmer(f models.Farmer) error {
	switch {
	case !nonNegative(f.Money):
		return malformed("money must not be negative")
	case !nonNegative(f.Energy) || f.Energy > f.MaxEnergy:
		return malformed("energy out of range")
	case f.Level < 1:
		return malformed("level must be positive")
	case !nonNegative(f.Experience):
		return malformed("experience must not be negative")
	}
	return nil
}

// inStatRange also rejects NaN.
func inStatRange(v float64) bool {
	return v >= models.MinStat && v <= models.MaxStat
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformed, reason)
}
