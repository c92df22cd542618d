package models

import (
	"fmt"
	"time"
)

// Bounds of the event log and notification queue.
const (
	MaxEvents        = 100
	MaxNotifications = 20
)

// FarmState is the aggregate root of a game session. All mutation goes
// through the farm manager and the simulation clock.
type FarmState struct {
	FarmName  string                   `json:"farm_name"`
	Farmer    Farmer                   `json:"farmer"`
	Animals   []Animal                 `json:"animals"`
	Products  map[ProductType]*Product `json:"products"`
	Feeds     map[FeedType]*Feed       `json:"feeds"`
	Buildings []Building               `json:"buildings"`

	Achievements map[AchievementID]bool `json:"achievements"`

	CurrentDay     int     `json:"current_day"`
	CurrentHour    int     `json:"current_hour"`
	CurrentSeason  Season  `json:"current_season"`
	CurrentWeather Weather `json:"current_weather"`
	DaysInSeason   int     `json:"days_in_season"`

	DailyIncome   float64 `json:"daily_income"`
	DailyExpenses float64 `json:"daily_expenses"`
	Reputation    int     `json:"reputation"`

	Events        []string       `json:"events"`
	Notifications []Notification `json:"notifications"`

	NextAnimalID int `json:"next_animal_id"`
}

// NewFarmState returns the state of a brand new game: starting buildings,
// starting feed stock and the clock at day 1, 06:00 in spring.
func NewFarmState(farmName, farmerName string) *FarmState {
	s := &FarmState{
		FarmName:       farmName,
		Farmer:         NewFarmer(farmerName),
		Animals:        []Animal{},
		Products:       map[ProductType]*Product{},
		Feeds:          map[FeedType]*Feed{},
		Achievements:   map[AchievementID]bool{},
		CurrentDay:     1,
		CurrentHour:    6,
		CurrentSeason:  SeasonSpring,
		CurrentWeather: WeatherSunny,
		Events:         []string{},
		Notifications:  []Notification{},
		NextAnimalID:   1,
	}
	for _, a := range achievementCatalog {
		s.Achievements[a.ID] = false
	}
	for _, t := range StartingBuildings() {
		spec := buildingCatalog[t]
		s.Buildings = append(s.Buildings, Building{Type: t, Name: spec.Name, Level: 1, Capacity: spec.BaseCapacity})
	}
	for t, amount := range map[FeedType]float64{FeedHay: 50, FeedGrain: 30, FeedMixed: 20} {
		f := NewFeed(t, amount)
		s.Feeds[t] = &f
	}
	return s
}

// AddEvent appends a timestamped entry to the bounded event log.
func (s *FarmState) AddEvent(message string) {
	s.Events = append(s.Events, fmt.Sprintf("[Day %d, %d:00] %s", s.CurrentDay, s.CurrentHour, message))
	if len(s.Events) > MaxEvents {
		s.Events = append([]string(nil), s.Events[len(s.Events)-MaxEvents:]...)
	}
}

// AddNotification enqueues a user-facing message, dropping the oldest
// entries beyond the queue bound.
func (s *FarmState) AddNotification(title, message string, at time.Time) {
	s.Notifications = append(s.Notifications, Notification{Title: title, Message: message, Time: at})
	if len(s.Notifications) > MaxNotifications {
		s.Notifications = append([]Notification(nil), s.Notifications[len(s.Notifications)-MaxNotifications:]...)
	}
}

// DrainNotifications returns the queued notifications and empties the queue.
func (s *FarmState) DrainNotifications() []Notification {
	out := s.Notifications
	s.Notifications = []Notification{}
	return out
}

// FindAnimal returns a pointer into the animal slice, or nil.
func (s *FarmState) FindAnimal(id int) *Animal {
	for i := range s.Animals {
		if s.Animals[i].ID == id {
			return &s.Animals[i]
		}
	}
	return nil
}

// FindBuilding returns a pointer into the building slice, or nil.
func (s *FarmState) FindBuilding(t BuildingType) *Building {
	for i := range s.Buildings {
		if s.Buildings[i].Type == t {
			return &s.Buildings[i]
		}
	}
	return nil
}

// LivingAnimals counts animals that are still alive.
func (s *FarmState) LivingAnimals() int {
	n := 0
	for _, a := range s.Animals {
		if a.IsAlive {
			n++
		}
	}
	return n
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *FarmState) Clone() *FarmState {
	if s == nil {
		return nil
	}
	out := *s
	out.Farmer.Skills = make(map[Skill]float64, len(s.Farmer.Skills))
	for k, v := range s.Farmer.Skills {
		out.Farmer.Skills[k] = v
	}
	out.Animals = append([]Animal{}, s.Animals...)
	out.Buildings = append([]Building{}, s.Buildings...)
	out.Products = make(map[ProductType]*Product, len(s.Products))
	for k, v := range s.Products {
		p := *v
		out.Products[k] = &p
	}
	out.Feeds = make(map[FeedType]*Feed, len(s.Feeds))
	for k, v := range s.Feeds {
		f := *v
		out.Feeds[k] = &f
	}
	out.Achievements = make(map[AchievementID]bool, len(s.Achievements))
	for k, v := range s.Achievements {
		out.Achievements[k] = v
	}
	out.Events = append([]string{}, s.Events...)
	out.Notifications = append([]Notification{}, s.Notifications...)
	return &out
}
