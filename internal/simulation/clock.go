// Package simulation advances game time and applies the hourly and daily
// effects of time passing to the farm state.
package simulation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/mamadbah2/farmsim/internal/domain/models"
)

// Rand is the random source used for weather and sickness rolls.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded PCG source. A zero seed derives one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// AchievementChecker is run at the end of every day.
type AchievementChecker interface {
	Evaluate(s *models.FarmState) []models.AchievementID
}

// ErrInvalidSpeed is returned for speeds outside (0, MaxSpeed].
var ErrInvalidSpeed = errors.New("game speed must be positive and at most 100")

const (
	// MaxSpeed is the fastest supported game speed multiplier.
	MaxSpeed = 100.0
	// MaxHoursPerAdvance bounds the hour ticks run by a single Advance call.
	// Time beyond it is dropped, so a stalled host does not replay a backlog.
	MaxHoursPerAdvance = 72

	// One buffer unit is one game hour; at 1x speed one real second is one hour.
	secondsPerHour = 1.0

	dailyEnergyRestore = 30.0
)

// Clock converts elapsed real time into hour and day ticks.
type Clock struct {
	rng          Rand
	achievements AchievementChecker
	speed        float64
	buffer       float64

	// OnDayEnd, when set, runs after a day tick with the state of the day
	// that just started, before the daily ledger is reset.
	OnDayEnd func(s *models.FarmState)
}

// NewClock builds a clock at 1x speed.
func NewClock(rng Rand, achievements AchievementChecker) *Clock {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Clock{rng: rng, achievements: achievements, speed: 1.0}
}

// Speed returns the current game speed multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// SetSpeed changes the game speed multiplier.
func (c *Clock) SetSpeed(speed float64) error {
	if !ValidSpeed(speed) {
		return ErrInvalidSpeed
	}
	c.speed = speed
	return nil
}

// ValidSpeed reports whether speed is a finite multiplier in (0, MaxSpeed].
func ValidSpeed(speed float64) bool {
	return speed > 0 && speed <= MaxSpeed
}

// Reset drops any partially accumulated hour.
func (c *Clock) Reset() { c.buffer = 0 }

// Advance accumulates dt seconds scaled by the game speed and runs one hour
// tick per full hour accumulated, at most MaxHoursPerAdvance. It returns the
// number of hour ticks run.
func (c *Clock) Advance(s *models.FarmState, dt float64) int {
	if !(dt > 0) {
		return 0
	}
	c.buffer += dt * c.speed / secondsPerHour
	ticks := 0
	for c.buffer >= 1.0 && ticks < MaxHoursPerAdvance {
		c.buffer -= 1.0
		c.AdvanceHour(s)
		ticks++
	}
	if c.buffer >= 1.0 {
		c.buffer = 0
	}
	return ticks
}

// AdvanceHour moves the clock forward one hour, rolling into a new day at
// midnight, then updates every living animal.
func (c *Clock) AdvanceHour(s *models.FarmState) {
	s.CurrentHour++
	if s.CurrentHour >= models.HoursPerDay {
		s.CurrentHour = 0
		c.AdvanceDay(s)
	}
	for i := range s.Animals {
		if s.Animals[i].IsAlive {
			c.updateAnimal(s, &s.Animals[i])
		}
	}
}

// AdvanceDay applies the daily effects: counters, season and weather, ageing
// of animals, spoilage of stock, energy restore and achievements.
func (c *Clock) AdvanceDay(s *models.FarmState) {
	s.Farmer.DaysPlayed++
	s.CurrentDay++
	s.DaysInSeason++

	if s.DaysInSeason >= models.DaysPerSeason {
		s.DaysInSeason = 0
		s.CurrentSeason = models.NextSeason(s.CurrentSeason)
		s.AddEvent(fmt.Sprintf("A new season has begun: %s!", s.CurrentSeason))
	}

	s.CurrentWeather = c.rollWeather(s.CurrentSeason)

	for i := range s.Animals {
		if !s.Animals[i].IsAlive {
			continue
		}
		s.Animals[i].Age++
		s.Animals[i].DaysOnFarm++
	}

	spoilStock(s)

	s.Farmer.Energy = min(s.Farmer.MaxEnergy, s.Farmer.Energy+dailyEnergyRestore)

	if c.achievements != nil {
		c.achievements.Evaluate(s)
	}

	s.AddEvent(fmt.Sprintf("Day %d. %s, %s.", s.CurrentDay, s.CurrentSeason, s.CurrentWeather))

	if c.OnDayEnd != nil {
		c.OnDayEnd(s)
	}
	s.DailyIncome = 0
	s.DailyExpenses = 0
}

// spoilStock ages products and feeds, removing spent entries. Keys are
// snapshotted so removal never races the traversal.
func spoilStock(s *models.FarmState) {
	productKeys := make([]models.ProductType, 0, len(s.Products))
	for k := range s.Products {
		productKeys = append(productKeys, k)
	}
	sort.Slice(productKeys, func(i, j int) bool { return productKeys[i] < productKeys[j] })
	for _, k := range productKeys {
		p := s.Products[k]
		p.DaysRemaining--
		if p.DaysRemaining <= 0 {
			delete(s.Products, k)
		}
	}

	feedKeys := make([]models.FeedType, 0, len(s.Feeds))
	for k := range s.Feeds {
		feedKeys = append(feedKeys, k)
	}
	sort.Slice(feedKeys, func(i, j int) bool { return feedKeys[i] < feedKeys[j] })
	for _, k := range feedKeys {
		f := s.Feeds[k]
		f.DaysRemaining--
		if f.DaysRemaining <= 0 || f.Amount <= 0 {
			delete(s.Feeds, k)
		}
	}
}

func (c *Clock) rollWeather(season models.Season) models.Weather {
	weights := models.WeatherWeights(season)
	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	roll := c.rng.Float64() * total
	for _, w := range weights {
		if roll < w.Weight {
			return w.Weather
		}
		roll -= w.Weight
	}
	return weights[len(weights)-1].Weather
}
