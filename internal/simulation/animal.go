package simulation

import (
	"fmt"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/internal/service/economy"
)

// Hourly decay and penalty rates.
const (
	HungerDecayPerHour    = 0.5
	HappinessDecayPerHour = 0.2
	StarvingThreshold     = 20.0
	StarvingHealthLoss    = 1.0
	SadThreshold          = 20.0
	SadHealthLoss         = 0.5
	MinSicknessLoss       = 0.5
	MaxSicknessLoss       = 2.0
)

// updateAnimal applies one hour of decay, sickness, death and cooldown to a
// living animal.
func (c *Clock) updateAnimal(s *models.FarmState, a *models.Animal) {
	a.Hunger = max(models.MinStat, a.Hunger-HungerDecayPerHour)
	a.Happiness = max(models.MinStat, a.Happiness-HappinessDecayPerHour)

	if a.Hunger < StarvingThreshold {
		a.Health -= StarvingHealthLoss
	}
	if a.Happiness < SadThreshold {
		a.Health -= SadHealthLoss
	}

	// Sickness may push health below zero; the death check below relies on it.
	c.applySickness(s, a)

	if a.Health <= 0 || a.Hunger <= 0 {
		a.IsAlive = false
		a.Health = max(models.MinStat, a.Health)
		name := string(a.Type)
		if spec, ok := models.LookupAnimal(a.Type); ok {
			name = spec.Name
		}
		s.AddEvent(fmt.Sprintf("%s (%s) has died!", a.Name, name))
	}

	if a.ProductionCooldown > 0 {
		a.ProductionCooldown--
	}
}

// SicknessChance is the hourly probability that an animal falls ill given the
// weather, the season and the level of the building sheltering it.
func SicknessChance(s *models.FarmState, t models.AnimalType) float64 {
	chance := models.WeatherSicknessEffect(s.CurrentWeather) + models.SeasonSicknessEffect(s.CurrentSeason)

	protection := 0.0
	if b := s.FindBuilding(models.ShelterFor(t)); b != nil {
		protection = economy.BuildingProtection(b.Level)
	}
	return chance * (1 - protection)
}

func (c *Clock) applySickness(s *models.FarmState, a *models.Animal) {
	if c.rng.Float64() >= SicknessChance(s, a.Type) {
		return
	}
	loss := MinSicknessLoss + c.rng.Float64()*(MaxSicknessLoss-MinSicknessLoss)
	a.Health -= loss
}
