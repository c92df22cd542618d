// Package economy holds the pure pricing, production and capacity rules of
// the farm. Nothing here mutates state.
package economy

import (
	"math"

	"github.com/mamadbah2/farmsim/internal/domain/models"
)

const (
	animalResaleFactor      = 0.7
	baseProductPrice        = 10.0
	tradingSkillDivisor     = 200.0
	healCostPerHealthPoint  = 5.0
	capacityUpgradeFactor   = 1.5
	protectionPerLevel      = 0.10
	maxBuildingProtection   = 0.8
	warehouseFeedMultiplier = 2.0
	noWarehouseFeedCapacity = 200.0
	experiencePerLevel      = 100.0
)

// AnimalSalePrice is the money credited for selling an animal at the given health.
func AnimalSalePrice(basePrice, health float64) float64 {
	return basePrice * (health / 100) * animalResaleFactor
}

// ProductionMultiplier scales produce amount by the animal's condition.
func ProductionMultiplier(health, happiness float64) float64 {
	return (health / 100) * (happiness / 100)
}

// QualityFor maps a production multiplier to a quality tier.
func QualityFor(multiplier float64) models.Quality {
	switch {
	case multiplier >= 0.9:
		return models.QualityExcellent
	case multiplier >= 0.7:
		return models.QualityGood
	case multiplier >= 0.5:
		return models.QualityNormal
	default:
		return models.QualityPoor
	}
}

// QualityPriceMultiplier is the sale price factor of a quality tier.
func QualityPriceMultiplier(q models.Quality) float64 {
	switch q {
	case models.QualityPoor:
		return 0.5
	case models.QualityGood:
		return 1.25
	case models.QualityExcellent:
		return 1.5
	default:
		return 1.0
	}
}

// ProductSalePrice prices a sale of amount units with the trading skill bonus.
func ProductSalePrice(amount float64, q models.Quality, tradingSkill float64) float64 {
	return baseProductPrice * amount * QualityPriceMultiplier(q) * (1 + tradingSkill/tradingSkillDivisor)
}

// UpgradeCost is the price of raising a building from its current level.
func UpgradeCost(spec models.BuildingSpec, level int) float64 {
	return spec.BaseCost * math.Pow(spec.UpgradeCostMultiplier, float64(level))
}

// UpgradedCapacity is the capacity after one upgrade, rounded down.
func UpgradedCapacity(capacity int) int {
	return int(float64(capacity) * capacityUpgradeFactor)
}

// HealCost is the price of restoring an animal to full health.
func HealCost(health float64) float64 {
	return (100 - health) * healCostPerHealthPoint
}

// FeedPrice is the price of amount kilograms of a feed.
func FeedPrice(spec models.FeedSpec, amount float64) float64 {
	return spec.Price * amount
}

// BuildingProtection is the fraction of sickness chance a building absorbs.
func BuildingProtection(level int) float64 {
	return math.Min(maxBuildingProtection, float64(level)*protectionPerLevel)
}

// WarehouseFeedCapacity is the total kilograms of feed the farm can store.
func WarehouseFeedCapacity(buildings []models.Building) float64 {
	for _, b := range buildings {
		if b.Type == models.BuildingWarehouse {
			return float64(b.Capacity) * warehouseFeedMultiplier
		}
	}
	return noWarehouseFeedCapacity
}

// AnimalCapacity sums the capacity of buildings that house animals.
func AnimalCapacity(buildings []models.Building) int {
	total := 0
	for _, b := range buildings {
		switch b.Type {
		case models.BuildingBarn, models.BuildingCoop, models.BuildingStable:
			total += b.Capacity
		}
	}
	return total
}

// ExperienceToNextLevel is the experience required to leave a level.
func ExperienceToNextLevel(level int) float64 {
	return float64(level) * experiencePerLevel
}

// NetWorth values the farm: cash, resale value of living animals, feed at
// purchase price and building replacement value.
func NetWorth(s *models.FarmState) float64 {
	worth := s.Farmer.Money
	for _, a := range s.Animals {
		if !a.IsAlive {
			continue
		}
		if spec, ok := models.LookupAnimal(a.Type); ok {
			worth += AnimalSalePrice(spec.Price, a.Health)
		}
	}
	for _, f := range s.Feeds {
		if spec, ok := models.LookupFeed(f.Type); ok {
			worth += FeedPrice(spec, f.Amount)
		}
	}
	for _, b := range s.Buildings {
		baseCost := 5000.0
		if spec, ok := models.LookupBuilding(b.Type); ok {
			baseCost = spec.BaseCost
		}
		worth += baseCost * float64(b.Level)
	}
	return worth
}
