package achievements

import (
	"fmt"
	"time"

	"github.com/mamadbah2/farmsim/internal/domain/models"
)

type predicate func(s *models.FarmState) bool

var predicates = map[models.AchievementID]predicate{
	models.AchievementFirstAnimal:  func(s *models.FarmState) bool { return s.Farmer.AnimalsBought >= 1 },
	models.AchievementTenAnimals:   func(s *models.FarmState) bool { return len(s.Animals) >= 10 },
	models.AchievementFiftyAnimals: func(s *models.FarmState) bool { return len(s.Animals) >= 50 },
	models.AchievementFirstSale:    func(s *models.FarmState) bool { return s.Farmer.ProductsSold >= 1 },
	models.AchievementRichFarmer:   func(s *models.FarmState) bool { return s.Farmer.Money >= 100000 },
	models.AchievementYearPassed:   func(s *models.FarmState) bool { return s.Farmer.DaysPlayed >= 365 },
	models.AchievementAllAnimals:   allSpecies,
	models.AchievementHappyAnimals: allHappy,
}

func allSpecies(s *models.FarmState) bool {
	seen := make(map[models.AnimalType]struct{})
	for _, a := range s.Animals {
		if a.IsAlive {
			seen[a.Type] = struct{}{}
		}
	}
	return len(seen) == models.AnimalTypeCount()
}

func allHappy(s *models.FarmState) bool {
	living := 0
	for _, a := range s.Animals {
		if !a.IsAlive {
			continue
		}
		living++
		if a.Happiness <= 80 {
			return false
		}
	}
	return living > 0
}

// Evaluator unlocks achievements whose predicates hold. It keeps no state of
// its own; the unlocked set lives in the farm state.
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator builds an evaluator stamping notifications with now.
func NewEvaluator(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now}
}

// Evaluate unlocks every newly satisfied achievement, credits its reward and
// queues a notification. Unlocked achievements are never re-locked or paid twice.
func (e *Evaluator) Evaluate(s *models.FarmState) []models.AchievementID {
	if s.Achievements == nil {
		s.Achievements = make(map[models.AchievementID]bool)
	}

	var unlocked []models.AchievementID
	for _, spec := range models.Achievements() {
		if s.Achievements[spec.ID] {
			continue
		}
		check, ok := predicates[spec.ID]
		if !ok || !check(s) {
			continue
		}
		s.Achievements[spec.ID] = true
		s.Farmer.Money += spec.Reward
		s.AddNotification(
			fmt.Sprintf("Achievement: %s", spec.Name),
			fmt.Sprintf("%s. Reward: %.0f", spec.Description, spec.Reward),
			e.now(),
		)
		unlocked = append(unlocked, spec.ID)
	}
	return unlocked
}
