// Package farm owns a single farm state and exposes every player action on
// it. A Manager is not safe for concurrent use; hosts serialize access.
package farm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/internal/persistence"
	"github.com/mamadbah2/farmsim/internal/service/achievements"
	"github.com/mamadbah2/farmsim/internal/service/economy"
	"github.com/mamadbah2/farmsim/internal/simulation"
)

// Default names used until the player starts a named game.
const (
	DefaultFarmName   = "My Farm"
	DefaultFarmerName = "Farmer"
)

// Notification titles.
const (
	titleError   = "Error"
	titleHint    = "Hint"
	titleSaved   = "Saved"
	titleLoaded  = "Loaded"
	titleLevelUp = "Level up"
)

// Manager applies player operations and the passage of time to a farm.
type Manager struct {
	state        *models.FarmState
	clock        *simulation.Clock
	achievements *achievements.Evaluator
	store        persistence.Store
	logger       *zap.Logger
	now          func() time.Time
	newSaveID    func() string
	reportHook   func(models.DailyReport)
}

// NewManager builds a manager holding a fresh default game. store may be nil
// when persistence is not needed.
func NewManager(store persistence.Store, rng simulation.Rand, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:     store,
		logger:    logger,
		now:       time.Now,
		newSaveID: uuid.NewString,
	}
	m.achievements = achievements.NewEvaluator(func() time.Time { return m.now() })
	m.clock = simulation.NewClock(rng, m.achievements)
	m.clock.OnDayEnd = m.dayEnded
	m.state = models.NewFarmState(DefaultFarmName, DefaultFarmerName)
	return m
}

// SetReportHook registers fn to receive a report at the end of every in-game day.
func (m *Manager) SetReportHook(fn func(models.DailyReport)) {
	m.reportHook = fn
}

// NewGame discards the current state and starts over.
func (m *Manager) NewGame(farmName, farmerName string) {
	if farmName == "" {
		farmName = DefaultFarmName
	}
	if farmerName == "" {
		farmerName = DefaultFarmerName
	}
	m.state = models.NewFarmState(farmName, farmerName)
	m.clock.Reset()
	m.state.AddEvent(fmt.Sprintf("Welcome to the farm '%s'!", farmName))
	m.state.AddNotification(titleHint, "Start by buying animals in the shop!", m.now())
	m.logger.Info("new game started", zap.String("farm", farmName), zap.String("farmer", farmerName))
}

// Update advances game time by dt real seconds and returns the number of
// in-game hours that elapsed.
func (m *Manager) Update(dt float64) int {
	return m.clock.Advance(m.state, dt)
}

// SetSpeed changes the game speed multiplier.
func (m *Manager) SetSpeed(speed float64) error {
	if err := m.clock.SetSpeed(speed); err != nil {
		return err
	}
	m.logger.Debug("game speed changed", zap.Float64("speed", speed))
	return nil
}

// Speed returns the game speed multiplier.
func (m *Manager) Speed() float64 { return m.clock.Speed() }

// State returns a deep copy of the farm state.
func (m *Manager) State() *models.FarmState { return m.state.Clone() }

// View calls fn with the live state. fn must not modify or retain it.
func (m *Manager) View(fn func(s *models.FarmState)) { fn(m.state) }

// CurrentDay returns the in-game day.
func (m *Manager) CurrentDay() int { return m.state.CurrentDay }

// Animal returns a copy of the animal with id.
func (m *Manager) Animal(id int) (models.Animal, bool) {
	a := m.state.FindAnimal(id)
	if a == nil {
		return models.Animal{}, false
	}
	return *a, true
}

// TotalCapacity is the number of animals the farm buildings can house.
func (m *Manager) TotalCapacity() int { return economy.AnimalCapacity(m.state.Buildings) }

// LivingAnimals counts animals still alive.
func (m *Manager) LivingAnimals() int { return m.state.LivingAnimals() }

// NetWorth values the whole farm.
func (m *Manager) NetWorth() float64 { return economy.NetWorth(m.state) }

// Events returns a copy of the event log, oldest first.
func (m *Manager) Events() []string { return append([]string{}, m.state.Events...) }

// DrainNotifications returns and clears queued notifications.
func (m *Manager) DrainNotifications() []models.Notification {
	return m.state.DrainNotifications()
}

// HasSave reports whether a saved game exists.
func (m *Manager) HasSave(ctx context.Context) bool {
	return m.store != nil && m.store.Exists(ctx)
}

// Save writes the current state to the store.
func (m *Manager) Save(ctx context.Context) error {
	if m.store == nil {
		return ErrNoStore
	}
	doc := persistence.FromState(m.state, m.newSaveID(), m.now())
	if err := m.store.Save(ctx, doc); err != nil {
		m.logger.Warn("save failed", zap.Error(err))
		m.notify(titleError, fmt.Sprintf("Could not save the game: %v", err))
		return fmt.Errorf("save game: %w", err)
	}
	m.logger.Info("game saved", zap.String("save_id", doc.SaveID), zap.Int("day", m.state.CurrentDay))
	m.notify(titleSaved, "Game saved successfully!")
	return nil
}

// Load replaces the current state with the saved one. On failure the
// current state is left untouched.
func (m *Manager) Load(ctx context.Context) error {
	if m.store == nil {
		return persistence.ErrNoSave
	}
	doc, err := m.store.Load(ctx)
	if err == nil {
		var loaded *models.FarmState
		if loaded, err = doc.ToState(); err == nil {
			loaded.Notifications = m.state.Notifications
			m.state = loaded
			m.clock.Reset()
			m.logger.Info("game loaded", zap.String("save_id", doc.SaveID), zap.Int("day", loaded.CurrentDay))
			m.notify(titleLoaded, "Game loaded successfully!")
			return nil
		}
	}
	m.logger.Warn("load failed", zap.Error(err))
	m.notify(titleError, fmt.Sprintf("Could not load the game: %v", err))
	return fmt.Errorf("load game: %w", err)
}

func (m *Manager) notify(title, message string) {
	m.state.AddNotification(title, message, m.now())
}

// fail queues a user-facing error and returns err.
func (m *Manager) fail(err error, message string) error {
	m.logger.Debug("operation rejected", zap.Error(err))
	m.notify(titleError, message)
	return err
}

func (m *Manager) spend(amount float64) {
	m.state.Farmer.Money -= amount
	m.state.Farmer.TotalSpending += amount
	m.state.DailyExpenses += amount
}

func (m *Manager) earn(amount float64) {
	m.state.Farmer.Money += amount
	m.state.Farmer.TotalEarnings += amount
	m.state.DailyIncome += amount
}

// gainExperience adds xp and levels the farmer up, carrying the remainder.
// Every level raises max energy, refills energy and improves every skill.
func (m *Manager) gainExperience(xp float64) {
	f := &m.state.Farmer
	f.Experience += xp
	for f.Experience >= economy.ExperienceToNextLevel(f.Level) {
		f.Experience -= economy.ExperienceToNextLevel(f.Level)
		f.Level++
		f.MaxEnergy += levelUpMaxEnergy
		f.Energy = f.MaxEnergy
		for skill, v := range f.Skills {
			f.Skills[skill] = min(maxSkill, v+levelUpSkill)
		}
		m.state.AddEvent(fmt.Sprintf("%s reached level %d!", f.Name, f.Level))
		m.notify(titleLevelUp, fmt.Sprintf("You are now level %d.", f.Level))
	}
}

func (m *Manager) checkAchievements() {
	for _, id := range m.achievements.Evaluate(m.state) {
		m.logger.Info("achievement unlocked", zap.String("achievement", string(id)))
	}
}

// livingAnimal resolves id to a living animal.
func (m *Manager) livingAnimal(id int) (*models.Animal, error) {
	a := m.state.FindAnimal(id)
	if a == nil {
		return nil, ErrAnimalNotFound
	}
	if !a.IsAlive {
		return nil, ErrAnimalDead
	}
	return a, nil
}

func (m *Manager) dayEnded(s *models.FarmState) {
	if m.reportHook == nil {
		return
	}
	m.reportHook(BuildDailyReport(s, m.now()))
}

// BuildDailyReport summarizes the day that just finished. It must run before
// the daily ledger is reset.
func BuildDailyReport(s *models.FarmState, at time.Time) models.DailyReport {
	r := models.DailyReport{
		FarmName:  s.FarmName,
		Day:       s.CurrentDay - 1,
		Season:    s.CurrentSeason,
		Weather:   s.CurrentWeather,
		Money:     s.Farmer.Money,
		NetWorth:  economy.NetWorth(s),
		Income:    s.DailyIncome,
		Expenses:  s.DailyExpenses,
		Profit:    s.DailyIncome - s.DailyExpenses,
		CreatedAt: at.UTC(),
	}
	for _, a := range s.Animals {
		if a.IsAlive {
			r.LivingAnimals++
		} else {
			r.DeadAnimals++
		}
	}
	for _, p := range s.Products {
		r.ProductStock += p.Amount
	}
	for _, f := range s.Feeds {
		r.FeedStock += f.Amount
	}
	return r
}
