package farm

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/internal/service/economy"
)

const (
	feedEnergyCost    = 5.0
	collectEnergyCost = 10.0
	petEnergyCost     = 2.0

	feedHungerGain    = 30.0
	feedHappinessGain = 5.0
	petHappinessGain  = 10.0
	healHappinessGain = 10.0

	hungryThreshold       = 70.0
	minHungerToProduce    = 30.0
	minHealthToProduce    = 20.0
	productionCooldownHrs = 24
	baseProductAmount     = 1.0

	xpFeed       = 1.0
	xpCollect    = 2.0
	xpPet        = 1.0
	xpHeal       = 3.0
	xpSellAnimal = 5.0

	levelUpMaxEnergy = 5.0
	levelUpSkill     = 1.0
	maxSkill         = 100.0
)

// Fallback order used by FeedAllAnimals after the species' preferred feed.
var fallbackFeeds = []models.FeedType{models.FeedMixed, models.FeedHay, models.FeedGrain}

// Used for buildings missing from the catalog.
var defaultBuildingSpec = models.BuildingSpec{BaseCost: 5000, UpgradeCostMultiplier: 1.5}

// BuyAnimal purchases an animal of type t. An empty name is replaced by the
// species name and the new id.
func (m *Manager) BuyAnimal(t models.AnimalType, name string) (models.Animal, error) {
	spec, ok := models.LookupAnimal(t)
	if !ok {
		return models.Animal{}, m.fail(ErrUnknownAnimalType, fmt.Sprintf("Unknown animal type %q.", t))
	}
	if m.state.Farmer.Money < spec.Price {
		return models.Animal{}, m.fail(ErrInsufficientFunds, "Not enough money!")
	}
	if m.state.LivingAnimals() >= economy.AnimalCapacity(m.state.Buildings) {
		return models.Animal{}, m.fail(ErrInsufficientCapacity, "Not enough room! Upgrade your buildings.")
	}

	m.spend(spec.Price)
	m.state.Farmer.AnimalsBought++

	id := m.state.NextAnimalID
	m.state.NextAnimalID++
	if name == "" {
		name = fmt.Sprintf("%s #%d", spec.Name, id)
	}
	animal := models.NewAnimal(id, t, name)
	m.state.Animals = append(m.state.Animals, animal)

	m.state.AddEvent(fmt.Sprintf("Bought %s: %s", spec.Name, name))
	m.logger.Debug("animal bought", zap.Int("id", id), zap.String("type", string(t)), zap.Float64("price", spec.Price))
	m.checkAchievements()
	return animal, nil
}

// SellAnimal sells a living animal at a price scaled by its health and
// removes it from the farm.
func (m *Manager) SellAnimal(id int) (float64, error) {
	a, err := m.livingAnimal(id)
	if err != nil {
		return 0, err
	}
	spec, _ := models.LookupAnimal(a.Type)
	price := economy.AnimalSalePrice(spec.Price, a.Health)
	name := a.Name

	m.earn(price)
	m.state.Farmer.AnimalsSold++
	m.state.Animals = slices.DeleteFunc(m.state.Animals, func(x models.Animal) bool { return x.ID == id })

	m.state.AddEvent(fmt.Sprintf("Sold %s for %.0f", name, price))
	m.logger.Debug("animal sold", zap.Int("id", id), zap.Float64("price", price))
	m.gainExperience(xpSellAnimal)
	m.checkAchievements()
	return price, nil
}

// FeedAnimal gives one unit of feed to a living animal.
func (m *Manager) FeedAnimal(id int, feed models.FeedType) error {
	if err := m.feedAnimal(id, feed); err != nil {
		return err
	}
	m.checkAchievements()
	return nil
}

func (m *Manager) feedAnimal(id int, feed models.FeedType) error {
	a, err := m.livingAnimal(id)
	if err != nil {
		return err
	}
	if _, ok := models.LookupFeed(feed); !ok {
		return m.fail(ErrUnknownFeedType, fmt.Sprintf("Unknown feed type %q.", feed))
	}
	stock, ok := m.state.Feeds[feed]
	if !ok || stock.Amount < 1 {
		return m.fail(ErrInsufficientFeed, "Not enough feed!")
	}
	if m.state.Farmer.Energy < feedEnergyCost {
		return m.fail(ErrInsufficientEnergy, "Not enough energy!")
	}

	stock.Amount--
	m.state.Farmer.Energy -= feedEnergyCost

	quality := stock.Quality / 100
	a.Hunger = min(models.MaxStat, a.Hunger+feedHungerGain*quality)
	a.Happiness = min(models.MaxStat, a.Happiness+feedHappinessGain*quality)
	a.TotalFed++
	m.state.Farmer.AnimalsFed++

	m.gainExperience(xpFeed)
	return nil
}

// FeedAllAnimals feeds every hungry living animal, trying its preferred feed
// first and then the fallbacks. It returns the number of animals fed.
func (m *Manager) FeedAllAnimals() int {
	fed := 0
	ids := m.livingIDs()
feeding:
	for _, id := range ids {
		a := m.state.FindAnimal(id)
		if a == nil || !a.IsAlive || a.Hunger >= hungryThreshold {
			continue
		}
		for _, feed := range feedPreferences(a.Type) {
			if stock, ok := m.state.Feeds[feed]; !ok || stock.Amount < 1 {
				continue
			}
			err := m.feedAnimal(id, feed)
			if err == nil {
				fed++
				break
			}
			if errors.Is(err, ErrInsufficientEnergy) {
				break feeding
			}
		}
	}
	if fed > 0 {
		m.state.AddEvent(fmt.Sprintf("Fed %d animals", fed))
		m.checkAchievements()
	}
	return fed
}

func feedPreferences(t models.AnimalType) []models.FeedType {
	spec, ok := models.LookupAnimal(t)
	if !ok || spec.PreferredFeed == "" {
		return fallbackFeeds
	}
	return append([]models.FeedType{spec.PreferredFeed}, fallbackFeeds...)
}

// CollectProduct gathers produce from an animal that is off cooldown, fed
// and healthy. The returned product holds the collected batch only.
func (m *Manager) CollectProduct(id int) (models.Product, error) {
	product, err := m.collectProduct(id)
	if err != nil {
		return models.Product{}, err
	}
	m.checkAchievements()
	return product, nil
}

func (m *Manager) collectProduct(id int) (models.Product, error) {
	a, err := m.livingAnimal(id)
	if err != nil {
		return models.Product{}, err
	}
	if a.ProductionCooldown > 0 || a.Hunger < minHungerToProduce || a.Health < minHealthToProduce {
		return models.Product{}, ErrNotReady
	}
	if m.state.Farmer.Energy < collectEnergyCost {
		return models.Product{}, m.fail(ErrInsufficientEnergy, "Not enough energy!")
	}

	m.state.Farmer.Energy -= collectEnergyCost

	multiplier := economy.ProductionMultiplier(a.Health, a.Happiness)
	batch := models.Product{
		Type:          models.ProductTypeFor(a.Type),
		Amount:        baseProductAmount * multiplier,
		Quality:       economy.QualityFor(multiplier),
		DaysRemaining: models.ProductShelfLifeDays,
	}
	if stock, ok := m.state.Products[batch.Type]; ok {
		stock.Amount += batch.Amount
	} else {
		p := batch
		m.state.Products[batch.Type] = &p
	}

	a.ProductionCooldown = productionCooldownHrs
	a.TotalProduced++
	m.state.Farmer.ProductsCollected++

	spec, _ := models.LookupAnimal(a.Type)
	m.state.AddEvent(fmt.Sprintf("Collected %s from %s", spec.ProductName, a.Name))
	m.gainExperience(xpCollect)
	return batch, nil
}

// CollectAllProducts collects from every animal that is ready and returns
// how many collections succeeded.
func (m *Manager) CollectAllProducts() int {
	collected := 0
	for _, id := range m.livingIDs() {
		_, err := m.collectProduct(id)
		if err == nil {
			collected++
			continue
		}
		if errors.Is(err, ErrInsufficientEnergy) {
			break
		}
	}
	if collected > 0 {
		m.checkAchievements()
	}
	return collected
}

// PetAnimal cheers an animal up. Energy is floored at zero.
func (m *Manager) PetAnimal(id int) error {
	a, err := m.livingAnimal(id)
	if err != nil {
		return err
	}
	a.Happiness = min(models.MaxStat, a.Happiness+petHappinessGain)
	m.state.Farmer.Energy = max(0, m.state.Farmer.Energy-petEnergyCost)
	m.gainExperience(xpPet)
	m.checkAchievements()
	return nil
}

// HealAnimal restores an animal to full health and returns the cost paid.
func (m *Manager) HealAnimal(id int) (float64, error) {
	a, err := m.livingAnimal(id)
	if err != nil {
		return 0, err
	}
	if a.Health >= models.MaxStat {
		return 0, ErrFullHealth
	}
	cost := economy.HealCost(a.Health)
	if m.state.Farmer.Money < cost {
		return 0, m.fail(ErrInsufficientFunds, "Not enough money!")
	}

	m.spend(cost)
	a.Health = models.MaxStat
	a.Happiness = min(models.MaxStat, a.Happiness+healHappinessGain)

	m.state.AddEvent(fmt.Sprintf("%s was healed! (-%.0f)", a.Name, cost))
	m.gainExperience(xpHeal)
	m.checkAchievements()
	return cost, nil
}

// BuyFeed buys amount kilograms of feed, bounded by the warehouse capacity.
func (m *Manager) BuyFeed(t models.FeedType, amount float64) error {
	spec, ok := models.LookupFeed(t)
	if !ok {
		return m.fail(ErrUnknownFeedType, fmt.Sprintf("Unknown feed type %q.", t))
	}
	if !validAmount(amount) {
		return m.fail(ErrInvalidAmount, "Amount must be positive.")
	}

	capacity := economy.WarehouseFeedCapacity(m.state.Buildings)
	stored := 0.0
	for _, f := range m.state.Feeds {
		stored += f.Amount
	}
	if stored+amount > capacity {
		return m.fail(ErrWarehouseFull, fmt.Sprintf("Not enough room in the warehouse! Capacity: %.0f kg", capacity))
	}

	price := economy.FeedPrice(spec, amount)
	if m.state.Farmer.Money < price {
		return m.fail(ErrInsufficientFunds, "Not enough money!")
	}

	m.spend(price)
	if stock, ok := m.state.Feeds[t]; ok {
		stock.Amount += amount
	} else {
		f := models.NewFeed(t, amount)
		m.state.Feeds[t] = &f
	}

	m.state.AddEvent(fmt.Sprintf("Bought %s: %g kg", spec.Name, amount))
	m.logger.Debug("feed bought", zap.String("feed", string(t)), zap.Float64("amount", amount), zap.Float64("price", price))
	m.checkAchievements()
	return nil
}

// SellProduct sells up to amount units of a product and returns the revenue.
func (m *Manager) SellProduct(t models.ProductType, amount float64) (float64, error) {
	price, err := m.sellProduct(t, amount)
	if err != nil {
		return 0, err
	}
	m.checkAchievements()
	return price, nil
}

func (m *Manager) sellProduct(t models.ProductType, amount float64) (float64, error) {
	stock, ok := m.state.Products[t]
	if !ok {
		return 0, ErrProductNotFound
	}
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}
	sold := min(amount, stock.Amount)
	if sold <= 0 {
		return 0, ErrInvalidAmount
	}

	price := economy.ProductSalePrice(sold, stock.Quality, m.state.Farmer.Skills[models.SkillTrading])
	stock.Amount -= sold
	if stock.Amount <= 0 {
		delete(m.state.Products, t)
	}
	m.earn(price)
	m.state.Farmer.ProductsSold++

	m.state.AddEvent(fmt.Sprintf("Sold produce for %.0f", price))
	m.logger.Debug("product sold", zap.String("product", string(t)), zap.Float64("amount", sold), zap.Float64("price", price))
	return price, nil
}

// SellAllProducts sells the whole product stock and returns the revenue.
func (m *Manager) SellAllProducts() float64 {
	total := 0.0
	for _, t := range slices.Sorted(maps.Keys(m.state.Products)) {
		price, err := m.sellProduct(t, m.state.Products[t].Amount)
		if err == nil {
			total += price
		}
	}
	if total > 0 {
		m.checkAchievements()
	}
	return total
}

// UpgradeBuilding raises a building one level and grows its capacity.
func (m *Manager) UpgradeBuilding(t models.BuildingType) (models.Building, error) {
	b := m.state.FindBuilding(t)
	if b == nil {
		return models.Building{}, m.fail(ErrUnknownBuilding, fmt.Sprintf("There is no %s on the farm.", t))
	}
	spec, ok := models.LookupBuilding(t)
	if !ok {
		spec = defaultBuildingSpec
	}
	cost := economy.UpgradeCost(spec, b.Level)
	if m.state.Farmer.Money < cost {
		return models.Building{}, m.fail(ErrInsufficientFunds, "Not enough money!")
	}

	m.spend(cost)
	b.Level++
	b.Capacity = economy.UpgradedCapacity(b.Capacity)

	m.state.AddEvent(fmt.Sprintf("%s upgraded to level %d!", b.Name, b.Level))
	m.logger.Debug("building upgraded", zap.String("building", string(t)), zap.Int("level", b.Level), zap.Float64("cost", cost))
	upgraded := *b
	m.checkAchievements()
	return upgraded, nil
}

func (m *Manager) livingIDs() []int {
	ids := make([]int, 0, len(m.state.Animals))
	for _, a := range m.state.Animals {
		if a.IsAlive {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// validAmount rejects zero, negative, NaN and infinite quantities.
func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
