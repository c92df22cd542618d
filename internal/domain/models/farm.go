package models

import "time"

// Stat bounds shared by health, hunger and happiness.
const (
	MinStat = 0.0
	MaxStat = 100.0
)

// Animal is a single animal living (or lying dead) on the farm.
type Animal struct {
	ID                 int        `json:"id" yaml:"id"`
	Type               AnimalType `json:"animal_type" yaml:"animal_type"`
	Name               string     `json:"name" yaml:"name"`
	Age                int        `json:"age" yaml:"age"`
	Health             float64    `json:"health" yaml:"health"`
	Hunger             float64    `json:"hunger" yaml:"hunger"`
	Happiness          float64    `json:"happiness" yaml:"happiness"`
	IsAlive            bool       `json:"is_alive" yaml:"is_alive"`
	ProductionCooldown int        `json:"production_cooldown" yaml:"production_cooldown"`
	Breed              string     `json:"breed" yaml:"breed"`

	TotalFed      int `json:"total_fed" yaml:"total_fed"`
	TotalProduced int `json:"total_produced" yaml:"total_produced"`
	DaysOnFarm    int `json:"days_on_farm" yaml:"days_on_farm"`
}

// NewAnimal returns a freshly purchased animal.
func NewAnimal(id int, t AnimalType, name string) Animal {
	return Animal{
		ID:        id,
		Type:      t,
		Name:      name,
		Health:    100,
		Hunger:    100,
		Happiness: 75,
		IsAlive:   true,
		Breed:     "default",
	}
}

// ProductType keys the product storage, e.g. "cow_product".
type ProductType string

// Quality grades collected produce.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityNormal    Quality = "normal"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// IsKnownQuality reports whether q is one of the quality tiers.
func IsKnownQuality(q Quality) bool {
	switch q {
	case QualityPoor, QualityNormal, QualityGood, QualityExcellent:
		return true
	}
	return false
}

// Product is the aggregated stock of one product type.
type Product struct {
	Type          ProductType `json:"product_type" yaml:"product_type"`
	Amount        float64     `json:"amount" yaml:"amount"`
	Quality       Quality     `json:"quality" yaml:"quality"`
	DaysRemaining int         `json:"days_remaining" yaml:"days_remaining"`
}

// ProductShelfLifeDays is the lifetime of a newly created product stock.
const ProductShelfLifeDays = 30

// Feed is the stored stock of one feed type.
type Feed struct {
	Type          FeedType `json:"feed_type" yaml:"feed_type"`
	Amount        float64  `json:"amount" yaml:"amount"`
	Quality       float64  `json:"quality" yaml:"quality"`
	DaysRemaining int      `json:"days_remaining" yaml:"days_remaining"`
}

// FeedShelfLifeDays is the lifetime of a newly created feed stock.
const FeedShelfLifeDays = 180

// NewFeed returns a fresh full-quality stock.
func NewFeed(t FeedType, amount float64) Feed {
	return Feed{Type: t, Amount: amount, Quality: 100, DaysRemaining: FeedShelfLifeDays}
}

// Building is a farm structure. Buildings are never destroyed.
type Building struct {
	Type     BuildingType `json:"building_type" yaml:"building_type"`
	Name     string       `json:"name" yaml:"name"`
	Level    int          `json:"level" yaml:"level"`
	Capacity int          `json:"capacity" yaml:"capacity"`
}

// Farmer holds the player's resources, skills and lifetime counters.
type Farmer struct {
	Name       string            `json:"name" yaml:"name"`
	Money      float64           `json:"money" yaml:"money"`
	Energy     float64           `json:"energy" yaml:"energy"`
	MaxEnergy  float64           `json:"max_energy" yaml:"max_energy"`
	Level      int               `json:"level" yaml:"level"`
	Experience float64           `json:"experience" yaml:"experience"`
	Skills     map[Skill]float64 `json:"skills" yaml:"skills"`

	AnimalsFed        int     `json:"animals_fed" yaml:"animals_fed"`
	ProductsCollected int     `json:"products_collected" yaml:"products_collected"`
	ProductsSold      int     `json:"products_sold" yaml:"products_sold"`
	AnimalsBought     int     `json:"animals_bought" yaml:"animals_bought"`
	AnimalsSold       int     `json:"animals_sold" yaml:"animals_sold"`
	TotalEarnings     float64 `json:"total_earnings" yaml:"total_earnings"`
	TotalSpending     float64 `json:"total_spending" yaml:"total_spending"`
	DaysPlayed        int     `json:"days_played" yaml:"days_played"`
}

// Starting values for a new farmer.
const (
	StartingMoney  = 10000.0
	StartingEnergy = 100.0
)

// NewFarmer returns a farmer at the start of a new game.
func NewFarmer(name string) Farmer {
	return Farmer{
		Name:      name,
		Money:     StartingMoney,
		Energy:    StartingEnergy,
		MaxEnergy: StartingEnergy,
		Level:     1,
		Skills:    DefaultSkills(),
	}
}

// Notification is a user-facing message queued for the UI.
type Notification struct {
	Title   string    `json:"title" yaml:"title"`
	Message string    `json:"message" yaml:"message"`
	Time    time.Time `json:"time" yaml:"time"`
}
