package models

import "time"

// DailyReport summarizes one finished in-game day for the reporting sinks.
type DailyReport struct {
	FarmName      string    `bson:"farm_name" json:"farm_name"`
	Day           int       `bson:"day" json:"day"`
	Season        Season    `bson:"season" json:"season"`
	Weather       Weather   `bson:"weather" json:"weather"`
	Money         float64   `bson:"money" json:"money"`
	NetWorth      float64   `bson:"net_worth" json:"net_worth"`
	LivingAnimals int       `bson:"living_animals" json:"living_animals"`
	DeadAnimals   int       `bson:"dead_animals" json:"dead_animals"`
	ProductStock  float64   `bson:"product_stock" json:"product_stock"`
	FeedStock     float64   `bson:"feed_stock" json:"feed_stock"`
	Income        float64   `bson:"income" json:"income"`
	Expenses      float64   `bson:"expenses" json:"expenses"`
	Profit        float64   `bson:"profit" json:"profit"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
