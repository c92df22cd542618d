package models

// AnimalType enumerates the species that can live on the farm.
type AnimalType string

const (
	AnimalCow     AnimalType = "cow"
	AnimalChicken AnimalType = "chicken"
	AnimalPig     AnimalType = "pig"
	AnimalSheep   AnimalType = "sheep"
	AnimalGoat    AnimalType = "goat"
	AnimalDuck    AnimalType = "duck"
	AnimalRabbit  AnimalType = "rabbit"
	AnimalHorse   AnimalType = "horse"
)

// FeedType enumerates purchasable feeds.
type FeedType string

const (
	FeedHay        FeedType = "hay"
	FeedGrain      FeedType = "grain"
	FeedCorn       FeedType = "corn"
	FeedMixed      FeedType = "mixed"
	FeedGrass      FeedType = "grass"
	FeedVegetables FeedType = "vegetables"
	FeedOats       FeedType = "oats"
	FeedCarrots    FeedType = "carrots"
	FeedPremium    FeedType = "premium"
)

// BuildingType enumerates farm buildings.
type BuildingType string

const (
	BuildingBarn         BuildingType = "barn"
	BuildingCoop         BuildingType = "coop"
	BuildingStable       BuildingType = "stable"
	BuildingWarehouse    BuildingType = "warehouse"
	BuildingRefrigerator BuildingType = "refrigerator"
)

// Season is one of the four cyclic seasons.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Weather is the daily weather condition.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherStormy Weather = "stormy"
	WeatherSnowy  Weather = "snowy"
	WeatherFoggy  Weather = "foggy"
)

// AchievementID identifies an unlockable achievement.
type AchievementID string

const (
	AchievementFirstAnimal  AchievementID = "first_animal"
	AchievementTenAnimals   AchievementID = "ten_animals"
	AchievementFiftyAnimals AchievementID = "fifty_animals"
	AchievementFirstSale    AchievementID = "first_sale"
	AchievementRichFarmer   AchievementID = "rich_farmer"
	AchievementYearPassed   AchievementID = "year_passed"
	AchievementAllAnimals   AchievementID = "all_animals"
	AchievementHappyAnimals AchievementID = "happy_animals"
)

// Skill names a farmer skill.
type Skill string

const (
	SkillAnimalCare Skill = "animal_care"
	SkillFeeding    Skill = "feeding"
	SkillMilking    Skill = "milking"
	SkillShearing   Skill = "shearing"
	SkillVeterinary Skill = "veterinary"
	SkillTrading    Skill = "trading"
	SkillBreeding   Skill = "breeding"
	SkillCrafting   Skill = "crafting"
)

// AnimalSpec is the static definition of an animal type.
type AnimalSpec struct {
	Type        AnimalType
	Name        string
	Price       float64
	ProductName string
	Shelter     BuildingType
	// PreferredFeed is empty when the species has no catalog preference.
	PreferredFeed FeedType
}

// FeedSpec is the static definition of a feed type.
type FeedSpec struct {
	Type      FeedType
	Name      string
	Price     float64
	Nutrition float64
}

// BuildingSpec is the static definition of a building type.
type BuildingSpec struct {
	Type                  BuildingType
	Name                  string
	BaseCapacity          int
	BaseCost              float64
	UpgradeCostMultiplier float64
}

// AchievementSpec describes an achievement and its money reward.
type AchievementSpec struct {
	ID          AchievementID
	Name        string
	Description string
	Reward      float64
}

const (
	DaysPerSeason = 30
	HoursPerDay   = 24
)

var animalCatalog = map[AnimalType]AnimalSpec{
	AnimalCow:     {Type: AnimalCow, Name: "Cow", Price: 15000, ProductName: "Milk", Shelter: BuildingBarn, PreferredFeed: FeedHay},
	AnimalChicken: {Type: AnimalChicken, Name: "Chicken", Price: 150, ProductName: "Eggs", Shelter: BuildingCoop, PreferredFeed: FeedGrain},
	AnimalPig:     {Type: AnimalPig, Name: "Pig", Price: 3000, ProductName: "Lard", Shelter: BuildingBarn, PreferredFeed: FeedMixed},
	AnimalSheep:   {Type: AnimalSheep, Name: "Sheep", Price: 2000, ProductName: "Wool", Shelter: BuildingBarn, PreferredFeed: FeedGrass},
	AnimalGoat:    {Type: AnimalGoat, Name: "Goat", Price: 1800, ProductName: "Goat milk", Shelter: BuildingBarn},
	AnimalDuck:    {Type: AnimalDuck, Name: "Duck", Price: 100, ProductName: "Duck eggs", Shelter: BuildingCoop, PreferredFeed: FeedGrain},
	AnimalRabbit:  {Type: AnimalRabbit, Name: "Rabbit", Price: 200, ProductName: "Fur", Shelter: BuildingCoop, PreferredFeed: FeedCarrots},
	AnimalHorse:   {Type: AnimalHorse, Name: "Horse", Price: 25000, ProductName: "Work", Shelter: BuildingStable, PreferredFeed: FeedOats},
}

var feedCatalog = map[FeedType]FeedSpec{
	FeedHay:        {Type: FeedHay, Name: "Hay", Price: 10, Nutrition: 25},
	FeedGrain:      {Type: FeedGrain, Name: "Grain", Price: 15, Nutrition: 30},
	FeedCorn:       {Type: FeedCorn, Name: "Corn", Price: 12, Nutrition: 28},
	FeedMixed:      {Type: FeedMixed, Name: "Mixed feed", Price: 25, Nutrition: 40},
	FeedGrass:      {Type: FeedGrass, Name: "Grass", Price: 5, Nutrition: 15},
	FeedVegetables: {Type: FeedVegetables, Name: "Vegetables", Price: 20, Nutrition: 35},
	FeedOats:       {Type: FeedOats, Name: "Oats", Price: 18, Nutrition: 32},
	FeedCarrots:    {Type: FeedCarrots, Name: "Carrots", Price: 8, Nutrition: 20},
	FeedPremium:    {Type: FeedPremium, Name: "Premium feed", Price: 50, Nutrition: 50},
}

var buildingCatalog = map[BuildingType]BuildingSpec{
	BuildingBarn:         {Type: BuildingBarn, Name: "Barn", BaseCapacity: 10, BaseCost: 5000, UpgradeCostMultiplier: 1.5},
	BuildingCoop:         {Type: BuildingCoop, Name: "Coop", BaseCapacity: 20, BaseCost: 2000, UpgradeCostMultiplier: 1.4},
	BuildingStable:       {Type: BuildingStable, Name: "Stable", BaseCapacity: 5, BaseCost: 8000, UpgradeCostMultiplier: 1.6},
	BuildingWarehouse:    {Type: BuildingWarehouse, Name: "Warehouse", BaseCapacity: 100, BaseCost: 3000, UpgradeCostMultiplier: 1.3},
	BuildingRefrigerator: {Type: BuildingRefrigerator, Name: "Refrigerator", BaseCapacity: 50, BaseCost: 10000, UpgradeCostMultiplier: 1.5},
}

var achievementCatalog = []AchievementSpec{
	{ID: AchievementFirstAnimal, Name: "First friend", Description: "Buy your first animal", Reward: 100},
	{ID: AchievementTenAnimals, Name: "Small farm", Description: "Keep 10 animals on the farm", Reward: 500},
	{ID: AchievementFiftyAnimals, Name: "Big farm", Description: "Keep 50 animals on the farm", Reward: 2000},
	{ID: AchievementFirstSale, Name: "First sale", Description: "Sell your first produce", Reward: 50},
	{ID: AchievementRichFarmer, Name: "Rich farmer", Description: "Save up 100,000", Reward: 5000},
	{ID: AchievementYearPassed, Name: "A year on the farm", Description: "Play for a whole year", Reward: 1000},
	{ID: AchievementAllAnimals, Name: "Noah's ark", Description: "Keep one animal of every kind", Reward: 3000},
	{ID: AchievementHappyAnimals, Name: "Happy animals", Description: "All animals above 80% happiness", Reward: 1500},
}

var seasonCycle = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

// WeatherWeight is one entry of a season's weather distribution.
type WeatherWeight struct {
	Weather Weather
	Weight  float64
}

// Ordered so weighted draws are reproducible for a fixed seed.
var weatherWeights = map[Season][]WeatherWeight{
	SeasonSpring: {{WeatherSunny, 30}, {WeatherCloudy, 30}, {WeatherRainy, 30}, {WeatherFoggy, 10}},
	SeasonSummer: {{WeatherSunny, 60}, {WeatherCloudy, 20}, {WeatherStormy, 15}, {WeatherFoggy, 5}},
	SeasonAutumn: {{WeatherSunny, 20}, {WeatherCloudy, 30}, {WeatherRainy, 35}, {WeatherFoggy, 15}},
	SeasonWinter: {{WeatherSunny, 15}, {WeatherCloudy, 25}, {WeatherSnowy, 50}, {WeatherFoggy, 10}},
}

var weatherSickness = map[Weather]float64{
	WeatherSunny:  0.0,
	WeatherCloudy: 0.005,
	WeatherRainy:  0.015,
	WeatherStormy: 0.025,
	WeatherSnowy:  0.02,
	WeatherFoggy:  0.01,
}

var seasonSickness = map[Season]float64{
	SeasonSpring: 0.005,
	SeasonSummer: 0.0,
	SeasonAutumn: 0.01,
	SeasonWinter: 0.015,
}

var defaultSkills = map[Skill]float64{
	SkillAnimalCare: 10,
	SkillFeeding:    10,
	SkillMilking:    5,
	SkillShearing:   5,
	SkillVeterinary: 5,
	SkillTrading:    10,
	SkillBreeding:   5,
	SkillCrafting:   5,
}

// LookupAnimal returns the definition of an animal type.
func LookupAnimal(t AnimalType) (AnimalSpec, bool) {
	spec, ok := animalCatalog[t]
	return spec, ok
}

// LookupFeed returns the definition of a feed type.
func LookupFeed(t FeedType) (FeedSpec, bool) {
	spec, ok := feedCatalog[t]
	return spec, ok
}

// LookupBuilding returns the definition of a building type.
func LookupBuilding(t BuildingType) (BuildingSpec, bool) {
	spec, ok := buildingCatalog[t]
	return spec, ok
}

// LookupAchievement returns the definition of an achievement.
func LookupAchievement(id AchievementID) (AchievementSpec, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementSpec{}, false
}

// Achievements lists every achievement in evaluation order.
func Achievements() []AchievementSpec {
	out := make([]AchievementSpec, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// StartingBuildings lists the buildings every farm has from day one.
func StartingBuildings() []BuildingType {
	return []BuildingType{BuildingBarn, BuildingCoop, BuildingStable, BuildingWarehouse}
}

// AnimalTypeCount is the number of species in the catalog.
func AnimalTypeCount() int { return len(animalCatalog) }

// ShelterFor returns the building that houses the species. Unknown species
// default to the barn.
func ShelterFor(t AnimalType) BuildingType {
	if spec, ok := animalCatalog[t]; ok {
		return spec.Shelter
	}
	return BuildingBarn
}

// NextSeason returns the season following s in the cycle.
func NextSeason(s Season) Season {
	for i, candidate := range seasonCycle {
		if candidate == s {
			return seasonCycle[(i+1)%len(seasonCycle)]
		}
	}
	return SeasonSpring
}

// WeatherWeights returns the weather distribution for a season, falling back
// to spring for unknown seasons.
func WeatherWeights(s Season) []WeatherWeight {
	if w, ok := weatherWeights[s]; ok {
		return w
	}
	return weatherWeights[SeasonSpring]
}

// IsKnownWeather reports whether w is a catalog weather.
func IsKnownWeather(w Weather) bool {
	_, ok := weatherSickness[w]
	return ok
}

// IsKnownSeason reports whether s is one of the four seasons.
func IsKnownSeason(s Season) bool {
	_, ok := seasonSickness[s]
	return ok
}

// WeatherSicknessEffect is the hourly sickness chance contributed by weather.
func WeatherSicknessEffect(w Weather) float64 { return weatherSickness[w] }

// SeasonSicknessEffect is the hourly sickness chance contributed by season.
func SeasonSicknessEffect(s Season) float64 { return seasonSickness[s] }

// DefaultSkills returns a fresh copy of the starting skill set.
func DefaultSkills() map[Skill]float64 {
	out := make(map[Skill]float64, len(defaultSkills))
	for k, v := range defaultSkills {
		out[k] = v
	}
	return out
}

// IsKnownProduct reports whether p is produced by some catalog animal.
func IsKnownProduct(p ProductType) bool {
	for t := range animalCatalog {
		if ProductTypeFor(t) == p {
			return true
		}
	}
	return false
}

// ProductTypeFor derives the product key produced by an animal type.
func ProductTypeFor(t AnimalType) ProductType {
	return ProductType(string(t) + "_product")
}
