package persistence

import (
	"context"
	"maps"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmsim/internal/domain/models"
)

func populatedState() *models.FarmState {
	s := models.NewFarmState("Green Acres", "Olena")
	s.Animals = append(s.Animals,
		models.NewAnimal(1, models.AnimalCow, "Daisy"),
		models.NewAnimal(2, models.AnimalChicken, "Henny"),
	)
	s.Animals[1].IsAlive = false
	s.Animals[1].Health = 0
	s.Animals[0].Hunger = 61.25
	s.Animals[0].ProductionCooldown = 12
	s.NextAnimalID = 3
	s.Products[models.ProductTypeFor(models.AnimalCow)] = &models.Product{
		Type: models.ProductTypeFor(models.AnimalCow), Amount: 0.8125, Quality: models.QualityGood, DaysRemaining: 17,
	}
	s.Feeds[models.FeedOats] = &models.Feed{Type: models.FeedOats, Amount: 12.5, Quality: 100, DaysRemaining: 90}
	s.Buildings[0].Level = 3
	s.Buildings[0].Capacity = 22
	s.Achievements[models.AchievementFirstAnimal] = true
	s.CurrentDay = 44
	s.CurrentHour = 17
	s.CurrentSeason = models.SeasonSummer
	s.CurrentWeather = models.WeatherStormy
	s.DaysInSeason = 13
	s.Farmer.Money = 1234.5
	s.Farmer.Experience = 42
	s.Farmer.Skills[models.SkillTrading] = 17.5
	s.AddEvent("something happened")
	return s
}

func roundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	original := populatedState()

	assert.False(t, store.Exists(ctx))
	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNoSave)

	require.NoError(t, store.Save(ctx, FromState(original, "save-1", time.Now())))
	assert.True(t, store.Exists(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "save-1", doc.SaveID)

	restored, err := doc.ToState()
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestFileStore_JSONRoundTrip(t *testing.T) {
	roundTrip(t, NewFileStore(filepath.Join(t.TempDir(), "savegame.json")))
}

func TestFileStore_YAMLRoundTrip(t *testing.T) {
	roundTrip(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "savegame.yaml")))
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "savegame.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	roundTrip(t, store)

	// A second save replaces the slot.
	s := populatedState()
	s.FarmName = "Renamed"
	require.NoError(t, store.Save(context.Background(), FromState(s, "save-2", time.Now())))
	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", doc.FarmName)
	assert.Equal(t, "save-2", doc.SaveID)
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "savegame.json"))
	require.NoError(t, store.Save(context.Background(), FromState(populatedState(), "id", time.Now())))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "savegame.json", entries[0].Name())
}

func TestFileStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savegame.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDocument_ToStateRejectsInvalid(t *testing.T) {
	base := FromState(populatedState(), "id", time.Now())

	cases := map[string]func(d *Document){
		"version":            func(d *Document) { d.Version = 0 },
		"hour":               func(d *Document) { d.CurrentHour = 24 },
		"season":             func(d *Document) { d.CurrentSeason = "monsoon" },
		"weather":            func(d *Document) { d.CurrentWeather = "hail" },
		"animal type":        func(d *Document) { d.Animals = []models.Animal{{ID: 1, Type: "dragon"}} },
		"animal id":          func(d *Document) { d.NextAnimalID = 2 },
		"feed type":          func(d *Document) { d.Feeds = map[models.FeedType]models.Feed{"branches": {}} },
		"current day":        func(d *Document) { d.CurrentDay = 0 },
		"next animal":        func(d *Document) { d.NextAnimalID = 0 },
		"health above max":   func(d *Document) { d.Animals[0].Health = 500 },
		"negative hunger":    func(d *Document) { d.Animals[0].Hunger = -1 },
		"happiness NaN":      func(d *Document) { d.Animals[0].Happiness = math.NaN() },
		"duplicate id":       func(d *Document) { d.Animals[1].ID = d.Animals[0].ID },
		"negative money":     func(d *Document) { d.Farmer.Money = -9950 },
		"money NaN":          func(d *Document) { d.Farmer.Money = math.NaN() },
		"energy above max":   func(d *Document) { d.Farmer.Energy = d.Farmer.MaxEnergy + 1 },
		"unknown building":   func(d *Document) { d.Buildings[0].Type = "castle" },
		"missing building":   func(d *Document) { d.Buildings = d.Buildings[1:] },
		"duplicate building": func(d *Document) { d.Buildings[1].Type = d.Buildings[0].Type },
		"product quality": func(d *Document) {
			p := d.Products[models.ProductTypeFor(models.AnimalCow)]
			p.Quality = "legendary"
			d.Products[models.ProductTypeFor(models.AnimalCow)] = p
		},
		"product type":        func(d *Document) { d.Products["gold_product"] = models.Product{Quality: models.QualityGood} },
		"unknown achievement": func(d *Document) { d.Achievements["speedrun"] = true },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := base
			d.Animals = append([]models.Animal{}, base.Animals...)
			d.Buildings = append([]models.Building{}, base.Buildings...)
			d.Products = maps.Clone(base.Products)
			d.Achievements = maps.Clone(base.Achievements)
			mutate(&d)
			_, err := d.ToState()
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
