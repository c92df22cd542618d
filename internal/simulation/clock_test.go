package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mamadbah2/farmsim/internal/domain/models"
)

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// never is a source whose draws never trigger sickness.
func never() *seqRand { return &seqRand{vals: []float64{0.999999}} }

type countingChecker struct{ calls int }

func (c *countingChecker) Evaluate(*models.FarmState) []models.AchievementID {
	c.calls++
	return nil
}

func newState() *models.FarmState {
	return models.NewFarmState("Test", "Tester")
}

func TestAdvance_AccumulatesFractionalTime(t *testing.T) {
	s := newState()
	c := NewClock(never(), nil)

	assert.Equal(t, 0, c.Advance(s, 0.5))
	assert.Equal(t, 6, s.CurrentHour)
	assert.Equal(t, 1, c.Advance(s, 0.5))
	assert.Equal(t, 7, s.CurrentHour)
	assert.Equal(t, 3, c.Advance(s, 3.2))
	assert.Equal(t, 10, s.CurrentHour)
	assert.Equal(t, 0, c.Advance(s, -1))
}

func TestAdvance_ScalesBySpeed(t *testing.T) {
	s := newState()
	c := NewClock(never(), nil)

	require.ErrorIs(t, c.SetSpeed(0), ErrInvalidSpeed)
	require.NoError(t, c.SetSpeed(2))
	assert.Equal(t, 1, c.Advance(s, 0.5))
	assert.InDelta(t, 2.0, c.Speed(), 1e-9)
}

func TestSetSpeed_RejectsOutOfRange(t *testing.T) {
	c := NewClock(never(), nil)

	for _, speed := range []float64{-1, 0, MaxSpeed + 1, 1e300, math.Inf(1), math.NaN()} {
		assert.ErrorIs(t, c.SetSpeed(speed), ErrInvalidSpeed, "speed %v", speed)
	}
	require.NoError(t, c.SetSpeed(MaxSpeed))
	assert.Equal(t, MaxSpeed, c.Speed())
}

func TestAdvance_BoundsHoursPerCall(t *testing.T) {
	s := newState()
	c := NewClock(never(), nil)
	require.NoError(t, c.SetSpeed(MaxSpeed))

	assert.Equal(t, MaxHoursPerAdvance, c.Advance(s, 1e300))
	assert.Equal(t, MaxHoursPerAdvance, c.Advance(s, math.Inf(1)))
	assert.Equal(t, 0, c.Advance(s, math.NaN()))
	// The dropped backlog does not carry over.
	assert.Equal(t, 10, c.Advance(s, 0.1))
}

func TestAdvanceHour_DecaysLivingAnimals(t *testing.T) {
	s := newState()
	a := models.NewAnimal(1, models.AnimalCow, "Daisy")
	a.ProductionCooldown = 3
	s.Animals = append(s.Animals, a)
	c := NewClock(never(), nil)

	c.AdvanceHour(s)

	got := s.Animals[0]
	assert.InDelta(t, 99.5, got.Hunger, 1e-9)
	assert.InDelta(t, 74.8, got.Happiness, 1e-9)
	assert.InDelta(t, 100.0, got.Health, 1e-9)
	assert.Equal(t, 2, got.ProductionCooldown)
	assert.True(t, got.IsAlive)
}

func TestAdvanceHour_StarvingAndSadAnimalsLoseHealth(t *testing.T) {
	s := newState()
	a := models.NewAnimal(1, models.AnimalPig, "Oink")
	a.Hunger = 10
	a.Happiness = 10
	s.Animals = append(s.Animals, a)
	c := NewClock(never(), nil)

	c.AdvanceHour(s)

	assert.InDelta(t, 98.5, s.Animals[0].Health, 1e-9)
}

func TestAdvanceHour_SicknessReducesHealth(t *testing.T) {
	s := newState()
	s.Animals = append(s.Animals, models.NewAnimal(1, models.AnimalCow, "Daisy"))
	// First draw triggers sickness, second picks the loss: 0.5 + 0.5*1.5.
	c := NewClock(&seqRand{vals: []float64{0, 0.5}}, nil)

	c.AdvanceHour(s)

	assert.InDelta(t, 100-1.25, s.Animals[0].Health, 1e-9)
}

func TestAdvanceHour_SicknessCanKill(t *testing.T) {
	s := newState()
	a := models.NewAnimal(7, models.AnimalDuck, "Quack")
	a.Health = 0.3
	s.Animals = append(s.Animals, a)
	c := NewClock(&seqRand{vals: []float64{0, 0}}, nil)

	c.AdvanceHour(s)

	got := s.Animals[0]
	assert.False(t, got.IsAlive)
	assert.InDelta(t, 0.0, got.Health, 1e-9)
	require.NotEmpty(t, s.Events)
	assert.Contains(t, s.Events[len(s.Events)-1], "Quack (Duck) has died!")
}

func TestAdvanceHour_DeadAnimalsAreFrozen(t *testing.T) {
	s := newState()
	a := models.NewAnimal(1, models.AnimalCow, "Gone")
	a.IsAlive = false
	a.Health = 0
	a.Hunger = 40
	a.ProductionCooldown = 5
	s.Animals = append(s.Animals, a)
	c := NewClock(never(), nil)

	for i := 0; i < 48; i++ {
		c.AdvanceHour(s)
	}

	assert.Equal(t, a, s.Animals[0])
}

func TestSicknessChance_BuildingProtection(t *testing.T) {
	s := newState()
	s.CurrentWeather = models.WeatherStormy
	s.CurrentSeason = models.SeasonWinter

	assert.InDelta(t, 0.04*0.9, SicknessChance(s, models.AnimalHorse), 1e-12)

	s.FindBuilding(models.BuildingStable).Level = 10
	assert.InDelta(t, 0.04*0.2, SicknessChance(s, models.AnimalHorse), 1e-12)

	s.Buildings = nil
	assert.InDelta(t, 0.04, SicknessChance(s, models.AnimalHorse), 1e-12)
}

func TestAdvanceHour_MidnightRollsDay(t *testing.T) {
	s := newState()
	s.CurrentHour = 23
	c := NewClock(never(), nil)

	c.AdvanceHour(s)

	assert.Equal(t, 0, s.CurrentHour)
	assert.Equal(t, 2, s.CurrentDay)
	assert.Equal(t, 1, s.Farmer.DaysPlayed)
	assert.Equal(t, 1, s.DaysInSeason)
}

func TestAdvanceDay_FullSeasonCycle(t *testing.T) {
	s := newState()
	c := NewClock(never(), nil)

	for i := 0; i < 29; i++ {
		c.AdvanceDay(s)
	}
	assert.Equal(t, models.SeasonSpring, s.CurrentSeason)
	assert.Equal(t, 29, s.DaysInSeason)

	c.AdvanceDay(s)
	assert.Equal(t, models.SeasonSummer, s.CurrentSeason)
	assert.Equal(t, 0, s.DaysInSeason)

	for _, want := range []models.Season{models.SeasonAutumn, models.SeasonWinter, models.SeasonSpring} {
		for i := 0; i < models.DaysPerSeason; i++ {
			c.AdvanceDay(s)
		}
		assert.Equal(t, want, s.CurrentSeason)
		assert.Equal(t, 0, s.DaysInSeason)
	}
}

func TestAdvanceDay_WeatherFollowsSeasonWeights(t *testing.T) {
	s := newState()
	s.CurrentSeason = models.SeasonWinter
	c := NewClock(&seqRand{vals: []float64{0.999}}, nil)
	c.AdvanceDay(s)
	assert.Equal(t, models.WeatherFoggy, s.CurrentWeather)

	// 0.5 of winter's 100 weight units lands in snowy (40..90).
	c = NewClock(&seqRand{vals: []float64{0.5}}, nil)
	c.AdvanceDay(s)
	assert.Equal(t, models.WeatherSnowy, s.CurrentWeather)

	s.CurrentSeason = models.SeasonSummer
	c = NewClock(&seqRand{vals: []float64{0.85}}, nil)
	c.AdvanceDay(s)
	assert.Equal(t, models.WeatherStormy, s.CurrentWeather)
}

func TestAdvanceDay_AgesAndSpoils(t *testing.T) {
	s := newState()
	s.Animals = append(s.Animals, models.NewAnimal(1, models.AnimalSheep, "Woolly"))
	s.Products[models.ProductTypeFor(models.AnimalSheep)] = &models.Product{
		Type: models.ProductTypeFor(models.AnimalSheep), Amount: 2, Quality: models.QualityGood, DaysRemaining: 1,
	}
	s.Products[models.ProductTypeFor(models.AnimalCow)] = &models.Product{
		Type: models.ProductTypeFor(models.AnimalCow), Amount: 1, Quality: models.QualityGood, DaysRemaining: 5,
	}
	s.Feeds[models.FeedHay].Amount = 0
	s.Feeds[models.FeedGrain].DaysRemaining = 1
	s.Farmer.Energy = 90
	c := NewClock(never(), nil)

	c.AdvanceDay(s)

	assert.Equal(t, 1, s.Animals[0].Age)
	assert.Equal(t, 1, s.Animals[0].DaysOnFarm)
	assert.NotContains(t, s.Products, models.ProductTypeFor(models.AnimalSheep))
	assert.Equal(t, 4, s.Products[models.ProductTypeFor(models.AnimalCow)].DaysRemaining)
	assert.NotContains(t, s.Feeds, models.FeedHay)
	assert.NotContains(t, s.Feeds, models.FeedGrain)
	assert.Equal(t, models.FeedShelfLifeDays-1, s.Feeds[models.FeedMixed].DaysRemaining)
	assert.InDelta(t, 100.0, s.Farmer.Energy, 1e-9)
}

func TestAdvanceDay_RunsAchievementsAndHook(t *testing.T) {
	s := newState()
	s.DailyIncome = 40
	s.DailyExpenses = 15
	checker := &countingChecker{}
	c := NewClock(never(), checker)

	var seenIncome float64
	c.OnDayEnd = func(st *models.FarmState) { seenIncome = st.DailyIncome }

	c.AdvanceDay(s)

	assert.Equal(t, 1, checker.calls)
	assert.InDelta(t, 40.0, seenIncome, 1e-9)
	assert.Zero(t, s.DailyIncome)
	assert.Zero(t, s.DailyExpenses)
	assert.Contains(t, s.Events[len(s.Events)-1], "Day 2. spring")
}

func TestAdvanceHour_StatsStayInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newState()
		stat := rapid.Float64Range(0, 100)
		n := rapid.IntRange(1, 5).Draw(rt, "animals")
		for i := 0; i < n; i++ {
			a := models.NewAnimal(i+1, models.AnimalGoat, "g")
			a.Health = rapid.Float64Range(0.01, 100).Draw(rt, "health")
			a.Hunger = rapid.Float64Range(0.01, 100).Draw(rt, "hunger")
			a.Happiness = stat.Draw(rt, "happiness")
			s.Animals = append(s.Animals, a)
		}
		draws := rapid.SliceOfN(rapid.Float64Range(0, 0.999999), 1, 16).Draw(rt, "draws")
		s.CurrentWeather = rapid.SampledFrom([]models.Weather{
			models.WeatherSunny, models.WeatherStormy, models.WeatherSnowy,
		}).Draw(rt, "weather")
		c := NewClock(&seqRand{vals: draws}, nil)

		hours := rapid.IntRange(1, 72).Draw(rt, "hours")
		for h := 0; h < hours; h++ {
			c.AdvanceHour(s)
			for _, a := range s.Animals {
				for _, v := range []float64{a.Health, a.Hunger, a.Happiness} {
					if v < models.MinStat || v > models.MaxStat {
						rt.Fatalf("stat %v out of bounds for animal %d", v, a.ID)
					}
				}
			}
		}
	})
}
