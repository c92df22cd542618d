// Package metrics exposes the farm's vital signs as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/internal/service/economy"
)

const namespace = "farmsim"

// Recorder owns a private registry so tests and multiple sessions never
// collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	money    prometheus.Gauge
	netWorth prometheus.Gauge
	energy   prometheus.Gauge
	day      prometheus.Gauge
	animals  *prometheus.GaugeVec
	hours    prometheus.Counter
	days     prometheus.Counter
	saves    *prometheus.CounterVec
}

// NewRecorder registers the farm metrics, plus Go runtime collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		money: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "money", Help: "Cash held by the farmer.",
		}),
		netWorth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "net_worth", Help: "Total value of the farm.",
		}),
		energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "farmer_energy", Help: "Remaining farmer energy.",
		}),
		day: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "current_day", Help: "Current in-game day.",
		}),
		animals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "animals", Help: "Animals on the farm by status.",
		}, []string{"status"}),
		hours: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "game_hours_total", Help: "In-game hours simulated.",
		}),
		days: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "game_days_total", Help: "In-game days completed.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "saves_total", Help: "Save attempts by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		r.money, r.netWorth, r.energy, r.day, r.animals, r.hours, r.days, r.saves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe refreshes the gauges from a farm state.
func (r *Recorder) Observe(s *models.FarmState) {
	living := s.LivingAnimals()
	r.money.Set(s.Farmer.Money)
	r.netWorth.Set(economy.NetWorth(s))
	r.energy.Set(s.Farmer.Energy)
	r.day.Set(float64(s.CurrentDay))
	r.animals.WithLabelValues("alive").Set(float64(living))
	r.animals.WithLabelValues("dead").Set(float64(len(s.Animals) - living))
}

// AddHours counts simulated hours.
func (r *Recorder) AddHours(n int) {
	if n > 0 {
		r.hours.Add(float64(n))
	}
}

// DayCompleted counts a finished in-game day.
func (r *Recorder) DayCompleted() { r.days.Inc() }

// SaveResult counts a save attempt.
func (r *Recorder) SaveResult(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.saves.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
