package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/internal/persistence"
	"github.com/mamadbah2/farmsim/internal/service/farm"
	"github.com/mamadbah2/farmsim/internal/service/game"
)

// ReportSource lists recent daily reports.
type ReportSource interface {
	Recent() []models.DailyReport
}

// FarmHandler exposes the farm session as a JSON API for the game UI.
type FarmHandler struct {
	session *game.Session
	reports ReportSource
	logger  *zap.Logger
}

// NewFarmHandler constructs the HTTP handler adapter. reports may be nil.
func NewFarmHandler(session *game.Session, reports ReportSource, logger *zap.Logger) *FarmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmHandler{session: session, reports: reports, logger: logger}
}

type newGameRequest struct {
	FarmName   string `json:"farm_name"`
	FarmerName string `json:"farmer_name"`
}

type speedRequest struct {
	Speed float64 `json:"speed" binding:"required"`
}

type buyAnimalRequest struct {
	Type models.AnimalType `json:"type" binding:"required"`
	Name string            `json:"name"`
}

type feedAnimalRequest struct {
	FeedType models.FeedType `json:"feed_type" binding:"required"`
}

type buyFeedRequest struct {
	Type   models.FeedType `json:"type" binding:"required"`
	Amount float64         `json:"amount"`
}

type sellProductRequest struct {
	Amount float64 `json:"amount"`
}

// Stats is the summary shown in the game header.
type Stats struct {
	FarmName      string         `json:"farm_name"`
	Day           int            `json:"day"`
	Hour          int            `json:"hour"`
	Season        models.Season  `json:"season"`
	Weather       models.Weather `json:"weather"`
	Money         float64        `json:"money"`
	Energy        float64        `json:"energy"`
	Level         int            `json:"level"`
	NetWorth      float64        `json:"net_worth"`
	LivingAnimals int            `json:"living_animals"`
	TotalCapacity int            `json:"total_capacity"`
	Speed         float64        `json:"speed"`
}

// State returns the full farm state.
func (h *FarmHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// Stats returns the header summary.
func (h *FarmHandler) Stats(c *gin.Context) {
	var stats Stats
	_ = h.session.Do(func(m *farm.Manager) error {
		m.View(func(s *models.FarmState) {
			stats = Stats{
				FarmName: s.FarmName,
				Day:      s.CurrentDay,
				Hour:     s.CurrentHour,
				Season:   s.CurrentSeason,
				Weather:  s.CurrentWeather,
				Money:    s.Farmer.Money,
				Energy:   s.Farmer.Energy,
				Level:    s.Farmer.Level,
			}
		})
		stats.NetWorth = m.NetWorth()
		stats.LivingAnimals = m.LivingAnimals()
		stats.TotalCapacity = m.TotalCapacity()
		stats.Speed = m.Speed()
		return nil
	})
	c.JSON(http.StatusOK, stats)
}

// Events returns the event log.
func (h *FarmHandler) Events(c *gin.Context) {
	var events []string
	_ = h.session.Do(func(m *farm.Manager) error {
		events = m.Events()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Notifications drains the notification queue.
func (h *FarmHandler) Notifications(c *gin.Context) {
	var notes []models.Notification
	_ = h.session.Do(func(m *farm.Manager) error {
		notes = m.DrainNotifications()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

// Reports lists the latest daily reports.
func (h *FarmHandler) Reports(c *gin.Context) {
	reports := []models.DailyReport{}
	if h.reports != nil {
		reports = h.reports.Recent()
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// NewGame starts over. An empty body keeps the default names.
func (h *FarmHandler) NewGame(c *gin.Context) {
	var req newGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, err)
		return
	}
	_ = h.session.Do(func(m *farm.Manager) error {
		m.NewGame(req.FarmName, req.FarmerName)
		return nil
	})
	c.JSON(http.StatusCreated, h.session.Snapshot())
}

// Save persists the game.
func (h *FarmHandler) Save(c *gin.Context) {
	if err := h.session.Save(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Load restores the saved game.
func (h *FarmHandler) Load(c *gin.Context) {
	err := h.session.Do(func(m *farm.Manager) error {
		return m.Load(c.Request.Context())
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// SetSpeed changes the game speed.
func (h *FarmHandler) SetSpeed(c *gin.Context) {
	var req speedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.session.Do(func(m *farm.Manager) error { return m.SetSpeed(req.Speed) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"speed": req.Speed})
}

// BuyAnimal purchases an animal.
func (h *FarmHandler) BuyAnimal(c *gin.Context) {
	var req buyAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	var animal models.Animal
	err := h.session.Do(func(m *farm.Manager) (err error) {
		animal, err = m.BuyAnimal(req.Type, req.Name)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, animal)
}

// SellAnimal sells an animal.
func (h *FarmHandler) SellAnimal(c *gin.Context) {
	id, ok := h.animalID(c)
	if !ok {
		return
	}
	var price float64
	err := h.session.Do(func(m *farm.Manager) (err error) {
		price, err = m.SellAnimal(id)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price})
}

// FeedAnimal feeds one animal.
func (h *FarmHandler) FeedAnimal(c *gin.Context) {
	id, ok := h.animalID(c)
	if !ok {
		return
	}
	var req feedAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.session.Do(func(m *farm.Manager) error { return m.FeedAnimal(id, req.FeedType) }); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FeedAll feeds every hungry animal.
func (h *FarmHandler) FeedAll(c *gin.Context) {
	var fed int
	_ = h.session.Do(func(m *farm.Manager) error {
		fed = m.FeedAllAnimals()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"fed": fed})
}

// CollectProduct collects from one animal.
func (h *FarmHandler) CollectProduct(c *gin.Context) {
	id, ok := h.animalID(c)
	if !ok {
		return
	}
	var product models.Product
	err := h.session.Do(func(m *farm.Manager) (err error) {
		product, err = m.CollectProduct(id)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CollectAll collects from every ready animal.
func (h *FarmHandler) CollectAll(c *gin.Context) {
	var collected int
	_ = h.session.Do(func(m *farm.Manager) error {
		collected = m.CollectAllProducts()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"collected": collected})
}

// PetAnimal pets an animal.
func (h *FarmHandler) PetAnimal(c *gin.Context) {
	id, ok := h.animalID(c)
	if !ok {
		return
	}
	if err := h.session.Do(func(m *farm.Manager) error { return m.PetAnimal(id) }); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HealAnimal heals an animal.
func (h *FarmHandler) HealAnimal(c *gin.Context) {
	id, ok := h.animalID(c)
	if !ok {
		return
	}
	var cost float64
	err := h.session.Do(func(m *farm.Manager) (err error) {
		cost, err = m.HealAnimal(id)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cost": cost})
}

// BuyFeed buys feed for the warehouse.
func (h *FarmHandler) BuyFeed(c *gin.Context) {
	var req buyFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.session.Do(func(m *farm.Manager) error { return m.BuyFeed(req.Type, req.Amount) }); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SellProduct sells some of a product.
func (h *FarmHandler) SellProduct(c *gin.Context) {
	var req sellProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	productType := models.ProductType(c.Param("type"))
	var revenue float64
	err := h.session.Do(func(m *farm.Manager) (err error) {
		revenue, err = m.SellProduct(productType, req.Amount)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": revenue})
}

// SellAll sells every product.
func (h *FarmHandler) SellAll(c *gin.Context) {
	var revenue float64
	_ = h.session.Do(func(m *farm.Manager) error {
		revenue = m.SellAllProducts()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"revenue": revenue})
}

// UpgradeBuilding upgrades a building.
func (h *FarmHandler) UpgradeBuilding(c *gin.Context) {
	buildingType := models.BuildingType(c.Param("type"))
	var building models.Building
	err := h.session.Do(func(m *farm.Manager) (err error) {
		building, err = m.UpgradeBuilding(buildingType)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, building)
}

func (h *FarmHandler) animalID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.badRequest(c, err)
		return 0, false
	}
	return id, true
}

func (h *FarmHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func (h *FarmHandler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("farm operation failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps farm errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, farm.ErrAnimalNotFound),
		errors.Is(err, farm.ErrProductNotFound),
		errors.Is(err, farm.ErrUnknownBuilding),
		errors.Is(err, persistence.ErrNoSave):
		return http.StatusNotFound
	case errors.Is(err, farm.ErrUnknownAnimalType),
		errors.Is(err, farm.ErrUnknownFeedType),
		errors.Is(err, farm.ErrInvalidAmount),
		errors.Is(err, farm.ErrInvalidSpeed):
		return http.StatusBadRequest
	case errors.Is(err, farm.ErrAnimalDead),
		errors.Is(err, farm.ErrNotReady),
		errors.Is(err, farm.ErrFullHealth):
		return http.StatusConflict
	case errors.Is(err, farm.ErrInsufficientFunds),
		errors.Is(err, farm.ErrInsufficientCapacity),
		errors.Is(err, farm.ErrInsufficientEnergy),
		errors.Is(err, farm.ErrInsufficientFeed),
		errors.Is(err, farm.ErrWarehouseFull),
		errors.Is(err, persistence.ErrMalformed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, farm.ErrNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
