package farm

import (
	"errors"

	"github.com/mamadbah2/farmsim/internal/simulation"
)

var (
	// ErrUnknownAnimalType indicates the animal type is not in the catalog.
	ErrUnknownAnimalType = errors.New("unknown animal type")
	// ErrUnknownFeedType indicates the feed type is not in the catalog.
	ErrUnknownFeedType = errors.New("unknown feed type")
	// ErrUnknownBuilding indicates the farm has no building of that type.
	ErrUnknownBuilding = errors.New("unknown building")
	// ErrAnimalNotFound indicates a stale or unknown animal id.
	ErrAnimalNotFound = errors.New("animal not found")
	// ErrAnimalDead indicates the animal can no longer be acted upon.
	ErrAnimalDead = errors.New("animal is dead")

	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrInsufficientEnergy   = errors.New("insufficient energy")
	ErrInsufficientFeed     = errors.New("insufficient feed")
	ErrWarehouseFull        = errors.New("warehouse full")

	// ErrNotReady indicates the animal cannot produce right now: cooldown,
	// hunger or health.
	ErrNotReady = errors.New("animal not ready to produce")
	// ErrProductNotFound indicates there is no stock of the product.
	ErrProductNotFound = errors.New("product not in stock")
	ErrFullHealth      = errors.New("animal already at full health")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrNoStore         = errors.New("no save store configured")

	// ErrInvalidSpeed is re-exported from the clock for callers of SetSpeed.
	ErrInvalidSpeed = simulation.ErrInvalidSpeed
)
