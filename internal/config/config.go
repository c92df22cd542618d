package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/farmsim/internal/simulation"
)

// Save backends.
const (
	SaveBackendFile   = "file"
	SaveBackendSQLite = "sqlite"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Game     GameConfig
	Save     SaveConfig
	Sheets   SheetsConfig
	MongoDB  MongoDBConfig
	Notifier NotifierConfig
	LogLevel string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// GameConfig holds the settings of the simulated farm.
type GameConfig struct {
	FarmName     string
	FarmerName   string
	Speed        float64
	TickInterval time.Duration
	// Seed of the random source; zero derives one from the clock.
	Seed uint64
}

// SaveConfig selects where and how often the game is saved.
type SaveConfig struct {
	Backend      string
	Path         string
	SQLitePath   string
	AutosaveCron string
	SaveOnExit   bool
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the daily ledger should be written to Sheets.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether daily reports should be stored in MongoDB.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// NotifierConfig holds the outbound webhook used for day summaries.
type NotifierConfig struct {
	WebhookURL string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	speed, err := getenvFloat("GAME_SPEED", 1)
	if err != nil {
		return nil, err
	}
	tick, err := getenvDuration("TICK_INTERVAL", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	seed, err := getenvUint("RNG_SEED", 0)
	if err != nil {
		return nil, err
	}
	saveOnExit, err := getenvBool("AUTOSAVE_ON_EXIT", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Game: GameConfig{
			FarmName:     getenvWithDefault("FARM_NAME", "My Farm"),
			FarmerName:   getenvWithDefault("FARMER_NAME", "Farmer"),
			Speed:        speed,
			TickInterval: tick,
			Seed:         seed,
		},
		Save: SaveConfig{
			Backend:      getenvWithDefault("SAVE_BACKEND", SaveBackendFile),
			Path:         getenvWithDefault("SAVE_PATH", "savegame.json"),
			SQLitePath:   getenvWithDefault("SQLITE_PATH", "savegame.db"),
			AutosaveCron: getenvWithDefault("AUTOSAVE_CRON", "@every 5m"),
			SaveOnExit:   saveOnExit,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "farmsim"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and consistent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case !simulation.ValidSpeed(c.Game.Speed):
		return fmt.Errorf("GAME_SPEED must be in (0, %g]", simulation.MaxSpeed)
	case c.Game.TickInterval <= 0:
		return errors.New("TICK_INTERVAL must be positive")
	}

	switch c.Save.Backend {
	case SaveBackendFile:
		if c.Save.Path == "" {
			return errors.New("SAVE_PATH must not be empty")
		}
	case SaveBackendSQLite:
		if c.Save.SQLitePath == "" {
			return errors.New("SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("SAVE_BACKEND must be %q or %q, got %q", SaveBackendFile, SaveBackendSQLite, c.Save.Backend)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvUint(key string, fallback uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
