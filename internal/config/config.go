package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Gateway driver names accepted by GATEWAY_DRIVER.
const (
	DriverSheets = "sheets"
	DriverWebAPI = "webapi"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Sheets  SheetsConfig
	WebAPI  WebAPIConfig
	MongoDB MongoDBConfig
	Jobs    JobsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port  string
	Debug bool
}

// GatewayConfig selects which spreadsheet driver backs the datastore.
type GatewayConfig struct {
	Driver string
}

// SheetsConfig contains configuration required to interact with Google
// Sheets directly.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	MovementsTab    string
	ItemsTab        string
	DamagedTab      string
}

// WebAPIConfig configures the HTTP sheet-API driver.
type WebAPIConfig struct {
	BaseURL string
	APIKey  string
}

// MongoDBConfig holds settings for the snapshot archive. An empty URI
// disables archiving entirely.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// JobsConfig holds scheduler-related settings.
type JobsConfig struct {
	RefreshCron  string
	SnapshotCron string
	Timezone     string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:  getenvWithDefault("APP_PORT", "8080"),
			Debug: os.Getenv("APP_DEBUG") == "true",
		},
		Gateway: GatewayConfig{
			Driver: getenvWithDefault("GATEWAY_DRIVER", DriverSheets),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			MovementsTab:    getenvWithDefault("SHEET_MOVEMENTS_TAB", "Movements"),
			ItemsTab:        getenvWithDefault("SHEET_ITEMS_TAB", "Items"),
			DamagedTab:      getenvWithDefault("SHEET_DAMAGED_TAB", "Damaged"),
		},
		WebAPI: WebAPIConfig{
			BaseURL: os.Getenv("SHEET_API_BASE_URL"),
			APIKey:  os.Getenv("SHEET_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockdesk"),
		},
		Jobs: JobsConfig{
			RefreshCron:  getenvWithDefault("REFRESH_CRON_SCHEDULE", "*/15 * * * *"),
			SnapshotCron: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated for the
// selected driver.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Gateway.Driver {
	case DriverSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case DriverWebAPI:
		if c.WebAPI.BaseURL == "" {
			return errors.New("SHEET_API_BASE_URL must be provided")
		}
	default:
		return fmt.Errorf("unknown GATEWAY_DRIVER %q", c.Gateway.Driver)
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Jobs.RefreshCron == "" {
		return errors.New("REFRESH_CRON_SCHEDULE must be provided")
	}

	if c.Jobs.SnapshotCron == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
