package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/stockdesk/internal/config"
)

func TestLoad_SheetsDriverDefaults(t *testing.T) {
	t.Setenv("GATEWAY_DRIVER", "sheets")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/etc/creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "Movements", cfg.Sheets.MovementsTab)
	assert.Equal(t, "Items", cfg.Sheets.ItemsTab)
	assert.Equal(t, "Damaged", cfg.Sheets.DamagedTab)
	assert.NotEmpty(t, cfg.Jobs.RefreshCron)
}

func TestLoad_SheetsDriverRequiresCredentials(t *testing.T) {
	t.Setenv("GATEWAY_DRIVER", "sheets")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoad_WebAPIDriver(t *testing.T) {
	t.Setenv("GATEWAY_DRIVER", "webapi")
	t.Setenv("SHEET_API_BASE_URL", "https://sheets.example.com/v1")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DriverWebAPI, cfg.Gateway.Driver)
}

func TestLoad_UnknownDriverRejected(t *testing.T) {
	t.Setenv("GATEWAY_DRIVER", "carrier-pigeon")

	_, err := config.Load("")
	assert.Error(t, err)
}
