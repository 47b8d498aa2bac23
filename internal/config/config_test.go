package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_RANGE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PAGE_SIZE", "")

	cfg := Load()

	assert.Equal(t, "Entries!A:H", cfg.Range)
	assert.Equal(t, "Entries", cfg.SheetName())
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins, "no wildcard origin by default")
}

func TestLoadCORSOriginsSplit(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://desk.etarang.org, http://localhost:5173")

	cfg := Load()

	assert.Equal(t, []string{"https://desk.etarang.org", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestValidateMail(t *testing.T) {
	t.Setenv("GMAIL_USER", "desk@gmail.com")
	t.Setenv("GMAIL_APP_PASSWORD", "secret")
	assert.NoError(t, Load().ValidateMail())

	t.Setenv("GMAIL_APP_PASSWORD", "")
	assert.Error(t, Load().ValidateMail())
}
