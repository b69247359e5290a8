package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "db"
port = 5433
user = "clinic"
password = "from-file"
dbname = "clinic"

[scheduling]
time_type = "fixed"
fixed_time_slots = ["09:00", "11:00"]
max_end_time = "17:00"
booking_limit = 3

[clinic]
timezone = "UTC"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout, "unset values keep defaults")
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=5433")

	d, err := cfg.Scheduling.Defaults()
	require.NoError(t, err)
	assert.Equal(t, domain.TimeTypeFixed, d.TimeType)
	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, d.FixedTimeSlots)
	assert.Equal(t, []types.TimeString{"08:00", "08:30", "16:30"}, d.ForbiddenStartTimes)
	assert.Equal(t, types.TimeString("17:00"), d.MaxEndTime)
	assert.Equal(t, 3, d.BookingLimit)
	assert.Equal(t, 60, d.DurationMinutes)
}

func TestLoad_InvalidScheduling(t *testing.T) {
	_, err := Load(writeConfig(t, sampleConfig+"\n[logs]\nlevel = \"info\"\n"))
	require.NoError(t, err)

	bad := `
[database]
host = "db"
dbname = "clinic"

[scheduling]
max_end_time = "25:00"
`
	_, err = Load(writeConfig(t, bad))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestClinicConfig_Location(t *testing.T) {
	assert.Equal(t, "Asia/Gaza", ClinicConfig{Timezone: "Not/AZone"}.Location().String())
	assert.Equal(t, "UTC", ClinicConfig{Timezone: "UTC"}.Location().String())
}
