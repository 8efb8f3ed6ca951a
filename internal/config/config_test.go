package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8081

[database]
host = "localhost"
user = "booking"
dbname = "venue_booking"

[auth]
jwt_secret = "from-file"

[venue]
timezone = "Europe/Berlin"

[redis]
enabled = true
addr = "localhost:6379"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.Redis.SlotsTTL())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Contains(t, cfg.Database.DSN(), "password=secret")

	loc, err := cfg.Venue.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	content := strings.ReplaceAll(sampleConfig, `timezone = "Europe/Berlin"`, `timezone = "Mars/Olympus"`)

	_, err := Load(writeConfig(t, content))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_MissingSecret(t *testing.T) {
	cfg := defaults()
	cfg.Database.Host = "localhost"
	cfg.Database.DBName = "venue_booking"

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestRateLimitConfig_TrustedProxyPrefixes(t *testing.T) {
	cfg := RateLimitConfig{TrustedProxies: []string{"10.0.0.0/8", " 172.18.0.2 ", "::1", "192.168.1.77/24"}}

	prefixes, err := cfg.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("172.18.0.2/32"),
		netip.MustParsePrefix("::1/128"),
		netip.MustParsePrefix("192.168.1.0/24"),
	}, prefixes)
}

func TestValidate_InvalidTrustedProxy(t *testing.T) {
	cfg := defaults()
	cfg.Database.Host = "localhost"
	cfg.Database.DBName = "venue_booking"
	cfg.Auth.JWTSecret = "secret"
	cfg.RateLimit.TrustedProxies = []string{"proxy.local"}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "trusted_proxies")
}
