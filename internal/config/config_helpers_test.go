package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 42},
		{"100", 100},
		{"-10", -10},
		{"0", 0},
		{"42.5", 42},
		{"not-a-number", 42},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.raw)
			assert.Equal(t, tt.want, getEnvAsInt("TEST_INT_VAR", 42))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 5 * time.Minute},
		{"45s", 45 * time.Second},
		{"1h30m", 90 * time.Minute},
		{"250ms", 250 * time.Millisecond},
		{"100", 5 * time.Minute}, // no unit
		{"soon", 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("TEST_DURATION_VAR", tt.raw)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
		})
	}
}

func TestGetEnvAsBoolAndFloat(t *testing.T) {
	t.Setenv("TEST_BOOL_VAR", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL_VAR", false))
	t.Setenv("TEST_BOOL_VAR", "maybe")
	assert.True(t, getEnvAsBool("TEST_BOOL_VAR", true), "Should return default for invalid bool")

	t.Setenv("TEST_FLOAT_VAR", "0.75")
	assert.Equal(t, 0.75, getEnvAsFloat("TEST_FLOAT_VAR", 1))
	t.Setenv("TEST_FLOAT_VAR", "abc")
	assert.Equal(t, 1.0, getEnvAsFloat("TEST_FLOAT_VAR", 1))
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST_VAR", " kafka-1:9092, ,kafka-2:9092 ")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, getEnvAsList("TEST_LIST_VAR"))

	t.Setenv("TEST_LIST_VAR", "")
	assert.Empty(t, getEnvAsList("TEST_LIST_VAR"))
}

func TestLoad_DatabasePoolConfig(t *testing.T) {
	tests := []struct {
		name                 string
		maxConns, idle, life string
		wantConns            int
		wantIdle, wantLife   time.Duration
	}{
		{"defaults", "", "", "", DefaultDBMaxConns, DefaultDBMaxConnIdleTime, DefaultDBMaxConnLifetime},
		{"custom", "50", "10m", "1h", 50, 10 * time.Minute, time.Hour},
		{"invalid falls back", "lots", "idle", "forever", DefaultDBMaxConns, DefaultDBMaxConnIdleTime, DefaultDBMaxConnLifetime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv("API_KEY", "test-key")
			t.Setenv("DB_MAX_CONNS", tt.maxConns)
			t.Setenv("DB_MAX_CONN_IDLE_TIME", tt.idle)
			t.Setenv("DB_MAX_CONN_LIFETIME", tt.life)

			cfg, err := Load()

			require.NoError(t, err)
			assert.Equal(t, tt.wantConns, cfg.DBMaxConns)
			assert.Equal(t, tt.wantIdle, cfg.DBMaxConnIdleTime)
			assert.Equal(t, tt.wantLife, cfg.DBMaxConnLifetime)
		})
	}
}

func TestParseBoosts(t *testing.T) {
	boosts, err := parseBoosts(" Basic=0 , premium = 0.1,,deluxe=0.2")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"basic": 0, "premium": 0.1, "deluxe": 0.2}, boosts)

	_, err = parseBoosts("premium=lots")
	assert.Error(t, err)
}
