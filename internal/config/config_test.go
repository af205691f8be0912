package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		setEnv       bool
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "ENTE_TEST_KEY_1",
			defaultValue: "default",
			envValue:     "custom",
			setEnv:       true,
			want:         "custom",
		},
		{
			name:         "environment variable not set",
			key:          "ENTE_TEST_KEY_2",
			defaultValue: "default",
			setEnv:       false,
			want:         "default",
		},
		{
			name:         "empty environment variable",
			key:          "ENTE_TEST_KEY_3",
			defaultValue: "default",
			envValue:     "",
			setEnv:       true,
			want:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvOrDefault(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     int
	}{
		{name: "valid integer", envValue: "42", setEnv: true, want: 42},
		{name: "not set", setEnv: false, want: 10},
		{name: "invalid integer", envValue: "three", setEnv: true, want: 10},
		{name: "zero", envValue: "0", setEnv: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("ENTE_TEST_INT", tt.envValue)
			}
			assert.Equal(t, tt.want, getEnvAsIntOrDefault("ENTE_TEST_INT", 10))
		})
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     time.Duration
	}{
		{name: "valid duration", envValue: "5m", setEnv: true, want: 5 * time.Minute},
		{name: "not set", setEnv: false, want: 10 * time.Second},
		{name: "invalid duration", envValue: "soon", setEnv: true, want: 10 * time.Second},
		{name: "compound", envValue: "1h30m", setEnv: true, want: 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("ENTE_TEST_DUR", tt.envValue)
			}
			assert.Equal(t, tt.want, getEnvAsDurationOrDefault("ENTE_TEST_DUR", 10*time.Second))
		})
	}
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	t.Setenv("ENTE_TEST_BOOL", "false")
	assert.False(t, getEnvAsBoolOrDefault("ENTE_TEST_BOOL", true))

	t.Setenv("ENTE_TEST_BOOL", "maybe")
	assert.True(t, getEnvAsBoolOrDefault("ENTE_TEST_BOOL", true))
}

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "simple list", value: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "list with spaces", value: "a, b ,c", want: []string{"a", "b", "c"}},
		{name: "empty string", value: "", want: []string{}},
		{name: "only commas", value: ",,,", want: []string{}},
		{name: "origins", value: "http://localhost:5173,https://entescheme.in", want: []string{"http://localhost:5173", "https://entescheme.in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCommaSeparatedList(tt.value))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	originalConfig := AppConfig
	defer func() { AppConfig = originalConfig }()

	for _, key := range []string{"PORT", "STORAGE_BACKEND", "JWT_SECRET", "ENVIRONMENT", "OTP_TTL", "OTP_MAX_ATTEMPTS"} {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			defer os.Setenv(key, value)
		}
	}

	require.NoError(t, LoadConfig())
	assert.Equal(t, 8081, AppConfig.Port)
	assert.Equal(t, StorageMongo, AppConfig.StorageBackend)
	assert.Equal(t, defaultJWTSecret, AppConfig.JWTSecret)
	assert.Equal(t, 5*time.Minute, AppConfig.OTPTTL)
	assert.Equal(t, 3, AppConfig.OTPMaxAttempts)
	assert.Equal(t, "profiles", AppConfig.ProfileCollection)
	assert.Empty(t, AppConfig.RedisClusterAddrs)
	assert.Equal(t, 0.25, AppConfig.TracingSampleRatio)
}

func TestLoadConfig_Overrides(t *testing.T) {
	originalConfig := AppConfig
	defer func() { AppConfig = originalConfig }()

	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://entescheme.in")
	t.Setenv("REDIS_CLUSTER_ADDRS", "redis-0:6379, redis-1:6379")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.5")

	require.NoError(t, LoadConfig())
	assert.Equal(t, 9090, AppConfig.Port)
	assert.Equal(t, StorageMemory, AppConfig.StorageBackend)
	assert.Equal(t, "s3cret", AppConfig.JWTSecret)
	assert.Equal(t, 2*time.Minute, AppConfig.OTPTTL)
	assert.Equal(t, []string{"https://entescheme.in"}, AppConfig.CORSAllowedOrigins)
	assert.Equal(t, []string{"redis-0:6379", "redis-1:6379"}, AppConfig.RedisClusterAddrs)
	assert.Equal(t, 0.5, AppConfig.TracingSampleRatio)
}

func TestLoadConfig_Errors(t *testing.T) {
	originalConfig := AppConfig
	defer func() { AppConfig = originalConfig }()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "invalid port", env: map[string]string{"PORT": "eighty"}},
		{name: "invalid redis db", env: map[string]string{"REDIS_DB": "x"}},
		{name: "invalid redis ttl", env: map[string]string{"REDIS_TTL": "forever"}},
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "postgres"}},
		{name: "production without secret", env: map[string]string{"ENVIRONMENT": "production", "JWT_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Error(t, LoadConfig())
		})
	}
}
