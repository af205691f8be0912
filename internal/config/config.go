package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port               int      `json:"port"`
	Environment        string   `json:"environment"`
	StorageBackend     string   `json:"storage_backend"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Collection names
	ProfileCollection string `json:"mongo_profile_collection"`
	SchemeCollection  string `json:"mongo_scheme_collection"`
	NewsCollection    string `json:"mongo_news_collection"`
	UserCollection    string `json:"mongo_user_collection"`
	OTPCollection     string `json:"mongo_otp_collection"`
	AuditCollection   string `json:"mongo_audit_collection"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`
	// Cluster seed addresses; when set RedisURI and RedisDB are ignored
	RedisClusterAddrs []string `json:"redis_cluster_addrs"`

	// In-process cache used when Redis is unavailable
	LocalCacheTTL time.Duration `json:"local_cache_ttl"`

	// Auth configuration
	JWTSecret string        `json:"-"`
	JWTIssuer string        `json:"jwt_issuer"`
	JWTExpiry time.Duration `json:"jwt_expiry"`

	// Bootstrap admin, created on startup when AdminEmail is set
	AdminUsername string `json:"admin_username"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"-"`

	// OTP configuration
	OTPTTL                time.Duration `json:"otp_ttl"`
	OTPResendCooldown     time.Duration `json:"otp_resend_cooldown"`
	OTPMaxAttempts        int           `json:"otp_max_attempts"`
	OTPVerificationWindow time.Duration `json:"otp_verification_window"`
	OTPRateLimit          int           `json:"otp_rate_limit"`
	OTPRateBurst          int           `json:"otp_rate_burst"`

	// Mail configuration
	SendGridAPIKey  string `json:"-"`
	MailFromAddress string `json:"mail_from_address"`
	MailFromName    string `json:"mail_from_name"`

	// Audit configuration
	AuditEnabled    bool `json:"audit_enabled"`
	AuditBufferSize int  `json:"audit_buffer_size"`
	AuditWorkers    int  `json:"audit_workers"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
	// Fraction of root traces sampled, 0..1
	TracingSampleRatio float64 `json:"tracing_sample_ratio"`
}

var (
	AppConfig *Config
)

const defaultJWTSecret = "ente-dev-secret"

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real env vars win.
func LoadConfig() error {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8081"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "10m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageMongo))
	if backend != StorageMongo && backend != StorageMemory {
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be %q or %q", backend, StorageMongo, StorageMemory)
	}

	environment := getEnvOrDefault("ENVIRONMENT", "development")
	jwtSecret := getEnvOrDefault("JWT_SECRET", "")
	if jwtSecret == "" {
		if environment == "production" {
			return fmt.Errorf("JWT_SECRET environment variable is required in production")
		}
		jwtSecret = defaultJWTSecret
	}

	AppConfig = &Config{
		// Server configuration
		Port:               port,
		Environment:        environment,
		StorageBackend:     backend,
		CORSAllowedOrigins: parseCommaSeparatedList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "ente_scheme"),

		// Collection names
		ProfileCollection: getEnvOrDefault("MONGODB_PROFILE_COLLECTION", "profiles"),
		SchemeCollection:  getEnvOrDefault("MONGODB_SCHEME_COLLECTION", "schemes"),
		NewsCollection:    getEnvOrDefault("MONGODB_NEWS_COLLECTION", "news"),
		UserCollection:    getEnvOrDefault("MONGODB_USER_COLLECTION", "users"),
		OTPCollection:     getEnvOrDefault("MONGODB_OTP_COLLECTION", "otps"),
		AuditCollection:   getEnvOrDefault("MONGODB_AUDIT_COLLECTION", "audit_logs"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		RedisClusterAddrs: parseCommaSeparatedList(getEnvOrDefault("REDIS_CLUSTER_ADDRS", "")),
		LocalCacheTTL: getEnvAsDurationOrDefault("LOCAL_CACHE_TTL", time.Minute),

		// Auth configuration
		JWTSecret: jwtSecret,
		JWTIssuer: getEnvOrDefault("JWT_ISSUER", "ente-api"),
		JWTExpiry: getEnvAsDurationOrDefault("JWT_EXPIRY", 24*time.Hour),

		// Bootstrap admin
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", ""),

		// OTP configuration
		OTPTTL:                getEnvAsDurationOrDefault("OTP_TTL", 5*time.Minute),
		OTPResendCooldown:     getEnvAsDurationOrDefault("OTP_RESEND_COOLDOWN", 30*time.Second),
		OTPMaxAttempts:        getEnvAsIntOrDefault("OTP_MAX_ATTEMPTS", 3),
		OTPVerificationWindow: getEnvAsDurationOrDefault("OTP_VERIFICATION_WINDOW", 15*time.Minute),
		OTPRateLimit:          getEnvAsIntOrDefault("OTP_RATE_LIMIT", 10),
		OTPRateBurst:          getEnvAsIntOrDefault("OTP_RATE_BURST", 20),

		// Mail configuration
		SendGridAPIKey:  getEnvOrDefault("SENDGRID_API_KEY", ""),
		MailFromAddress: getEnvOrDefault("MAIL_FROM_ADDRESS", "no-reply@entescheme.in"),
		MailFromName:    getEnvOrDefault("MAIL_FROM_NAME", "Ente Scheme"),

		// Audit configuration
		AuditEnabled:    getEnvAsBoolOrDefault("AUDIT_ENABLED", true),
		AuditBufferSize: getEnvAsIntOrDefault("AUDIT_BUFFER_SIZE", 1000),
		AuditWorkers:    getEnvAsIntOrDefault("AUDIT_WORKERS", 2),

		// Tracing configuration
		TracingEnabled:     getEnvAsBoolOrDefault("TRACING_ENABLED", false),
		TracingEndpoint:    getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
		TracingSampleRatio: getEnvAsFloatOrDefault("TRACING_SAMPLE_RATIO", 0.25),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the env var parsed as int, or the default when unset or invalid
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault returns the env var parsed as a duration, or the default when unset or invalid
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// parseCommaSeparatedList splits a comma separated value, dropping blanks
func parseCommaSeparatedList(value string) []string {
	result := []string{}
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
