package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// DevJWTSecret signs tokens in dev when JWT_SECRET is unset.
const DevJWTSecret = "chronoatlas-dev-secret"

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Document store
	StoreBackend string
	DataFile     string
	DatabaseURL  string
	PGSchema     string
	PGTable      string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	RedisKey     string

	// Legacy JSON document used to seed an empty store
	LegacyDataFile string

	// Token verification: shared secret, JWKS, or both
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWKSURL     string

	// Bootstrap super admin written on first start
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminName     string

	// Optional log file sink
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	defaultSecret := ""
	if env == "dev" {
		defaultSecret = DevJWTSecret
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            env,
		CORSOrigins:            getEnv("CORS_ORIGINS", "http://localhost:5173"),
		StoreBackend:           getEnv("STORE_BACKEND", BackendFile),
		DataFile:               getEnv("DATA_FILE", "data/db.json"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		PGSchema:               getEnv("PG_SCHEMA", "public"),
		PGTable:                getEnv("PG_TABLE", "app_data"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		RedisKey:               getEnv("REDIS_KEY", "chronoatlas:"+env+":app_data"),
		LegacyDataFile:         getEnv("LEGACY_DATA_FILE", ""),
		JWTSecret:              getEnv("JWT_SECRET", defaultSecret),
		JWTIssuer:              getEnv("JWT_ISSUER", "chronoatlas"),
		JWTAudience:            getEnv("JWT_AUDIENCE", "chronoatlas-web"),
		JWKSURL:                getEnv("JWKS_URL", ""),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@chronoatlas.local"),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),
		BootstrapAdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "管理员"),
		LogDir:                 getEnv("LOG_DIR", ""),
		LogMaxFiles:            getEnvInt("LOG_MAX_FILES", 10),
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		if !identifierPattern.MatchString(c.PGSchema) {
			return fmt.Errorf("PG_SCHEMA %q is not a valid identifier", c.PGSchema)
		}
		if !identifierPattern.MatchString(c.PGTable) {
			return fmt.Errorf("PG_TABLE %q is not a valid identifier", c.PGTable)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.Environment == "prod" {
		if c.JWTSecret == "" && c.JWKSURL == "" {
			return fmt.Errorf("JWT_SECRET or JWKS_URL is required in prod")
		}
		if c.BootstrapAdminPassword == "admin123" {
			return fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD must be changed in prod")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
