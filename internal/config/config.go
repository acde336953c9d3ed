package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"aiso/tripdesk/internal/constants"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppEnv string

	// Server
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	DebugHTTP      bool

	// Store
	StoreBackend constants.StoreKind
	SQLitePath   string
	PGHost       string
	PGPort       string
	PGUser       string
	PGDatabase   string
	PGPassword   string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Candidate cache
	CandidateCacheBackend constants.StoreKind
	CandidateTTL          time.Duration

	// Search and booking
	SearchCandidateCount      int
	SearchPriceFloor          float64
	SearchPriceCeiling        float64
	BookingValidateCandidates bool

	// Planning workers
	PlanningWorkers       int
	PlanningQueueBackend  constants.StoreKind
	PlanningQueueCapacity int

	SeedDemoData bool
}

// Load loads configuration from a .env file (when present) and the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		ReadTimeout:    time.Duration(getEnvAsInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout:   time.Duration(getEnvAsInt("WRITE_TIMEOUT", 15)) * time.Second,
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://localhost:3000"}),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		DebugHTTP:      getEnvAsBool("DEBUG_HTTP", false),

		StoreBackend: constants.StoreKind(getEnv("STORE_BACKEND", string(constants.StoreKindMemory))),
		SQLitePath:   getEnv("SQLITE_PATH", "tripdesk.db"),
		PGHost:       getEnv("PG_HOST", "localhost"),
		PGPort:       getEnv("PG_PORT", "5432"),
		PGUser:       getEnv("PG_USER", "tripdesk"),
		PGDatabase:   getEnv("PG_DB", "tripdesk"),
		PGPassword:   getEnv("PG_PASSWORD", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "tripdesk:"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "tripdesk"),

		CandidateCacheBackend: constants.StoreKind(getEnv("CANDIDATE_CACHE_BACKEND", string(constants.StoreKindMemory))),
		CandidateTTL:          time.Duration(getEnvAsInt("CANDIDATE_TTL_MINUTES", 30)) * time.Minute,

		SearchCandidateCount:      getEnvAsInt("SEARCH_CANDIDATE_COUNT", 3),
		SearchPriceFloor:          getEnvAsFloat("SEARCH_PRICE_FLOOR", 800),
		SearchPriceCeiling:        getEnvAsFloat("SEARCH_PRICE_CEILING", 2000),
		BookingValidateCandidates: getEnvAsBool("BOOKING_VALIDATE_CANDIDATES", false),

		PlanningWorkers:       getEnvAsInt("PLANNING_WORKERS", 1),
		PlanningQueueBackend:  constants.StoreKind(getEnv("PLANNING_QUEUE_BACKEND", string(constants.StoreKindMemory))),
		PlanningQueueCapacity: getEnvAsInt("PLANNING_QUEUE_CAPACITY", 256),

		SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the services cannot run with
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case constants.StoreKindMemory, constants.StoreKindRedis, constants.StoreKindSQLite,
		constants.StoreKindPostgres, constants.StoreKindMongo:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.CandidateCacheBackend {
	case constants.StoreKindMemory, constants.StoreKindRedis:
	default:
		return fmt.Errorf("unsupported CANDIDATE_CACHE_BACKEND %q", c.CandidateCacheBackend)
	}
	switch c.PlanningQueueBackend {
	case constants.StoreKindMemory, constants.StoreKindRedis:
	default:
		return fmt.Errorf("unsupported PLANNING_QUEUE_BACKEND %q", c.PlanningQueueBackend)
	}
	if c.PlanningWorkers < 0 {
		return fmt.Errorf("PLANNING_WORKERS must not be negative")
	}
	if c.SearchCandidateCount < 1 {
		return fmt.Errorf("SEARCH_CANDIDATE_COUNT must be at least 1")
	}
	if c.SearchPriceFloor <= 0 || c.SearchPriceCeiling <= c.SearchPriceFloor {
		return fmt.Errorf("search price range must satisfy 0 < floor < ceiling")
	}
	return nil
}

// PostgresDSN builds the connection string shared by GORM and sqlx
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// RedisAddr returns host:port
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// UsesRedis reports whether any component needs a Redis client
func (c *Config) UsesRedis() bool {
	return c.StoreBackend == constants.StoreKindRedis ||
		c.CandidateCacheBackend == constants.StoreKindRedis ||
		(c.PlanningWorkers > 0 && c.PlanningQueueBackend == constants.StoreKindRedis)
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
