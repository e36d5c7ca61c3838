package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	domainconfig "backend2/domain/config"
)

// StoreBackend selects which application/ports.Store implementation
// cmd/memoryd wires up.
type StoreBackend string

const (
	StoreBackendFile  StoreBackend = "file"
	StoreBackendGraph StoreBackend = "graph"
)

// Config holds all application configuration, loaded from environment
// variables (teacher's LoadConfig/getEnv* pattern, re-targeted from
// AWS/DynamoDB settings to the memory core's store/summariser/server
// settings).
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Persistence
	StoreBackend  StoreBackend
	StateDir      string // filestore: MEMORY_STATE_DIR
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// External theme summariser (optional)
	SummariserAPIKey string
	SummariserModel  string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool

	// Policy overrides (spec §3); zero/unset fields fall back to
	// domainconfig.DefaultPolicy()'s values in BuildPolicy.
	ActivationSteps     int
	ActivationDecay     float64
	ActivationThreshold float64
	EnergyHalfLifeDays  float64
	PruningEnergyFloor  float64
	ManifestTTL         time.Duration
	ManifestMaxBytes    int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		StoreBackend:  StoreBackend(getEnv("STORE_BACKEND", string(StoreBackendFile))),
		StateDir:      getEnv("MEMORY_STATE_DIR", ""),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", "neo4j"),

		SummariserAPIKey: getEnv("SUMMARISER_API_KEY", ""),
		SummariserModel:  getEnv("SUMMARISER_MODEL", "gpt-4o-mini"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "memcore"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		ActivationSteps:     getEnvInt("ACTIVATION_STEPS", 0),
		ActivationDecay:     getEnvFloat("ACTIVATION_DECAY", 0),
		ActivationThreshold: getEnvFloat("ACTIVATION_THRESHOLD", 0),
		EnergyHalfLifeDays:  getEnvFloat("ENERGY_HALF_LIFE_DAYS", 0),
		PruningEnergyFloor:  getEnvFloat("PRUNING_ENERGY_FLOOR", 0),
		ManifestTTL:         getEnvDuration("MANIFEST_TTL", 0),
		ManifestMaxBytes:    getEnvInt("MANIFEST_MAX_BYTES", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility.
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present.
func (c *Config) Validate() error {
	if c.StoreBackend != StoreBackendFile && c.StoreBackend != StoreBackendGraph {
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendFile, StoreBackendGraph, c.StoreBackend)
	}
	if c.StoreBackend == StoreBackendGraph && c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required when STORE_BACKEND=graph")
	}
	if c.Environment == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// SummariserEnabled reports whether an external theme summariser should
// be wired in (spec §4.6 step 4: present only when SUMMARISER_API_KEY
// is set).
func (c *Config) SummariserEnabled() bool { return c.SummariserAPIKey != "" }

// BuildPolicy starts from domainconfig.DefaultPolicy() and applies any
// positive overrides from the environment; zero and negative values
// leave the default in place.
func (c *Config) BuildPolicy() *domainconfig.Policy {
	p := domainconfig.DefaultPolicy()

	if c.ActivationSteps > 0 {
		p.ActivationSteps = c.ActivationSteps
	}
	if c.ActivationDecay > 0 {
		p.ActivationDecay = c.ActivationDecay
	}
	if c.ActivationThreshold > 0 {
		p.ActivationThreshold = c.ActivationThreshold
	}
	if c.EnergyHalfLifeDays > 0 {
		p.EnergyHalfLifeDays = c.EnergyHalfLifeDays
	}
	if c.PruningEnergyFloor > 0 {
		p.PruningEnergyFloor = c.PruningEnergyFloor
	}
	if c.ManifestTTL > 0 {
		p.ManifestTTL = c.ManifestTTL
	}
	if c.ManifestMaxBytes > 0 {
		p.ManifestMaxBytes = c.ManifestMaxBytes
	}

	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
