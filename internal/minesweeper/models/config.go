package models

import (
	"log"
	"os"
	"strconv"
)

// Authentication backend selectors.
const (
	AuthBackendFile     = "file"
	AuthBackendPostgres = "postgres"
)

// Config carries every tunable the server reads at startup. Values come
// from the environment with sensible defaults; the listen port may also be
// overridden by the optional command-line argument.
type Config struct {
	Port     string
	PoolSize int
	RNGSeed  int64

	AuthBackend string
	AuthFile    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

// LoadConfig reads the server configuration from the environment. Database
// credentials are only required when the postgres authentication backend
// is selected.
func LoadConfig() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "12345"),
		PoolSize:    getEnvInt("POOL_SIZE", 10),
		RNGSeed:     int64(getEnvInt("RNG_SEED", 42)),
		AuthBackend: getEnv("AUTH_BACKEND", AuthBackendFile),
		AuthFile:    getEnv("AUTH_FILE", "Authentication.txt"),
	}

	if cfg.AuthBackend == AuthBackendPostgres {
		cfg.DBHost = getEnv("DB_HOST", "localhost")
		cfg.DBPort = getEnv("DB_PORT", "5432")
		cfg.DBUser = getEnv("DB_USER", "")
		cfg.DBPassword = getEnv("DB_PASSWORD", "")
		cfg.DBName = getEnv("DB_NAME", "")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		if defaultValue == "" {
			log.Fatalf("Environment variable %s is not set", key)
		}
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %d", value, key, defaultValue)
		return defaultValue
	}
	return i
}
