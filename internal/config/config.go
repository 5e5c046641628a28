package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the server's runtime configuration, read from the
// environment (a .env file is loaded automatically when present).
type Config struct {
	Port        string
	DBPath      string
	UsersURL    string
	LogLevel    string
	PersistList bool
}

func Load() Config {
	return Config{
		Port:        getEnv("TROLLEY_PORT", "8080"),
		DBPath:      getEnv("TROLLEY_DB_PATH", "trolley.db"),
		UsersURL:    getEnv("TROLLEY_USERS_URL", "http://localhost:3001"),
		LogLevel:    getEnv("TROLLEY_LOG_LEVEL", "info"),
		PersistList: getEnvBool("TROLLEY_PERSIST_LIST", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
