package utils

import (
	"os"
	"strconv"
	"time"
)

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// GetenvInt64 is Getenv for integer settings. Unparsable values fall back.
func GetenvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		LogInfo("Ignoring invalid integer env value", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return n
}

// GetenvDuration parses values such as "24h" or "90m".
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		LogInfo("Ignoring invalid duration env value", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return d
}
