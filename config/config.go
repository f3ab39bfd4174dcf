package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadEnv sync.Once

// Config returns a required environment variable, loading .env on first use.
// The process exits if the variable is not set.
func Config(envVar string) string {
	loadEnv.Do(func() {
		// .env is optional outside local development
		_ = godotenv.Load()
	})

	envVarValue := os.Getenv(envVar)
	if envVarValue == "" {
		fmt.Fprintf(os.Stderr, "%s not set\n", envVar)
		os.Exit(1)
	}

	return envVarValue
}

// Optional returns an environment variable or the fallback when unset.
func Optional(envVar, fallback string) string {
	loadEnv.Do(func() {
		_ = godotenv.Load()
	})

	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}
