package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cimbar-go/cimbar/pkg/cli"
)

// loadEnv pulls CIMBAR_* defaults from the environment, optionally seeded
// from a .env file. godotenv.Load() is tried first; if that fails (e.g. no
// .env present) cli.LoadDotEnv is tried as a fallback parser.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		_ = cli.LoadDotEnv(".env")
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
