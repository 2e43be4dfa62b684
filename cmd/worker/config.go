package main

import (
	"log"
	"os"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr string
}

func loadConfig() *Config {
	cfg := &Config{
		RedisAddr: getEnv("REDIS_HOST", "localhost:6379"),
	}

	log.Printf("[Config] Redis: %s", cfg.RedisAddr)
	return cfg
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
