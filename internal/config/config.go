package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL         string
	LiveRefreshInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:         strings.TrimSpace(os.Getenv("PLANNER_DB")),
		LiveRefreshInterval: parseSeconds(strings.TrimSpace(os.Getenv("PLANNER_LIVE_REFRESH_SECONDS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "day_planner.db"
	}

	if cfg.LiveRefreshInterval == 0 {
		cfg.LiveRefreshInterval = 30 * time.Second
	}

	return cfg, nil
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
