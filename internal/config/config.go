package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	Port int

	DatabaseURL string
	RedisURL    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	FacebookAppID     string
	FacebookAppSecret string
	FacebookCallback  string

	StaticDir string

	BotPreset      string
	BotPresetFile  string
	BotMoveDelay   time.Duration
	BotOpenDelay   time.Duration
	SessionTTL     time.Duration
	ScoreboardTTL  time.Duration
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:          3000,
		StaticDir:     "public",
		BotPreset:     "casual",
		BotMoveDelay:  450 * time.Millisecond,
		BotOpenDelay:  500 * time.Millisecond,
		SessionTTL:    7 * 24 * time.Hour,
		ScoreboardTTL: 5 * time.Second,
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	cfg.GoogleClientID = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	cfg.GoogleClientSecret = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET"))
	cfg.GoogleCallbackURL = strings.TrimSpace(os.Getenv("GOOGLE_CALLBACK_URL"))
	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = "http://localhost:3000/auth/google/callback"
	}

	cfg.FacebookAppID = strings.TrimSpace(os.Getenv("FACEBOOK_APP_ID"))
	cfg.FacebookAppSecret = strings.TrimSpace(os.Getenv("FACEBOOK_APP_SECRET"))
	cfg.FacebookCallback = strings.TrimSpace(os.Getenv("FACEBOOK_CALLBACK_URL"))
	if cfg.FacebookCallback == "" {
		cfg.FacebookCallback = "http://localhost:3000/auth/facebook/callback"
	}

	if v := strings.TrimSpace(os.Getenv("STATIC_DIR")); v != "" {
		cfg.StaticDir = v
	}
	if v := strings.TrimSpace(os.Getenv("BOT_PRESET")); v != "" {
		cfg.BotPreset = v
	}
	cfg.BotPresetFile = strings.TrimSpace(os.Getenv("BOT_PRESET_FILE"))

	if v := strings.TrimSpace(os.Getenv("BOT_MOVE_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.BotMoveDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOT_OPEN_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.BotOpenDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTL = time.Duration(n) * time.Hour
		}
	}
	if v := strings.TrimSpace(os.Getenv("LEADERBOARD_CACHE_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ScoreboardTTL = time.Duration(n) * time.Second
		}
	}

	return cfg, nil
}

// GoogleEnabled reports whether Google login can be wired.
func (c *AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// FacebookEnabled reports whether Facebook login can be wired.
func (c *AppConfig) FacebookEnabled() bool {
	return c.FacebookAppID != "" && c.FacebookAppSecret != ""
}
