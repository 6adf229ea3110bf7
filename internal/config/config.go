// Package config reads server settings from the environment. A .env file in
// the working directory, when present, is loaded first; variables already
// set in the environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Photo storage backends.
const (
	PhotoInline = "inline"
	PhotoS3     = "s3"
)

type Config struct {
	Port     int
	DBPath   string
	LogLevel slog.Level

	JWTSecret string
	// GeneratedSecret is set when JWT_SECRET was missing and a throwaway
	// secret was made up. Sessions then die with the process.
	GeneratedSecret bool
	SessionTTL      time.Duration
	CookieSecure    bool

	Gemini GeminiConfig
	Photo  PhotoConfig
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
	Timeout    time.Duration
}

type PhotoConfig struct {
	Backend       string
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv. Unset and empty variables take
// their defaults.
func FromLookup(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []error

	cfg := Config{
		DBPath:    env("DB_PATH", "data/ganfan.db"),
		JWTSecret: env("JWT_SECRET", ""),
		Gemini: GeminiConfig{
			APIKey:     env("GEMINI_API_KEY", ""),
			Model:      env("GEMINI_MODEL", "gemini-3-flash-preview"),
			ImageModel: env("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			BaseURL:    env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		},
		Photo: PhotoConfig{
			Backend:       strings.ToLower(env("PHOTO_BACKEND", PhotoInline)),
			Bucket:        env("S3_BUCKET", ""),
			Region:        env("S3_REGION", "us-east-1"),
			Endpoint:      env("S3_ENDPOINT", ""),
			AccessKey:     env("S3_ACCESS_KEY", ""),
			SecretKey:     env("S3_SECRET_KEY", ""),
			PublicBaseURL: env("S3_PUBLIC_BASE_URL", ""),
		},
	}

	port, err := strconv.Atoi(env("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", getenv("PORT")))
	}
	cfg.Port = port

	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if cfg.SessionTTL, err = parseDuration(env("SESSION_TTL", "720h")); err != nil {
		errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
	}
	if cfg.Gemini.Timeout, err = parseDuration(env("AI_TIMEOUT", "60s")); err != nil {
		errs = append(errs, fmt.Errorf("AI_TIMEOUT: %w", err))
	}
	if cfg.CookieSecure, err = strconv.ParseBool(env("COOKIE_SECURE", "false")); err != nil {
		errs = append(errs, fmt.Errorf("COOKIE_SECURE: %w", err))
	}

	switch {
	case cfg.JWTSecret == "":
		cfg.JWTSecret = "dev-" + uuid.NewString()
		cfg.GeneratedSecret = true
	case len(cfg.JWTSecret) < 16:
		errs = append(errs, errors.New("JWT_SECRET: must be at least 16 characters"))
	}

	switch cfg.Photo.Backend {
	case PhotoInline:
	case PhotoS3:
		if cfg.Photo.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET: required when PHOTO_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("PHOTO_BACKEND: unknown backend %q", cfg.Photo.Backend))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}
