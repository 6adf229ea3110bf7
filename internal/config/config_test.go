package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/ganfan.db", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.Model)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.ImageModel)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Equal(t, PhotoInline, cfg.Photo.Backend)

	assert.True(t, cfg.GeneratedSecret)
	assert.GreaterOrEqual(t, len(cfg.JWTSecret), 16)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"PORT":           "9090",
		"DB_PATH":        "/tmp/g.db",
		"LOG_LEVEL":      "debug",
		"JWT_SECRET":     "0123456789abcdef",
		"SESSION_TTL":    "1h",
		"COOKIE_SECURE":  "true",
		"GEMINI_API_KEY": "k",
		"AI_TIMEOUT":     "5s",
		"PHOTO_BACKEND":  "S3",
		"S3_BUCKET":      "meals",
		"S3_ENDPOINT":    "http://minio:9000",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/g.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "0123456789abcdef", cfg.JWTSecret)
	assert.False(t, cfg.GeneratedSecret)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "k", cfg.Gemini.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, PhotoS3, cfg.Photo.Backend)
	assert.Equal(t, "meals", cfg.Photo.Bucket)
	assert.Equal(t, "us-east-1", cfg.Photo.Region)
	assert.Equal(t, "http://minio:9000", cfg.Photo.Endpoint)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{name: "port", vars: map[string]string{"PORT": "eighty"}, wantErr: "PORT"},
		{name: "port range", vars: map[string]string{"PORT": "70000"}, wantErr: "PORT"},
		{name: "log level", vars: map[string]string{"LOG_LEVEL": "loud"}, wantErr: "LOG_LEVEL"},
		{name: "short secret", vars: map[string]string{"JWT_SECRET": "short"}, wantErr: "JWT_SECRET"},
		{name: "timeout", vars: map[string]string{"AI_TIMEOUT": "soon"}, wantErr: "AI_TIMEOUT"},
		{name: "negative ttl", vars: map[string]string{"SESSION_TTL": "-1h"}, wantErr: "SESSION_TTL"},
		{name: "cookie flag", vars: map[string]string{"COOKIE_SECURE": "maybe"}, wantErr: "COOKIE_SECURE"},
		{name: "backend", vars: map[string]string{"PHOTO_BACKEND": "ftp"}, wantErr: "PHOTO_BACKEND"},
		{name: "bucket", vars: map[string]string{"PHOTO_BACKEND": "s3"}, wantErr: "S3_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookup(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromLookup_ReportsAllProblems(t *testing.T) {
	_, err := FromLookup(lookup(map[string]string{"PORT": "x", "LOG_LEVEL": "y"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}
