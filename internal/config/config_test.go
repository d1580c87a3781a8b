package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MAX_BUCKETS", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("QUESTION_STORE", "")

	cfg := FromEnv()
	assert.Equal(t, ModeOffline, cfg.Mode)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "sql", cfg.QuestionStore)
	assert.Equal(t, 50, cfg.MaxBuckets)
	assert.Equal(t, 100, cfg.MaxBucketCount)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.True(t, cfg.EnableRegistration)
	assert.False(t, cfg.StrictTotalMarks)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("STRICT_TOTAL_MARKS", "yes")
	t.Setenv("MAX_BUCKETS", "7")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := FromEnv()
	assert.Equal(t, ModeOnline, cfg.Mode)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.StrictTotalMarks)
	assert.Equal(t, 7, cfg.MaxBuckets)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.LogDevelopment)
}

func TestEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("MAX_BUCKET_COUNT", "lots")
	assert.Equal(t, 100, FromEnv().MaxBucketCount)
	t.Setenv("MAX_BUCKET_COUNT", "-3")
	assert.Equal(t, 100, FromEnv().MaxBucketCount)
}
