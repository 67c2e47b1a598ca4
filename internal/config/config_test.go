package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Port:       "8460",
		JWTSecret:  strings.Repeat("s", 32),
		DBPassword: "something-strong",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid production config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "default secret in production",
			mutate:  func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" },
			wantErr: "must be changed from the default",
		},
		{
			name:    "short secret in production",
			mutate:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "weak db password in production",
			mutate:  func(c *Config) { c.DBPassword = "password" },
			wantErr: "strong DB_PASSWORD",
		},
		{
			name: "short secret tolerated in development",
			mutate: func(c *Config) {
				c.Env = "development"
				c.JWTSecret = "short"
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validProductionConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()

	s := NewSettings(viper.New())

	weights := s.RankingWeights()
	assert.Equal(t, 1.0, weights.Like)
	assert.Equal(t, 2.0, weights.Comment)
	assert.Equal(t, 3.0, weights.Share)
	assert.Equal(t, 10.0, weights.Freshness)
	assert.Equal(t, 1.5, weights.Gravity)
	assert.Equal(t, 0.5, weights.EditPenalty)

	assert.Equal(t, 1.0, s.PlanMultiplier("free"))
	assert.Equal(t, 1.25, s.PlanMultiplier("pro"))
	assert.Equal(t, 1.5, s.PlanMultiplier("elite"))
	assert.Equal(t, 1.0, s.PlanMultiplier("unknown"), "unknown plans rank as free")

	assert.Equal(t, 24*time.Hour, s.MediaEditWindow())
	assert.Equal(t, 10000, s.MaxPostLength())
	assert.Equal(t, 2000, s.MaxCommentLength())
	assert.Equal(t, 3, s.ReplyPreview())
	assert.Equal(t, 5*time.Minute, s.RescoreInterval())
	assert.Equal(t, 15*time.Minute, s.RescoreStaleness())
	assert.Equal(t, 500, s.RescoreBatchSize())
	assert.Equal(t, 3, s.FeaturedLimit())
}

func TestSettingsRereadEveryCall(t *testing.T) {
	t.Parallel()

	v := viper.New()
	s := NewSettings(v)

	assert.Equal(t, 1.5, s.RankingWeights().Gravity)

	// Retuning through viper is visible on the very next read; nothing is
	// cached in Settings.
	v.Set("ranking.gravity", 1.8)
	assert.Equal(t, 1.8, s.RankingWeights().Gravity)

	v.Set("ranking.multiplier.pro", 2.0)
	assert.Equal(t, 2.0, s.PlanMultiplier("pro"))

	v.Set("rescore.staleness", "1h")
	assert.Equal(t, time.Hour, s.RescoreStaleness())
}
