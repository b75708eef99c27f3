package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "mamo-store", cfg.App.Name)
	assert.Equal(t, "3001", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Remote.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Remote.WriteTimeout)
	assert.Equal(t, 500, cfg.Store.EventLogCap)
	assert.Equal(t, 0.2, cfg.Store.FluctuationChance)
	assert.Equal(t, int64(25), cfg.Store.FluctuationBound)
	assert.Equal(t, "gemini-3-pro-preview", cfg.AI.ChatModel)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, valid().validate())
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "mongodb"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects fluctuation chance out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Store.FluctuationChance = 1.5
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		assert.NoError(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "mamo",
		Password: "p@ss/word",
		DBName:   "mamo",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word") // special characters are escaped
}
