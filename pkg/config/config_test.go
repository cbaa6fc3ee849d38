package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLife)
	assert.Equal(t, "postgres://postgres:@localhost:5432/almacen?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "Memory")
	v.Set("DB_PORT", "6543")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("LOCK_TTL_SECONDS", "5")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	v.Set("DB_LOCK_TIMEOUT_MS", "0")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
	assert.Zero(t, cfg.DB.LockTimeout)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=require", c.DSN())
}
