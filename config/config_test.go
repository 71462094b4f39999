package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	for _, key := range []string{"SERVER_PORT", "DB_HOST", "DB_SSL", "BCRYPT_COST", "REQUEST_TIMEOUT", "STORAGE_BACKEND", "MQ_BACKEND", "MINIO_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.True(t, cfg.Secure())
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "internal/db/migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "I@mABas1cCl!3nt", cfg.Seed.ClientPassword)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_SSL", "yes")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "  secret  ")
	t.Setenv("STORAGE_BACKEND", "MinIO")
	t.Setenv("MQ_BACKEND", "RabbitMQ")
	t.Setenv("RABBITMQ_QUEUE_DURABLE", "off")

	cfg := LoadConfig()

	assert.False(t, cfg.Secure())
	assert.Equal(t, 8081, cfg.ServerPort)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "rabbitmq", cfg.MQ.Backend)
	assert.False(t, cfg.MQ.RabbitMQ.QueueDurable)
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("CONFIG_TEST_INT", "not-a-number")
	t.Setenv("CONFIG_TEST_BOOL", "maybe")
	t.Setenv("CONFIG_TEST_DURATION", "soon")

	assert.Equal(t, 7, getEnvInt("CONFIG_TEST_INT", 7))
	assert.True(t, getEnvBool("CONFIG_TEST_BOOL", true))
	assert.Equal(t, time.Minute, getEnvDuration("CONFIG_TEST_DURATION", time.Minute))
	assert.Equal(t, "fallback", getEnv("CONFIG_TEST_UNSET_KEY", "fallback"))
}
