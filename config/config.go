package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env            string
	ServerHost     string
	ServerPort     int
	RequestTimeout time.Duration
	Auth           AuthConfig
	Database       DatabaseConfig
	Log            LogConfig
	Redis          RedisConfig
	Storage        StorageConfig
	MQ             MQConfig
	Seed           SeedConfig
}

type AuthConfig struct {
	JWTSecret     string
	SessionSecret string
	TokenTTL      time.Duration
	BcryptCost    int
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	UseSSL         bool
	MigrationsPath string
}

type LogConfig struct {
	Level string
	File  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type MQConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL          string
	QueueDurable bool
}

type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

// SeedConfig holds the passwords assigned to the default accounts
// when they are first created.
type SeedConfig struct {
	ClientPassword   string
	EmployeePassword string
	AdminPassword    string
}

// Secure reports whether cookies should carry the Secure attribute.
func (c Config) Secure() bool {
	return c.Env == EnvProduction
}

func LoadConfig() Config {
	switch os.Getenv("ENV") {
	case "", "dev", EnvDevelopment:
		_ = godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           getEnvInt("DB_PORT", 5432),
		User:           getEnv("DB_USER", "cse"),
		Password:       getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "cse_motors"),
		UseSSL:         getEnvBool("DB_SSL", false),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "internal/db/migrations"),
	}

	return Config{
		Env:            getEnv("ENV", EnvDevelopment),
		ServerHost:     getEnv("SERVER_HOST", ""),
		ServerPort:     getEnvInt("SERVER_PORT", 5500),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		Auth: AuthConfig{
			JWTSecret:     strings.TrimSpace(getEnv("JWT_SECRET", "")),
			SessionSecret: strings.TrimSpace(getEnv("SESSION_SECRET", "")),
			TokenTTL:      time.Hour,
			BcryptCost:    getEnvInt("BCRYPT_COST", 10),
		},
		Database: dbConfig,
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "")),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "vehicles"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		MQ: MQConfig{
			Backend: strings.ToLower(getEnv("MQ_BACKEND", "")),
			RabbitMQ: RabbitMQConfig{
				URL:          getEnv("RABBITMQ_URL", ""),
				QueueDurable: getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			},
			PubSub: PubSubConfig{
				ProjectID:       getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile: getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			},
		},
		Seed: SeedConfig{
			ClientPassword:   getEnv("SEED_CLIENT_PASSWORD", "I@mABas1cCl!3nt"),
			EmployeePassword: getEnv("SEED_EMPLOYEE_PASSWORD", "I@mAnEmpl0y33"),
			AdminPassword:    getEnv("SEED_ADMIN_PASSWORD", "I@mAnAdm!n1strat0r"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(valueStr); err == nil {
			return d
		}
	}
	return defaultValue
}
