package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	AWS       AWSConfig
	Features  FeatureFlags
}

type ServerConfig struct {
	Port         int
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver            string
	Host              string
	Port              int
	User              string
	Password          string
	PasswordSecretARN string
	Name              string
	SSLMode           string
	Path              string
	AutoMigrate       bool
	MaxOpenConns      int
	MaxIdleConns      int
	MaxLifetime       time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ConnectionString returns the driver DSN: the file path for SQLite, a
// postgres:// URL otherwise so credentials may hold any character.
func (d DatabaseConfig) ConnectionString() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	ContactosTopic string
	FacturasTopic  string
	ConsumerGroup  string
}

type StorageConfig struct {
	UploadDir     string
	PublicPath    string
	MaxUploadSize int64
}

type CORSConfig struct {
	AllowOrigins []string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	FromName     string
	NotifyTo     string
}

type AWSConfig struct {
	Region string
}

type FeatureFlags struct {
	EnableContactoCaching bool
	EnableRedisCache      bool
	EnableEvents          bool
	EnableNotifications   bool
	EnableRateLimit       bool
	EnableSwagger         bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 4000),
			Mode:         getEnvString("GIN_MODE", "debug"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:            getEnvString("DB_DRIVER", DriverPostgres),
			Host:              getEnvString("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnvString("DB_USER", "impuestosrd"),
			Password:          getEnvString("DB_PASSWORD", "impuestosrd"),
			PasswordSecretARN: getEnvString("DB_PASSWORD_SECRET_ARN", ""),
			Name:              getEnvString("DB_NAME", "impuestosrd"),
			SSLMode:           getEnvString("DB_SSLMODE", "disable"),
			Path:              getEnvString("DB_PATH", "impuestosrd.db"),
			AutoMigrate:       getEnvBool("DB_AUTO_MIGRATE", false),
			MaxOpenConns:      getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:      getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:       getEnvDuration("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:        getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			ContactosTopic: getEnvString("KAFKA_CONTACTOS_TOPIC", "impuestosrd.contactos"),
			FacturasTopic:  getEnvString("KAFKA_FACTURAS_TOPIC", "impuestosrd.facturas"),
			ConsumerGroup:  getEnvString("KAFKA_CONSUMER_GROUP", "impuestosrd-notifications"),
		},
		Storage: StorageConfig{
			UploadDir:     getEnvString("UPLOAD_DIR", "uploads"),
			PublicPath:    getEnvString("UPLOAD_PUBLIC_PATH", "/uploads"),
			MaxUploadSize: int64(getEnvInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 10),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnvString("RESEND_API_KEY", ""),
			FromEmail:    getEnvString("EMAIL_FROM", "no-reply@impuestosrd.com"),
			FromName:     getEnvString("EMAIL_FROM_NAME", "ImpuestosRD"),
			NotifyTo:     getEnvString("EMAIL_NOTIFY_TO", "contacto@impuestosrd.com"),
		},
		AWS: AWSConfig{
			Region: getEnvString("AWS_REGION", "us-east-1"),
		},
		Features: FeatureFlags{
			EnableContactoCaching: getEnvBool("FEATURE_CONTACTO_CACHE", true),
			EnableRedisCache:      getEnvBool("FEATURE_REDIS_CACHE", false),
			EnableEvents:          getEnvBool("FEATURE_EVENTS", false),
			EnableNotifications:   getEnvBool("FEATURE_NOTIFICATIONS", false),
			EnableRateLimit:       getEnvBool("FEATURE_RATE_LIMIT", true),
			EnableSwagger:         getEnvBool("FEATURE_SWAGGER", true),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
