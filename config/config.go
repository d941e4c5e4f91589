package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	DBPath        string
	JWTSecret     []byte
	JWTTTL        time.Duration
	AdminEmail    string
	AdminPassword string
	SeedCatalog   bool
	UploadDir     string
	KafkaBrokers  []string
	KafkaTopic    string
	OTLPEndpoint  string
	CORSOrigins   []string
	LogLevel      string
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, errors.New("JWT_TTL must be a duration such as 24h")
	}

	return &Config{
		Port:          getEnv("PORT", "5001"),
		GinMode:       os.Getenv("GIN_MODE"),
		DBPath:        getEnv("DB_PATH", "cravecart.db"),
		JWTSecret:     []byte(getEnv("JWT_SECRET", "cravecart_dev_secret")),
		JWTTTL:        ttl,
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SeedCatalog:   getBool("SEED_CATALOG", false),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		KafkaBrokers:  getList("KAFKA_BROKERS"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "cravecart.orders"),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		CORSOrigins:   getList("CORS_ORIGINS"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
