package initializers

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver       string
	DBSource       string
	Port           string
	JWTSecret      string
	JWTTTL         time.Duration
	FrontendURL    string
	AllowedOrigins []string
	S3Bucket       string
	FromEmail      string
	EmailPassword  string
	SMTPHost       string
	SMTPAddress    string
}

var Env Config

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set to serve the API")

// LoadEnv reads an optional .env file and fills Env from the process
// environment.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file loaded, using process environment:", err)
	}
	Env = LoadConfig()
}

func LoadConfig() Config {
	return Config{
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBSource:       getEnv("DB_SOURCE", "amexan.db"),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         getDuration("JWT_TTL", 30*24*time.Hour),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		S3Bucket:       getEnv("S3_BUCKET", "amexan"),
		FromEmail:      os.Getenv("FROM_EMAIL"),
		EmailPassword:  os.Getenv("FROM_EMAIL_PASSWORD"),
		SMTPHost:       os.Getenv("FROM_EMAIL_SMTP"),
		SMTPAddress:    os.Getenv("SMTP_ADDRESS"),
	}
}

// Validate checks the settings the HTTP API cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
