package config

import "os"

// Config holds everything the process reads from the environment.
// cmd/main.go loads .env via godotenv before calling Load, so local runs
// and containers resolve the same way.
type Config struct {
	ListenAddr  string
	PostgresDSN string
	RedisAddr   string
	RedisPass   string
	JWTSecret   string
	UploadDir   string

	SMTPAddr string
	SMTPFrom string
}

func Load() Config {
	return Config{
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN: getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=projectpulse port=5432 sslmode=disable"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getenv("JWT_SECRET", "dev-only-secret"),
		UploadDir:   getenv("UPLOAD_DIR", "./uploads"),
		SMTPAddr:    os.Getenv("SMTP_ADDR"),
		SMTPFrom:    getenv("SMTP_FROM", "no-reply@projectpulse.local"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
