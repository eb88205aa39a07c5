package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Booking  BookingConfig
	OTP      OTPConfig
	Upload   UploadConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret       string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// BookingConfig holds the appointment rules that operators may tighten.
type BookingConfig struct {
	DailyLimit               int
	EnforceOwnership         bool
	RequireDoctorAffiliation bool
}

type OTPConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// LoadConfig reads envFile (or .env when empty) and the process environment.
func LoadConfig(envFile string) *Config {
	if envFile == "" {
		envFile = ".env"
	}
	// Missing file is fine; the environment may already be populated.
	_ = godotenv.Load(envFile)

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hospital_booking"),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_SECRET", "your-access-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "8760h"), 8760*time.Hour),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "17520h"), 17520*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Booking: BookingConfig{
			DailyLimit:               parseInt(getEnv("BOOKING_DAILY_LIMIT", "3"), 3),
			EnforceOwnership:         parseBool(getEnv("ENFORCE_APPOINTMENT_OWNERSHIP", "false")),
			RequireDoctorAffiliation: parseBool(getEnv("REQUIRE_DOCTOR_AFFILIATION", "false")),
		},
		OTP: OTPConfig{
			TTL:             parseDuration(getEnv("OTP_TTL", "5m"), 5*time.Minute),
			CleanupInterval: parseDuration(getEnv("OTP_CLEANUP_INTERVAL", "10m"), 10*time.Minute),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(parseInt(getEnv("UPLOAD_MAX_BYTES", "5242880"), 5<<20)),
		},
	}
}

// DSN builds the go-sql-driver/mysql connection string.
func (d DatabaseConfig) DSN() string {
	return d.User + ":" + d.Password + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Database +
		"?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Warn().Str("value", s).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Warn().Str("value", s).Int("default", fallback).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
