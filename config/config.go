package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server Server
	Mongo  Mongo
	Auth   Auth
	Media  Media
	App    App
}

type Server struct {
	Port string
	// Origin of the desktop webview, allowed through CORS.
	UIOrigin string
}

type Mongo struct {
	URI      string
	Database string
}

type Auth struct {
	JWTSecret string
	// Login attempts allowed per email per minute.
	LoginRatePerMin int
	LoginBurst      int
}

type Media struct {
	// "cloudinary" or "s3"
	Backend string

	CloudinaryBaseURL   string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryPreset    string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

type App struct {
	Environment string
	Version     string
	// Cron spec (with seconds) for the orphaned-image sweep.
	SweepSpec string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: Server{
			Port:     getEnv("PORT", "8080"),
			UIOrigin: getEnv("UI_ORIGIN", "tauri://localhost"),
		},
		Mongo: Mongo{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "hooked_db"),
		},
		Auth: Auth{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			LoginRatePerMin: getEnvAsInt("LOGIN_RATE_PER_MIN", 10),
			LoginBurst:      getEnvAsInt("LOGIN_BURST", 5),
		},
		Media: Media{
			Backend:             getEnv("MEDIA_BACKEND", "cloudinary"),
			CloudinaryBaseURL:   getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
			CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			CloudinaryPreset:    getEnv("CLOUDINARY_UPLOAD_PRESET", "hooked_unsigned"),
			S3Endpoint:          getEnv("S3_ENDPOINT", ""),
			S3Region:            getEnv("S3_REGION", "us-east-1"),
			S3Bucket:            getEnv("S3_BUCKET", "hooked-images"),
			S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
		},
		App: App{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SweepSpec:   getEnv("SWEEP_CRON", "0 0 0 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Media.Backend {
	case "cloudinary", "s3":
	default:
		return fmt.Errorf("MEDIA_BACKEND must be cloudinary or s3, got %q", c.Media.Backend)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
