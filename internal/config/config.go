package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StaticFilesInternal = "internal"
	StaticFilesExternal = "external"

	AvatarBackendLocal      = "local"
	AvatarBackendCloudinary = "cloudinary"
)

// Config is loaded once at startup and passed to constructors. It is never
// mutated afterwards.
type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string

	UploadDir     string
	StaticFiles   string
	ProxyPrefix   string
	AvatarBackend string

	RootUsername string
	RootPassword string

	CloudinaryURL          string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	BcryptCost      int
	ShutdownTimeout time.Duration
	// Location is used for day boundaries of the creation histograms and
	// for formatting created_at.
	Location *time.Location
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),

		DatabaseURL: getEnv("DATABASE_URL", os.Getenv("DB_URI")),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		StaticFiles:   getEnv("STATIC_FILES", StaticFilesInternal),
		ProxyPrefix:   normalizePrefix(os.Getenv("PROXY_PREFIX")),
		AvatarBackend: getEnv("AVATAR_BACKEND", AvatarBackendLocal),

		RootUsername: os.Getenv("ROOT_USERNAME"),
		RootPassword: os.Getenv("ROOT_PASSWORD"),

		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "avatars"),
	}

	var err error
	cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.Location, err = time.LoadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.UploadDir == "" && c.AvatarBackend == AvatarBackendLocal {
		return errors.New("UPLOAD_DIR is required")
	}
	switch c.StaticFiles {
	case StaticFilesInternal, StaticFilesExternal:
	default:
		return fmt.Errorf("invalid STATIC_FILES %q: want %s or %s", c.StaticFiles, StaticFilesInternal, StaticFilesExternal)
	}
	switch c.AvatarBackend {
	case AvatarBackendLocal, AvatarBackendCloudinary:
	default:
		return fmt.Errorf("invalid AVATAR_BACKEND %q: want %s or %s", c.AvatarBackend, AvatarBackendLocal, AvatarBackendCloudinary)
	}
	if (c.RootUsername == "") != (c.RootPassword == "") {
		return errors.New("ROOT_USERNAME and ROOT_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// normalizePrefix turns "api", "/api/" and "/api" into "/api".
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
