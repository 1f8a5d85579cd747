package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
)

const (
	DefaultEvaluateSchedule = "0 * * * * *"
	DefaultAladhanURL       = "https://api.aladhan.com"
	DefaultGeoIPURL         = "http://ip-api.com/json/"
)

// Config holds environment-based settings
type Config struct {
	Environment      string
	ServerAddress    string
	LogLevel         string
	SettingsPath     string
	Intervals        countdown.Intervals
	EvaluateSchedule string

	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTClientID  string
	MQTTTopic     string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	AudioPlayer string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesAccessKey string
	SpacesSecretKey string

	AladhanURL string
	GeoIPURL   string
}

// AdminEnabled reports whether the JWT protected admin API can be mounted.
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != "" && c.AdminEmail != "" && c.AdminPasswordHash != ""
}

// Load reads configuration from environment variables, after merging envFile
// into the environment when it exists. Variables already set win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	intervals, err := countdown.ParseIntervals(getenv("ANNOUNCEMENT_INTERVALS", "180,120,90,60,45,30,20"))
	if err != nil {
		return nil, fmt.Errorf("ANNOUNCEMENT_INTERVALS: %w", err)
	}

	evaluate := getenv("EVALUATE_SCHEDULE", DefaultEvaluateSchedule)
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(evaluate); err != nil {
		return nil, fmt.Errorf("EVALUATE_SCHEDULE %q: %w", evaluate, err)
	}

	cfg := &Config{
		Environment:      getenv("APP_ENV", "development"),
		ServerAddress:    getenv("SERVER_ADDRESS", ":8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		SettingsPath:     getenv("SETTINGS_PATH", "./muezzin.yaml"),
		Intervals:        intervals,
		EvaluateSchedule: evaluate,

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  getenv("MQTT_CLIENT_ID", "muezzin"),
		MQTTTopic:     getenv("MQTT_TOPIC", "athan/announcements"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		AudioPlayer: os.Getenv("AUDIO_PLAYER"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),

		AladhanURL: strings.TrimSuffix(getenv("ALADHAN_BASE_URL", DefaultAladhanURL), "/"),
		GeoIPURL:   getenv("GEOIP_URL", DefaultGeoIPURL),
	}

	if cfg.UseSpaces && (cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "") {
		return nil, fmt.Errorf("SPACES_ENDPOINT and SPACES_BUCKET are required when USE_SPACES=true")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
