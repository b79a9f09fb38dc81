package app

import (
	"strings"
	"time"

	"werkzeugverwaltung/config"
	"werkzeugverwaltung/db"
	"werkzeugverwaltung/livingapps"
	"werkzeugverwaltung/refs"
)

const (
	BackendLivingApps = "livingapps"
	BackendPostgres   = "postgres"
	BackendMemory     = "memory"
)

// Config is read from the environment, see LoadConfig.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	TimeZone  string
	WebOrigin string

	APIKeys      []string
	AdminAPIKeys []string

	Backend    string
	LivingApps livingapps.Config
	DB         db.Config

	RedisAddr   string
	RedisPwd    string
	SnapshotTTL time.Duration

	InspectionHorizonDays int
	ActivityLimit         int
	StrictCheckouts       bool
	SeedDemo              bool
}

func (c Config) Development() bool { return strings.EqualFold(c.Env, "development") }

func LoadConfig() Config {
	return Config{
		Port:      config.Get("PORT", "3001"),
		Env:       config.Get("APP_ENV", "production"),
		LogLevel:  config.Get("LOG_LEVEL", ""),
		TimeZone:  config.Get("APP_TZ", "Europe/Berlin"),
		WebOrigin: config.Get("WEB_ORIGIN", "http://localhost:5173"),

		APIKeys:      config.GetList("API_KEYS"),
		AdminAPIKeys: config.GetList("ADMIN_API_KEYS"),

		Backend: strings.ToLower(config.Get("STORE_BACKEND", BackendLivingApps)),
		LivingApps: livingapps.Config{
			BaseURL: config.Get("LA_BASE_URL", refs.DefaultBaseURL),
			APIKey:  config.Get("LA_API_KEY", ""),
			Timeout: time.Duration(config.GetInt("LA_TIMEOUT_SECONDS", 15)) * time.Second,
			Apps: refs.AppIDs{
				Employees: config.Get("LA_APP_EMPLOYEES", refs.DefaultAppIDs.Employees),
				Tools:     config.Get("LA_APP_TOOLS", refs.DefaultAppIDs.Tools),
				Locations: config.Get("LA_APP_LOCATIONS", refs.DefaultAppIDs.Locations),
				Checkouts: config.Get("LA_APP_CHECKOUTS", refs.DefaultAppIDs.Checkouts),
				Returns:   config.Get("LA_APP_RETURNS", refs.DefaultAppIDs.Returns),
			},
		},
		DB: db.Config{
			Host:     config.Get("DB_HOST", ""),
			Port:     config.Get("DB_PORT", "5432"),
			User:     config.Get("DB_USER", "postgres"),
			Password: config.Get("DB_PASSWORD", ""),
			Name:     config.Get("DB_NAME", "werkzeugverwaltung"),
			SSLMode:  config.Get("DB_SSLMODE", "disable"),
		},

		RedisAddr:   config.Get("REDIS_ADDR", ""),
		RedisPwd:    config.Get("REDIS_PASSWORD", ""),
		SnapshotTTL: time.Duration(config.GetInt("SNAPSHOT_TTL_SECONDS", 30)) * time.Second,

		InspectionHorizonDays: config.GetInt("INSPECTION_HORIZON_DAYS", 30),
		ActivityLimit:         config.GetInt("ACTIVITY_LIMIT", 10),
		StrictCheckouts:       config.GetBool("STRICT_CHECKOUTS", false),
		SeedDemo:              config.GetBool("SEED_DEMO", false),
	}
}
