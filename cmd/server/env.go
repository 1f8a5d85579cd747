package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/muezzin/internal/config"
	"github.com/Nixie-Tech-LLC/muezzin/internal/geoip"
	"github.com/Nixie-Tech-LLC/muezzin/internal/logging"
)

type Environment struct {
	Config   *config.Config
	Settings *config.Settings
	TZ       *time.Location

	// settingsMu guards Settings once the HTTP server is running.
	settingsMu sync.Mutex
}

// LoadEnvironment reads env vars and the settings file, and sets up logging.
func LoadEnvironment(ctx context.Context) (*Environment, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Setup(level, pretty)

	detector := geoip.NewDetector(cfg.GeoIPURL)
	settings, err := config.LoadSettings(ctx, cfg.SettingsPath, detector.Detect)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	tz, err := settings.LoadLocation()
	if err != nil {
		return nil, err
	}

	return &Environment{Config: cfg, Settings: settings, TZ: tz}, nil
}

func (env *Environment) Now() time.Time {
	return time.Now().In(env.TZ)
}

// SaveAzan records the active azan recording in the settings file.
func (env *Environment) SaveAzan(name string) error {
	env.settingsMu.Lock()
	defer env.settingsMu.Unlock()
	env.Settings.AzanFile = name
	return config.SaveSettings(env.Config.SettingsPath, env.Settings)
}
