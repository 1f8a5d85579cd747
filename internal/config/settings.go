package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// DefaultAzanURL is downloaded when no local azan file exists yet.
const DefaultAzanURL = "https://www.islamcan.com/audio/adhan/azan1.mp3"

// Settings is the persisted, user-editable part of the configuration.
type Settings struct {
	model.Location `yaml:",inline"`

	// Method is the aladhan calculation method (2 = ISNA).
	Method   int    `yaml:"method"`
	Timezone string `yaml:"timezone,omitempty"`

	AzanFile          string `yaml:"azan_file"`
	AzanURL           string `yaml:"azan_url"`
	UseDefaultAzan    bool   `yaml:"use_default_azan"`
	AnnouncementVoice bool   `yaml:"announcement_voice"`
}

// Detector looks up the current location. It must always return a usable
// location, falling back on its own when detection fails.
type Detector func(ctx context.Context) model.Location

// DefaultSettings adopts loc's detected time zone when this machine knows it.
func DefaultSettings(loc model.Location) *Settings {
	zone := loc.Timezone
	loc.Timezone = ""
	if zone != "" {
		if _, err := time.LoadLocation(zone); err != nil {
			log.Warn().Err(err).Str("timezone", zone).Msg("ignoring detected time zone")
			zone = ""
		}
	}
	return &Settings{
		Location:          loc,
		Method:            2,
		Timezone:          zone,
		AzanFile:          "azan.mp3",
		AzanURL:           DefaultAzanURL,
		UseDefaultAzan:    true,
		AnnouncementVoice: true,
	}
}

func (s *Settings) normalize() {
	if s.Method == 0 {
		s.Method = 2
	}
	if s.AzanFile == "" {
		s.AzanFile = "azan.mp3"
	}
	if s.AzanURL == "" {
		s.AzanURL = DefaultAzanURL
	}
}

// Validate rejects coordinates outside the valid range and unknown time zones.
func (s *Settings) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", s.Longitude)
	}
	if s.Timezone != "" {
		if _, err := s.LoadLocation(); err != nil {
			return err
		}
	}
	return nil
}

// LoadLocation returns the configured time zone, or time.Local when unset.
func (s *Settings) LoadLocation() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// LoadSettings reads the YAML settings at path. When the file does not exist
// the location is detected, defaults are filled in and the file is created.
func LoadSettings(ctx context.Context, path string, detect Detector) (*Settings, error) {
	if path == "" {
		return nil, errors.New("settings path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Info().Str("path", path).Msg("settings file not found, creating it")
		loc := model.Mecca
		if detect != nil {
			loc = detect(ctx)
		}
		s := DefaultSettings(loc)
		if err := SaveSettings(path, s); err != nil {
			return s, err
		}
		log.Info().Str("city", loc.City).Str("country", loc.Country).
			Float64("latitude", loc.Latitude).Float64("longitude", loc.Longitude).
			Msg("location saved")
		return s, nil
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	log.Info().Str("path", path).Str("city", s.City).Str("country", s.Country).Msg("settings loaded")
	return &s, nil
}

// SaveSettings writes s atomically with 0600 permissions.
func SaveSettings(path string, s *Settings) error {
	if s == nil {
		return errors.New("settings are nil")
	}
	s.normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".muezzin-settings-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
