package main

import (
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/storage"
)

// InitStorage selects the configured storage backend and the azan recording
// played on arrival. Local files live next to the settings file.
func InitStorage(env *Environment) (storage.Storage, *storage.Azan, error) {
	cfg, settings := env.Config, env.Settings
	dataDir := filepath.Dir(cfg.SettingsPath)

	var (
		files       storage.Storage
		downloadDir = dataDir
	)
	if cfg.UseSpaces {
		downloadDir = filepath.Join(dataDir, ".azan-cache")
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
			downloadDir,
		)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("bucket", cfg.SpacesBucket).Msg("using DigitalOcean Spaces for azan files")
		files = spacesStorage
	} else {
		log.Info().Str("dir", dataDir).Msg("using local azan files")
		files = storage.NewLocalStorage(dataDir)
	}

	azan := storage.NewAzan(files, settings.AzanFile, settings.AzanURL, settings.UseDefaultAzan, downloadDir)
	return files, azan, nil
}
