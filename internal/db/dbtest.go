package db

import (
	"errors"
	"fmt"
	"os"
)

// InitTestDB connects to TEST_DATABASE_URL, migrates it and empties the
// schedule and announcement tables. The returned Store shares the package DB.
func InitTestDB(migrationsPath string) (Store, error) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("TEST_DATABASE_URL is not set")
	}
	if err := Init(dbURL); err != nil {
		return nil, err
	}
	if err := RunMigrations(migrationsPath); err != nil {
		return nil, err
	}
	if _, err := DB.Exec(`TRUNCATE prayer_schedules, announcements;`); err != nil {
		return nil, fmt.Errorf("reset test tables: %w", err)
	}
	return NewStore(DB), nil
}
