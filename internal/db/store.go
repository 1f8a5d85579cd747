// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

var ErrNotFound = errors.New("not found")

// ScheduleKey identifies a stored day schedule.
type ScheduleKey struct {
	Date      string
	Latitude  float64
	Longitude float64
	Method    int
}

func KeyOf(d model.DaySchedule) ScheduleKey {
	return ScheduleKey{Date: d.Date, Latitude: d.Latitude, Longitude: d.Longitude, Method: d.Method}
}

type Store interface {
	// schedule functions
	SaveSchedule(day model.DaySchedule) error
	GetSchedule(key ScheduleKey) (model.DaySchedule, error)

	// announcement functions
	RecordAnnouncement(a model.Announcement) error
	ListAnnouncements(limit int) ([]model.Announcement, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
