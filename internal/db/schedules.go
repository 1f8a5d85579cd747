package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

type scheduleRow struct {
	Day       string    `db:"day"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	Method    int       `db:"method"`
	Fajr      string    `db:"fajr"`
	Dhuhr     string    `db:"dhuhr"`
	Asr       string    `db:"asr"`
	Maghrib   string    `db:"maghrib"`
	Isha      string    `db:"isha"`
	FetchedAt time.Time `db:"fetched_at"`
}

func (r scheduleRow) toModel() (model.DaySchedule, error) {
	raw := map[model.Label]string{
		model.Fajr:    r.Fajr,
		model.Dhuhr:   r.Dhuhr,
		model.Asr:     r.Asr,
		model.Maghrib: r.Maghrib,
		model.Isha:    r.Isha,
	}
	times := make(model.Schedule, len(raw))
	for l, s := range raw {
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			return model.DaySchedule{}, fmt.Errorf("stored %s time: %w", l, err)
		}
		times[l] = t
	}
	return model.DaySchedule{
		Date:      r.Day,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Method:    r.Method,
		Times:     times,
		FetchedAt: r.FetchedAt,
	}, nil
}

func (s *pgStore) SaveSchedule(day model.DaySchedule) error {
	if missing := day.Times.Missing(); len(missing) > 0 {
		return fmt.Errorf("schedule for %s is missing %v", day.Date, missing)
	}
	const q = `
	INSERT INTO prayer_schedules
	  (day, latitude, longitude, method, fajr, dhuhr, asr, maghrib, isha, fetched_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (day, latitude, longitude, method) DO UPDATE
	   SET fajr = EXCLUDED.fajr,
	       dhuhr = EXCLUDED.dhuhr,
	       asr = EXCLUDED.asr,
	       maghrib = EXCLUDED.maghrib,
	       isha = EXCLUDED.isha,
	       fetched_at = EXCLUDED.fetched_at;`
	t := day.Times
	_, err := s.db.Exec(q, day.Date, day.Latitude, day.Longitude, day.Method,
		t[model.Fajr].String(), t[model.Dhuhr].String(), t[model.Asr].String(),
		t[model.Maghrib].String(), t[model.Isha].String(), day.FetchedAt)
	if err != nil {
		log.Error().Err(err).Str("day", day.Date).Msg("SaveSchedule failed")
	}
	return err
}

func (s *pgStore) GetSchedule(key ScheduleKey) (model.DaySchedule, error) {
	var row scheduleRow
	const q = `
	SELECT day, latitude, longitude, method, fajr, dhuhr, asr, maghrib, isha, fetched_at
	  FROM prayer_schedules
	 WHERE day = $1 AND latitude = $2 AND longitude = $3 AND method = $4;`
	err := s.db.Get(&row, q, key.Date, key.Latitude, key.Longitude, key.Method)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DaySchedule{}, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("day", key.Date).Msg("GetSchedule failed")
		return model.DaySchedule{}, err
	}
	return row.toModel()
}
