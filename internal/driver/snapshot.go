package driver

import (
	"time"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
	"github.com/Nixie-Tech-LLC/muezzin/internal/display"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Snapshot is the countdown as shown to screens.
type Snapshot struct {
	Date             string         `json:"date"`
	City             string         `json:"city"`
	Country          string         `json:"country"`
	Next             model.Label    `json:"next_prayer"`
	At               time.Time      `json:"at"`
	RemainingSeconds int64          `json:"remaining_seconds"`
	Remaining        string         `json:"remaining"`
	Times            model.Schedule `json:"times"`
}

func (s Snapshot) RemainingDuration() time.Duration {
	return time.Duration(s.RemainingSeconds) * time.Second
}

// Snapshot reports the next prayer at now without touching engine state.
func (r *Runner) Snapshot(now time.Time) (Snapshot, error) {
	day, ok := r.Schedule()
	if !ok {
		return Snapshot{}, ErrNoSchedule
	}
	now = now.In(r.tz).Truncate(time.Second)
	up, err := countdown.Next(now, day.Times)
	if err != nil {
		return Snapshot{}, err
	}
	remaining := up.Remaining(now)
	return Snapshot{
		Date:             day.Date,
		City:             r.location.City,
		Country:          r.location.Country,
		Next:             up.Label,
		At:               up.At,
		RemainingSeconds: int64(remaining / time.Second),
		Remaining:        display.Remaining(remaining),
		Times:            day.Times,
	}, nil
}
