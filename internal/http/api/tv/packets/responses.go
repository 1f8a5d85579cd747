package packets

import "time"

// returned by GET /api/tv/countdown
type CountdownResponse struct {
	Date             string    `json:"date"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	NextPrayer       string    `json:"next_prayer"`
	At               time.Time `json:"at"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Remaining        string    `json:"remaining"`
}

type PrayerTime struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// returned by GET /api/tv/schedule
type ScheduleResponse struct {
	Date      string       `json:"date"`
	City      string       `json:"city"`
	Country   string       `json:"country"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Method    int          `json:"method"`
	Prayers   []PrayerTime `json:"prayers"`
}
