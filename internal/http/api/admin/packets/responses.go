package packets

import "time"

type TokenResponse struct {
	Token string `json:"token"`
}

type AnnouncementResponse struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	Prayer           string `json:"prayer"`
	MinutesRemaining int    `json:"minutes_remaining,omitempty"`
	Message          string `json:"message"`
	PrayerAt         string `json:"prayer_at"`
	CreatedAt        string `json:"created_at"`
}

type ScheduleResponse struct {
	Date      string            `json:"date"`
	Times     map[string]string `json:"times"`
	FetchedAt time.Time         `json:"fetched_at"`
}

type AzanResponse struct {
	Name string `json:"name"`
}
