package model

import "time"

type AnnouncementKind string

const (
	AnnouncementStage   AnnouncementKind = "stage"
	AnnouncementArrival AnnouncementKind = "arrival"
)

// Announcement is one notification the service emitted.
type Announcement struct {
	ID               string           `db:"id"                json:"id"`
	Kind             AnnouncementKind `db:"kind"              json:"kind"`
	Prayer           Label            `db:"prayer"            json:"prayer"`
	MinutesRemaining int              `db:"minutes_remaining" json:"minutes_remaining"`
	Message          string           `db:"message"           json:"message"`
	PrayerAt         time.Time        `db:"prayer_at"         json:"prayer_at"`
	CreatedAt        time.Time        `db:"created_at"        json:"created_at"`
}
