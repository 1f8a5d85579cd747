package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Label names one of the five daily prayers.
type Label string

const (
	Fajr    Label = "Fajr"
	Dhuhr   Label = "Dhuhr"
	Asr     Label = "Asr"
	Maghrib Label = "Maghrib"
	Isha    Label = "Isha"
)

// Labels is the fixed daily order. The prayer after Isha is the next day's Fajr.
var Labels = []Label{Fajr, Dhuhr, Asr, Maghrib, Isha}

// DateLayout is used for every calendar date kept as a string.
const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay accepts "HH:MM" with an optional trailing zone note such as
// "05:12 (+03)", which is how aladhan reports some timings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On places t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}

// Clock12 converts to a 12-hour clock string and its period, e.g. ("05:30", "PM").
func (t TimeOfDay) Clock12() (string, string) {
	h := t.Hour
	period := "AM"
	if h >= 12 {
		period = "PM"
		if h > 12 {
			h -= 12
		}
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d", h, t.Minute), period
}

// Schedule maps each prayer to its time on a single calendar day.
type Schedule map[Label]TimeOfDay

// Missing lists the labels absent from s, in daily order.
func (s Schedule) Missing() []Label {
	var out []Label
	for _, l := range Labels {
		if _, ok := s[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// DaySchedule is a Schedule together with the day and place it was computed for.
type DaySchedule struct {
	Date      string    `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Method    int       `json:"method"`
	Times     Schedule  `json:"times"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Prayer struct {
	Name   string // "FAJR", "DHUHR", …
	Time   string // "05:12"
	Period string // "AM" or "PM"
	Iqama  string
}

type AthanPageData struct {
	City    string
	Date    string // "AUGUST 5, 2025"
	Prayers []Prayer
}

// PageData builds the athan page rows in daily order.
func PageData(city string, date time.Time, s Schedule) AthanPageData {
	prayers := make([]Prayer, 0, len(Labels))
	for _, l := range Labels {
		t, ok := s[l]
		if !ok {
			continue
		}
		clock, period := t.Clock12()
		prayers = append(prayers, Prayer{
			Name:   strings.ToUpper(string(l)),
			Time:   clock,
			Period: period,
			Iqama:  "00:00",
		})
	}
	return AthanPageData{
		City:    strings.ToUpper(city),
		Date:    strings.ToUpper(date.Format("January 2, 2006")),
		Prayers: prayers,
	}
}
