package countdown

import (
	"time"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Upcoming is a prayer placed on a concrete day.
type Upcoming struct {
	Label model.Label
	At    time.Time
}

func (u Upcoming) Remaining(now time.Time) time.Duration {
	return u.At.Sub(now)
}

// Next returns the first prayer in daily order whose instant today is strictly
// after now. Once all of today's prayers have passed it wraps to tomorrow's Fajr.
func Next(now time.Time, s model.Schedule) (Upcoming, error) {
	if err := validate(s); err != nil {
		return Upcoming{}, err
	}
	for _, l := range model.Labels {
		at := s[l].On(now)
		if at.After(now) {
			return Upcoming{Label: l, At: at}, nil
		}
	}
	first := model.Labels[0]
	return Upcoming{Label: first, At: s[first].On(now.AddDate(0, 0, 1))}, nil
}

// MinutesRemaining floors the time left until at to whole minutes.
func MinutesRemaining(now, at time.Time) int {
	d := at.Sub(now)
	m := int(d / time.Minute)
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}
