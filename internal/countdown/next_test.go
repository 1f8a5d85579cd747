package countdown_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want countdown.Upcoming
	}{{
		name: "before fajr",
		now:  at(10, 3, 0, 0),
		want: countdown.Upcoming{Label: model.Fajr, At: at(10, 5, 0, 0)},
	}, {
		name: "exactly at fajr is not upcoming",
		now:  at(10, 5, 0, 0),
		want: countdown.Upcoming{Label: model.Dhuhr, At: at(10, 11, 54, 0)},
	}, {
		name: "between maghrib and isha",
		now:  at(10, 18, 30, 0),
		want: countdown.Upcoming{Label: model.Isha, At: at(10, 19, 40, 0)},
	}, {
		name: "after isha wraps to tomorrow",
		now:  at(10, 21, 0, 0),
		want: countdown.Upcoming{Label: model.Fajr, At: at(11, 5, 0, 0)},
	}, {
		name: "end of month wraps",
		now:  time.Date(2025, time.March, 31, 23, 0, 0, 0, zone),
		want: countdown.Upcoming{Label: model.Fajr, At: time.Date(2025, time.April, 1, 5, 0, 0, 0, zone)},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := countdown.Next(tt.now, refSchedule())
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("wrong next prayer\ngot:  %v\nwant: %v", got, tt.want)
			}
		})
	}
}

func TestNextIncomplete(t *testing.T) {
	_, err := countdown.Next(at(10, 3, 0, 0), model.Schedule{model.Fajr: {Hour: 5}})
	assert.ErrorIs(t, err, countdown.ErrScheduleIncomplete)
}

func TestMinutesRemaining(t *testing.T) {
	target := at(10, 11, 54, 0)
	assert.Equal(t, 135, countdown.MinutesRemaining(at(10, 9, 39, 0), target))
	assert.Equal(t, 120, countdown.MinutesRemaining(at(10, 9, 53, 1), target))
	assert.Equal(t, 0, countdown.MinutesRemaining(at(10, 11, 53, 30), target))
	assert.Equal(t, 0, countdown.MinutesRemaining(target, target))
	assert.Equal(t, -1, countdown.MinutesRemaining(at(10, 11, 54, 30), target))
}

func lateIshaSchedule() model.Schedule {
	return model.Schedule{
		model.Fajr:    {Hour: 3, Minute: 0},
		model.Dhuhr:   {Hour: 13, Minute: 10},
		model.Asr:     {Hour: 17, Minute: 30},
		model.Maghrib: {Hour: 22, Minute: 0},
		model.Isha:    {Hour: 0, Minute: 30},
	}
}

func TestNextWithIshaAfterMidnight(t *testing.T) {
	s := lateIshaSchedule()

	up, err := countdown.Next(at(10, 0, 10, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Upcoming{Label: model.Fajr, At: at(10, 3, 0, 0)}, up)

	up, err = countdown.Next(at(10, 21, 0, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Upcoming{Label: model.Maghrib, At: at(10, 22, 0, 0)}, up)

	up, err = countdown.Next(at(10, 22, 5, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Upcoming{Label: model.Fajr, At: at(11, 3, 0, 0)}, up)
}
