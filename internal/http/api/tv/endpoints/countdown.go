package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/muezzin/internal/driver"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Countdown is the read side of the runner that screens need.
type Countdown interface {
	Snapshot(now time.Time) (driver.Snapshot, error)
	Schedule() (model.DaySchedule, bool)
	Location() model.Location
	Now() time.Time
}

var _ Countdown = (*driver.Runner)(nil)

// CountdownModule mounts /countdown and /schedule.
func CountdownModule(cd Countdown) api.Module {
	ctl := &CountdownController{countdown: cd}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/countdown", ctl.getCountdown)
		c.PUBLIC_GET("/schedule", ctl.getSchedule)
	})
}

type CountdownController struct {
	countdown Countdown
}

var errUnavailable = &api.APIError{Code: http.StatusServiceUnavailable, Message: "prayer times not loaded yet"}

func snapshotResponse(s driver.Snapshot) packets.CountdownResponse {
	return packets.CountdownResponse{
		Date:             s.Date,
		City:             s.City,
		Country:          s.Country,
		NextPrayer:       string(s.Next),
		At:               s.At,
		RemainingSeconds: s.RemainingSeconds,
		Remaining:        s.Remaining,
	}
}

// GET /api/tv/countdown
func (cc *CountdownController) getCountdown(ctx *gin.Context) (any, *api.APIError) {
	snap, err := cc.countdown.Snapshot(cc.countdown.Now())
	if err != nil {
		if errors.Is(err, driver.ErrNoSchedule) {
			return nil, errUnavailable
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute countdown"}
	}
	return snapshotResponse(snap), nil
}

// GET /api/tv/schedule
func (cc *CountdownController) getSchedule(ctx *gin.Context) (any, *api.APIError) {
	day, ok := cc.countdown.Schedule()
	if !ok {
		return nil, errUnavailable
	}
	loc := cc.countdown.Location()

	prayers := make([]packets.PrayerTime, 0, len(model.Labels))
	for _, l := range model.Labels {
		if t, ok := day.Times[l]; ok {
			prayers = append(prayers, packets.PrayerTime{Name: string(l), Time: t.String()})
		}
	}
	return packets.ScheduleResponse{
		Date:      day.Date,
		City:      loc.City,
		Country:   loc.Country,
		Latitude:  day.Latitude,
		Longitude: day.Longitude,
		Method:    day.Method,
		Prayers:   prayers,
	}, nil
}
