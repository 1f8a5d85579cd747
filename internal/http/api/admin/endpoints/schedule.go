package endpoints

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Refresher reloads today's prayer times.
type Refresher interface {
	Refresh(ctx context.Context) (model.DaySchedule, error)
}

func ScheduleModule(r Refresher) api.Module {
	ctl := &ScheduleController{refresher: r}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/schedule/refresh", ctl.refreshSchedule)
	})
}

type ScheduleController struct {
	refresher Refresher
}

// POST /api/admin/schedule/refresh
func (s *ScheduleController) refreshSchedule(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	day, err := s.refresher.Refresh(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("admin", admin.Email).Msg("schedule refresh failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "could not refresh prayer times"}
	}
	log.Info().Str("admin", admin.Email).Str("date", day.Date).Msg("schedule refreshed")

	times := make(map[string]string, len(day.Times))
	for l, t := range day.Times {
		times[string(l)] = t.String()
	}
	return packets.ScheduleResponse{Date: day.Date, Times: times, FetchedAt: day.FetchedAt}, nil
}
