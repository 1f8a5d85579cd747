package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/db"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

func AnnouncementModule(store db.Store) api.Module {
	ctl := &AnnouncementController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/announcements", ctl.listAnnouncements)
	})
}

type AnnouncementController struct {
	store db.Store
}

// GET /api/admin/announcements?limit=
func (a *AnnouncementController) listAnnouncements(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	limit := defaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "limit must be a positive integer"}
		}
		limit = min(n, maxLimit)
	}

	list, err := a.store.ListAnnouncements(limit)
	if err != nil {
		log.Error().Err(err).Str("admin", admin.Email).Msg("failed to list announcements")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list announcements"}
	}

	response := make([]packets.AnnouncementResponse, 0, len(list))
	for _, it := range list {
		response = append(response, packets.AnnouncementResponse{
			ID:               it.ID,
			Kind:             string(it.Kind),
			Prayer:           string(it.Prayer),
			MinutesRemaining: it.MinutesRemaining,
			Message:          it.Message,
			PrayerAt:         it.PrayerAt.Format(time.RFC3339),
			CreatedAt:        it.CreatedAt.Format(time.RFC3339),
		})
	}
	return response, nil
}
