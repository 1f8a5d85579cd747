package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// IntegrationsModule mounts the HTML pages screens embed.
func IntegrationsModule(cd Countdown) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/integrations/:name", func(ctx *gin.Context) {
			serveIntegration(ctx, cd)
		})
	})
}

func serveIntegration(ctx *gin.Context, cd Countdown) {
	switch ctx.Param("name") {
	case "athan":
		serveAthan(ctx, cd)
	default:
		ctx.String(http.StatusNotFound, "integration not found")
	}
}

func serveAthan(ctx *gin.Context, cd Countdown) {
	day, ok := cd.Schedule()
	if !ok {
		ctx.String(http.StatusServiceUnavailable, "prayer times not loaded yet")
		return
	}

	date := cd.Now()
	if d, err := time.ParseInLocation(model.DateLayout, day.Date, date.Location()); err == nil {
		date = d
	}
	ctx.HTML(http.StatusOK, "athan.html", model.PageData(cd.Location().City, date, day.Times))
}
