package main

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/db"
	"github.com/Nixie-Tech-LLC/muezzin/internal/driver"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/muezzin/internal/http/api/admin/endpoints"
	clientapi "github.com/Nixie-Tech-LLC/muezzin/internal/http/api/tv/endpoints"
	"github.com/Nixie-Tech-LLC/muezzin/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env *Environment, runner *driver.Runner, store db.Store, files storage.Storage, azan *storage.Azan, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		_, loaded := runner.Schedule()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "schedule_loaded": loaded})
	})

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.CountdownModule(runner),
		clientapi.IntegrationsModule(runner),
		clientapi.StreamModule(runner),
	)

	cfg := env.Config
	if !cfg.AdminEnabled() {
		log.Info().Msg("JWT_SECRET, ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, admin API disabled")
		return
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		adminapi.AnnouncementModule(store),
		adminapi.ScheduleModule(runner),
		adminapi.AzanModule(files, azan, env.SaveAzan),
	)
}
