package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
	"github.com/Nixie-Tech-LLC/muezzin/internal/display"
	"github.com/Nixie-Tech-LLC/muezzin/internal/driver"
	"github.com/Nixie-Tech-LLC/muezzin/internal/notify"
)

const shutdownTimeout = 10 * time.Second

func runServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := LoadEnvironment(ctx)
	if err != nil {
		return err
	}
	cfg := env.Config

	store, err := initStore(env)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	source := initSource(env, store, initCache(ctx, env))

	files, azan, err := InitStorage(env)
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}

	notifier, closeNotifiers := initNotifiers(env, azan)
	defer closeNotifiers()
	async := notify.NewAsync(ctx, notifier)

	runner := driver.New(driver.Options{
		Engine:   countdown.NewEngine(cfg.Intervals),
		Source:   source,
		Notifier: async,
		Store:    store,
		Location: env.Settings.Location,
		TZ:       env.TZ,
		Spec:     cfg.EvaluateSchedule,
		Out:      os.Stdout,
		Live:     display.NewLive(os.Stdout),
	})

	tmpl, err := LoadTemplates(templatesGlob)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, env, runner, store, files, azan, tmpl)
	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}

	serveDone := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
			return
		}
		serveDone <- nil
	}()
	runDone := make(chan error, 1)
	go func() { runDone <- runner.Run(ctx) }()

	var serveErr, runErr error
	select {
	case <-ctx.Done():
	case serveErr = <-serveDone:
		serveDone = nil
	case runErr = <-runDone:
		runDone = nil
	}
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if serveDone != nil {
		serveErr = <-serveDone
	}
	if runDone != nil {
		runErr = <-runDone
	}
	async.Wait()

	return errors.Join(serveErr, runErr)
}
