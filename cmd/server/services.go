package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/aladhan"
	"github.com/Nixie-Tech-LLC/muezzin/internal/audio"
	"github.com/Nixie-Tech-LLC/muezzin/internal/db"
	"github.com/Nixie-Tech-LLC/muezzin/internal/notify"
	"github.com/Nixie-Tech-LLC/muezzin/internal/redis"
	"github.com/Nixie-Tech-LLC/muezzin/internal/schedule"
)

// initStore connects to PostgreSQL when DATABASE_URL is set and falls back to
// process memory otherwise.
func initStore(env *Environment) (db.Store, error) {
	cfg := env.Config
	if cfg.DatabaseURL == "" {
		log.Info().Msg("DATABASE_URL not set, keeping schedules and announcements in memory")
		return db.NewMemoryStore(), nil
	}

	if err := db.Init(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		return nil, err
	}
	return db.NewStore(db.DB), nil
}

// initCache returns nil when Redis is not configured or not reachable.
func initCache(ctx context.Context, env *Environment) schedule.Cache {
	cfg := env.Config
	if cfg.RedisAddress == "" {
		return nil
	}
	rdb := redis.NewClient(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis unreachable, schedule cache disabled")
		_ = rdb.Close()
		return nil
	}
	log.Info().Str("address", cfg.RedisAddress).Msg("schedule cache enabled")
	return redis.NewScheduleCache(rdb)
}

func initSource(env *Environment, store db.Store, cache schedule.Cache) *schedule.Layered {
	s := env.Settings
	upstream := aladhan.NewClient(env.Config.AladhanURL, s.Location, s.Method)
	return schedule.NewLayered(upstream, store, cache, s.Location, s.Method)
}

// initNotifiers builds the console notifier plus MQTT and azan playback when
// they are configured. The returned func releases their connections.
func initNotifiers(env *Environment, azan notify.AssetSource) (notify.Notifier, func()) {
	cfg, settings := env.Config, env.Settings
	notifiers := notify.Multi{notify.NewConsole(os.Stdout)}
	cleanup := func() {}

	if cfg.MQTTBrokerURL != "" {
		client, err := notify.ConnectMQTT(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT disabled")
		} else {
			var n notify.Notifier = notify.NewMQTT(client, cfg.MQTTTopic)
			if !settings.AnnouncementVoice {
				n = notify.ArrivalOnly{Notifier: n}
			}
			notifiers = append(notifiers, n)
			cleanup = func() { client.Disconnect(250) }
			log.Info().Str("broker", cfg.MQTTBrokerURL).Str("topic", cfg.MQTTTopic).Msg("publishing announcements over MQTT")
		}
	}

	player, err := audio.NewPlayer(cfg.AudioPlayer)
	if err != nil {
		log.Warn().Err(err).Msg("azan playback disabled")
	} else {
		log.Info().Str("player", player.String()).Msg("azan playback enabled")
		notifiers = append(notifiers, notify.NewAudio(azan, player))
	}

	return notifiers, cleanup
}
