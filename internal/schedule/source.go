// Package schedule supplies the day's prayer times, layering a cache and the
// database in front of the upstream API.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/db"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
	"github.com/Nixie-Tech-LLC/muezzin/internal/redis"
)

// Source returns the prayer times for date's calendar day.
type Source interface {
	Fetch(ctx context.Context, date time.Time) (model.DaySchedule, error)
}

// Cache is the subset of redis.ScheduleCache used here.
type Cache interface {
	Get(ctx context.Context, key string) (model.DaySchedule, bool, error)
	Set(ctx context.Context, key string, day model.DaySchedule) error
}

var _ Cache = (*redis.ScheduleCache)(nil)

// Layered looks a day up in the cache, then the store, then upstream, filling
// the faster layers on the way back. Cache and store errors are logged and
// skipped so that upstream is still tried.
type Layered struct {
	upstream Source
	store    db.Store
	cache    Cache

	location model.Location
	method   int
}

// NewLayered builds a Layered source. store and cache may be nil.
func NewLayered(upstream Source, store db.Store, cache Cache, loc model.Location, method int) *Layered {
	return &Layered{
		upstream: upstream,
		store:    store,
		cache:    cache,
		location: loc,
		method:   method,
	}
}

func (l *Layered) Fetch(ctx context.Context, date time.Time) (model.DaySchedule, error) {
	key := db.ScheduleKey{
		Date:      date.Format(model.DateLayout),
		Latitude:  l.location.Latitude,
		Longitude: l.location.Longitude,
		Method:    l.method,
	}
	cacheKey := redis.ScheduleKey(key.Date, key.Latitude, key.Longitude, key.Method)

	if l.cache != nil {
		day, ok, err := l.cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", cacheKey).Msg("schedule cache read failed")
		case ok && len(day.Times.Missing()) == 0:
			log.Debug().Str("date", key.Date).Msg("schedule from cache")
			return day, nil
		}
	}

	if l.store != nil {
		day, err := l.store.GetSchedule(key)
		switch {
		case err == nil:
			log.Debug().Str("date", key.Date).Msg("schedule from store")
			l.fillCache(ctx, cacheKey, day)
			return day, nil
		case !errors.Is(err, db.ErrNotFound):
			log.Warn().Err(err).Str("date", key.Date).Msg("schedule store read failed")
		}
	}

	day, err := l.upstream.Fetch(ctx, date)
	if err != nil {
		return model.DaySchedule{}, fmt.Errorf("fetch schedule for %s: %w", key.Date, err)
	}
	if l.store != nil {
		if err := l.store.SaveSchedule(day); err != nil {
			log.Warn().Err(err).Str("date", key.Date).Msg("schedule store write failed")
		}
	}
	l.fillCache(ctx, cacheKey, day)
	return day, nil
}

func (l *Layered) fillCache(ctx context.Context, key string, day model.DaySchedule) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, key, day); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("schedule cache write failed")
	}
}
