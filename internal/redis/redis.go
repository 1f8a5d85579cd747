package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// ScheduleTTL keeps a day's schedule a little past the day itself.
const ScheduleTTL = 36 * time.Hour

func NewClient(address, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
}

// ScheduleCache stores fetched day schedules as JSON.
type ScheduleCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewScheduleCache(rdb redis.Cmdable) *ScheduleCache {
	return &ScheduleCache{rdb: rdb, ttl: ScheduleTTL}
}

// ScheduleKey is the cache key for a day at a place and calculation method.
func ScheduleKey(date string, latitude, longitude float64, method int) string {
	return fmt.Sprintf("athan:schedule:%s:%s:%s:%d", date,
		strconv.FormatFloat(latitude, 'f', 4, 64),
		strconv.FormatFloat(longitude, 'f', 4, 64),
		method)
}

// Get returns ok=false on a cache miss.
func (c *ScheduleCache) Get(ctx context.Context, key string) (model.DaySchedule, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.DaySchedule{}, false, nil
	}
	if err != nil {
		return model.DaySchedule{}, false, err
	}
	var day model.DaySchedule
	if err := json.Unmarshal(raw, &day); err != nil {
		return model.DaySchedule{}, false, fmt.Errorf("decode cached schedule %s: %w", key, err)
	}
	return day, true, nil
}

func (c *ScheduleCache) Set(ctx context.Context, key string, day model.DaySchedule) error {
	raw, err := json.Marshal(day)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add schedule to redis")
		return err
	}
	return nil
}
