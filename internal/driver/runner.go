// Package driver runs the countdown engine against the wall clock.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
	"github.com/Nixie-Tech-LLC/muezzin/internal/db"
	"github.com/Nixie-Tech-LLC/muezzin/internal/display"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
	"github.com/Nixie-Tech-LLC/muezzin/internal/notify"
	"github.com/Nixie-Tech-LLC/muezzin/internal/schedule"
)

var ErrNoSchedule = errors.New("no schedule loaded")

// Options configures a Runner. Store, Out and Live are optional.
type Options struct {
	Engine   *countdown.Engine
	Source   schedule.Source
	Notifier notify.Notifier
	Store    db.Store

	Location model.Location
	TZ       *time.Location

	// Spec is the cron spec, with seconds, that drives evaluation.
	Spec string
	Now  func() time.Time

	Out  io.Writer
	Live *display.Live
}

type Runner struct {
	engine   *countdown.Engine
	source   schedule.Source
	notifier notify.Notifier
	store    db.Store
	location model.Location
	tz       *time.Location
	spec     string
	now      func() time.Time
	out      io.Writer
	live     *display.Live

	// tickMu serialises Evaluate; mu guards day.
	tickMu sync.Mutex
	mu     sync.RWMutex
	day    *model.DaySchedule
}

func New(opts Options) *Runner {
	r := &Runner{
		engine:   opts.Engine,
		source:   opts.Source,
		notifier: opts.Notifier,
		store:    opts.Store,
		location: opts.Location,
		tz:       opts.TZ,
		spec:     opts.Spec,
		now:      opts.Now,
		out:      opts.Out,
		live:     opts.Live,
	}
	if r.notifier == nil {
		r.notifier = notify.Nop{}
	}
	if r.tz == nil {
		r.tz = time.Local
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.out == nil {
		r.out = io.Discard
	}
	return r
}

// Run evaluates once, then on every cron tick, and redraws the live line
// every second until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(r.tz),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(r.spec, func() { r.evaluate(ctx) }); err != nil {
		return fmt.Errorf("invalid evaluate schedule %q: %w", r.spec, err)
	}

	r.evaluate(ctx)
	c.Start()
	log.Info().Str("schedule", r.spec).Str("intervals", r.engine.Intervals().String()).Msg("countdown started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			<-c.Stop().Done()
			log.Info().Msg("countdown stopped")
			return nil
		case <-ticker.C:
			r.render(r.now())
		}
	}
}

func (r *Runner) evaluate(ctx context.Context) {
	if _, err := r.Tick(ctx, r.now()); err != nil {
		log.Error().Err(err).Msg("evaluation failed")
	}
}

// Tick runs one evaluation at now and dispatches its action.
func (r *Runner) Tick(ctx context.Context, now time.Time) (countdown.Action, error) {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	now = now.In(r.tz)
	day, err := r.current(ctx, now)
	if err != nil {
		return countdown.Action{}, err
	}

	action, err := r.engine.Evaluate(now, day.Times)
	if err != nil {
		if errors.Is(err, countdown.ErrScheduleIncomplete) {
			r.setDay(nil)
		}
		return countdown.Action{}, err
	}

	switch action.Kind {
	case countdown.DayRolled:
		log.Info().Str("date", now.Format(model.DateLayout)).Msg("new day, reloading schedule")
		r.setDay(nil)
		if _, err := r.current(ctx, now); err != nil {
			return action, err
		}
	case countdown.StageAnnouncement:
		log.Info().Str("prayer", string(action.Label)).Int("minutes", action.MinutesRemaining).Msg("stage announcement")
		if err := r.notifier.Stage(ctx, action.Label, action.MinutesRemaining); err != nil {
			log.Error().Err(err).Msg("stage notification failed")
		}
		r.record(model.AnnouncementStage, action, display.Message(action.Label, action.MinutesRemaining), now)
	case countdown.Arrival:
		log.Info().Str("prayer", string(action.Label)).Msg("prayer time arrived")
		if err := r.notifier.Arrival(ctx, action.Label); err != nil {
			log.Error().Err(err).Msg("arrival notification failed")
		}
		r.record(model.AnnouncementArrival, action, display.ArrivalMessage(action.Label), now)
		r.printTable(now, day)
	}
	return action, nil
}

// current returns the loaded schedule, fetching it for now's date when none is
// loaded. A failed fetch leaves it unset for the next tick.
func (r *Runner) current(ctx context.Context, now time.Time) (model.DaySchedule, error) {
	if day, ok := r.Schedule(); ok {
		return day, nil
	}
	return r.load(ctx, now)
}

func (r *Runner) load(ctx context.Context, now time.Time) (model.DaySchedule, error) {
	day, err := r.source.Fetch(ctx, now)
	if err != nil {
		return model.DaySchedule{}, fmt.Errorf("load schedule: %w", err)
	}
	if missing := day.Times.Missing(); len(missing) > 0 {
		return model.DaySchedule{}, fmt.Errorf("%w: %v", countdown.ErrScheduleIncomplete, missing)
	}
	r.setDay(&day)
	log.Info().Str("date", day.Date).Msg("schedule loaded")
	r.printTable(now, day)
	return day, nil
}

// Refresh re-fetches today's schedule and replaces the loaded one.
func (r *Runner) Refresh(ctx context.Context) (model.DaySchedule, error) {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()
	return r.load(ctx, r.now().In(r.tz))
}

func (r *Runner) setDay(day *model.DaySchedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.day = day
}

// Schedule returns the loaded day schedule.
func (r *Runner) Schedule() (model.DaySchedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.day == nil {
		return model.DaySchedule{}, false
	}
	return *r.day, true
}

func (r *Runner) Location() model.Location {
	return r.location
}

func (r *Runner) Now() time.Time {
	return r.now().In(r.tz)
}

func (r *Runner) record(kind model.AnnouncementKind, action countdown.Action, msg string, now time.Time) {
	if r.store == nil {
		return
	}
	err := r.store.RecordAnnouncement(model.Announcement{
		ID:               uuid.NewString(),
		Kind:             kind,
		Prayer:           action.Label,
		MinutesRemaining: action.MinutesRemaining,
		Message:          msg,
		PrayerAt:         action.At,
		CreatedAt:        now,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to record announcement")
	}
}

func (r *Runner) printTable(now time.Time, day model.DaySchedule) {
	date := now
	if d, err := time.ParseInLocation(model.DateLayout, day.Date, r.tz); err == nil {
		date = d
	}
	display.Table(r.out, date, r.location, day.Times)
}

func (r *Runner) render(now time.Time) {
	if r.live == nil {
		return
	}
	snap, err := r.Snapshot(now)
	if err != nil {
		return
	}
	r.live.Render(snap.Next, snap.At, snap.RemainingDuration())
}
