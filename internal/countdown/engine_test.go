package countdown_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

var zone = time.FixedZone("AST", 3*60*60)

func refSchedule() model.Schedule {
	return model.Schedule{
		model.Fajr:    {Hour: 5, Minute: 0},
		model.Dhuhr:   {Hour: 11, Minute: 54},
		model.Asr:     {Hour: 15, Minute: 20},
		model.Maghrib: {Hour: 18, Minute: 10},
		model.Isha:    {Hour: 19, Minute: 40},
	}
}

func at(day, hour, min, sec int) time.Time {
	return time.Date(2025, time.March, day, hour, min, sec, 0, zone)
}

func newEngine(t *testing.T) *countdown.Engine {
	t.Helper()
	iv, err := countdown.NewIntervals(countdown.DefaultIntervals...)
	require.NoError(t, err)
	return countdown.NewEngine(iv)
}

func TestEvaluateDhuhrScenario(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	steps := []struct {
		name string
		now  time.Time
		want countdown.Action
	}{{
		name: "135 minutes is not a lead time",
		now:  at(10, 9, 39, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}, {
		name: "120 minutes is staged",
		now:  at(10, 9, 54, 0),
		want: countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Dhuhr, At: at(10, 11, 54, 0), MinutesRemaining: 120},
	}, {
		name: "per-minute zone",
		now:  at(10, 11, 41, 0),
		want: countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Dhuhr, At: at(10, 11, 54, 0), MinutesRemaining: 13},
	}, {
		name: "prayer time reached",
		now:  at(10, 11, 54, 0),
		want: countdown.Action{Kind: countdown.Arrival, Label: model.Dhuhr, At: at(10, 11, 54, 0)},
	}, {
		name: "next prayer tracked afresh",
		now:  at(10, 11, 55, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}, {
		name: "first lead time of the following prayer",
		now:  at(10, 12, 20, 0),
		want: countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Asr, At: at(10, 15, 20, 0), MinutesRemaining: 180},
	}}
	for _, step := range steps {
		got, err := e.Evaluate(step.now, s)
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, got, step.name)
	}
}

func TestEvaluateStageOncePerThreshold(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	got, err := e.Evaluate(at(10, 9, 53, 30), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.StageAnnouncement, got.Kind)
	assert.Equal(t, 120, got.MinutesRemaining)
	assert.True(t, e.Announced(120))

	for _, now := range []time.Time{at(10, 9, 53, 45), at(10, 9, 54, 0)} {
		got, err = e.Evaluate(now, s)
		require.NoError(t, err)
		assert.Equal(t, countdown.NoAction, got.Kind, "repeated 120 at %v", now)
	}
}

func TestEvaluateArrivalClearsCycle(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	for _, now := range []time.Time{at(10, 11, 34, 0), at(10, 11, 53, 0)} {
		got, err := e.Evaluate(now, s)
		require.NoError(t, err)
		require.Equal(t, countdown.StageAnnouncement, got.Kind)
	}
	assert.True(t, e.Announced(20))
	assert.True(t, e.Announced(1))

	got, err := e.Evaluate(at(10, 11, 54, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Arrival, got.Kind)
	assert.False(t, e.Announced(20))
	assert.False(t, e.Announced(1))

	// Asr's 20 minute reminder is independent of Dhuhr's.
	got, err = e.Evaluate(at(10, 15, 0, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Asr, At: at(10, 15, 20, 0), MinutesRemaining: 20}, got)
}

func TestEvaluateArrivalAfterPause(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	_, err := e.Evaluate(at(10, 11, 50, 0), s)
	require.NoError(t, err)

	got, err := e.Evaluate(at(10, 11, 56, 40), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Arrival, got.Kind)
	assert.Equal(t, model.Dhuhr, got.Label)

	got, err = e.Evaluate(at(10, 11, 57, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.NoAction, got.Kind)
}

func TestEvaluateDayRolled(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	got, err := e.Evaluate(at(10, 23, 59, 30), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.NoAction, got.Kind)

	got, err = e.Evaluate(at(11, 0, 0, 10), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Action{Kind: countdown.DayRolled}, got)

	got, err = e.Evaluate(at(11, 0, 0, 20), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.NoAction, got.Kind, "rollover fires once")

	got, err = e.Evaluate(at(11, 2, 0, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Fajr, At: at(11, 5, 0, 0), MinutesRemaining: 180}, got)
}

func TestEvaluateDayRolledSuppressesStage(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	_, err := e.Evaluate(at(10, 22, 0, 0), s)
	require.NoError(t, err)

	got, err := e.Evaluate(at(11, 2, 0, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.DayRolled, got.Kind)
	assert.False(t, e.Announced(180))

	got, err = e.Evaluate(at(11, 2, 0, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.StageAnnouncement, got.Kind)
	assert.Equal(t, 180, got.MinutesRemaining)
}

func TestEvaluateSkippedThresholdsAreNotBackfilled(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	for _, now := range []time.Time{at(10, 9, 0, 0), at(10, 10, 30, 0)} {
		got, err := e.Evaluate(now, s)
		require.NoError(t, err)
		assert.Equal(t, countdown.NoAction, got.Kind)
	}
	assert.False(t, e.Announced(120))
	assert.False(t, e.Announced(90))

	got, err := e.Evaluate(at(10, 10, 54, 0), s)
	require.NoError(t, err)
	assert.Equal(t, 60, got.MinutesRemaining)
}

func TestEvaluateClockMovesBackward(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	_, err := e.Evaluate(at(10, 11, 53, 0), s)
	require.NoError(t, err)
	got, err := e.Evaluate(at(10, 11, 54, 0), s)
	require.NoError(t, err)
	require.Equal(t, countdown.Arrival, got.Kind)

	got, err = e.Evaluate(at(10, 11, 50, 0), s)
	require.NoError(t, err)
	assert.Equal(t, countdown.StageAnnouncement, got.Kind)
	assert.Equal(t, 4, got.MinutesRemaining)

	got, err = e.Evaluate(at(10, 11, 54, 0), s)
	require.NoError(t, err)
	assert.NotEqual(t, countdown.Arrival, got.Kind, "arrival is never fired twice for one prayer")
	assert.GreaterOrEqual(t, got.MinutesRemaining, 0)
}

func TestEvaluateIncompleteSchedule(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()
	delete(s, model.Asr)

	_, err := e.Evaluate(at(10, 9, 54, 0), s)
	require.ErrorIs(t, err, countdown.ErrScheduleIncomplete)
	assert.Contains(t, err.Error(), "Asr")

	got, err := e.Evaluate(at(10, 9, 54, 0), refSchedule())
	require.NoError(t, err)
	assert.Equal(t, countdown.StageAnnouncement, got.Kind)
}

func TestEvaluateSubSecondTick(t *testing.T) {
	e := newEngine(t)
	s := refSchedule()

	got, err := e.Evaluate(at(10, 9, 54, 0).Add(30*time.Millisecond), s)
	require.NoError(t, err)
	assert.Equal(t, 120, got.MinutesRemaining)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "stage", countdown.StageAnnouncement.String())
	assert.Equal(t, "day_rolled", countdown.DayRolled.String())
}

func TestEvaluateSkipsIshaAfterMidnight(t *testing.T) {
	e := newEngine(t)
	s := lateIshaSchedule()

	steps := []struct {
		name string
		now  time.Time
		want countdown.Action
	}{{
		name: "170 minutes to fajr",
		now:  at(10, 0, 10, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}, {
		name: "151 minutes to fajr",
		now:  at(10, 0, 29, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}, {
		name: "isha instant does not arrive",
		now:  at(10, 0, 30, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}, {
		name: "149 minutes to fajr",
		now:  at(10, 0, 31, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}, {
		name: "fajr staged at 120",
		now:  at(10, 1, 0, 0),
		want: countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Fajr, At: at(10, 3, 0, 0), MinutesRemaining: 120},
	}, {
		name: "fajr arrives",
		now:  at(10, 3, 0, 0),
		want: countdown.Action{Kind: countdown.Arrival, Label: model.Fajr, At: at(10, 3, 0, 0)},
	}, {
		name: "last minute before maghrib",
		now:  at(10, 21, 59, 0),
		want: countdown.Action{Kind: countdown.StageAnnouncement, Label: model.Maghrib, At: at(10, 22, 0, 0), MinutesRemaining: 1},
	}, {
		name: "maghrib arrives",
		now:  at(10, 22, 0, 0),
		want: countdown.Action{Kind: countdown.Arrival, Label: model.Maghrib, At: at(10, 22, 0, 0)},
	}, {
		name: "counting to tomorrow's fajr",
		now:  at(10, 23, 0, 0),
		want: countdown.Action{Kind: countdown.NoAction},
	}}

	for _, step := range steps {
		got, err := e.Evaluate(step.now, s)
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, got, step.name)
	}
	assert.False(t, e.Announced(240))
}
