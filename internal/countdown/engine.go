// Package countdown decides, tick by tick, which prayer is next and whether a
// staged reminder or the prayer itself is due.
package countdown

import (
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

type Kind int

const (
	NoAction Kind = iota
	StageAnnouncement
	Arrival
	DayRolled
)

func (k Kind) String() string {
	switch k {
	case NoAction:
		return "none"
	case StageAnnouncement:
		return "stage"
	case Arrival:
		return "arrival"
	case DayRolled:
		return "day_rolled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is the outcome of one Evaluate call. Label and At are set for
// StageAnnouncement and Arrival, MinutesRemaining only for StageAnnouncement.
type Action struct {
	Kind             Kind
	Label            model.Label
	At               time.Time
	MinutesRemaining int
}

// Engine holds the per-cycle announcement state. It is not safe for
// concurrent use.
type Engine struct {
	intervals Intervals

	announced map[int]struct{}
	target    *Upcoming
	arrived   time.Time
	lastDay   string
}

func NewEngine(intervals Intervals) *Engine {
	return &Engine{
		intervals: intervals,
		announced: make(map[int]struct{}),
	}
}

func (e *Engine) Intervals() Intervals {
	return e.intervals
}

// Evaluate advances the state machine to now using today's schedule s.
//
// A DayRolled result means the caller must supply the new day's schedule on the
// next call. A schedule missing any prayer fails with ErrScheduleIncomplete and
// leaves the state untouched.
func (e *Engine) Evaluate(now time.Time, s model.Schedule) (Action, error) {
	if err := validate(s); err != nil {
		return Action{}, err
	}
	now = now.Truncate(time.Second)

	day := now.Format(model.DateLayout)
	if e.lastDay == "" {
		e.lastDay = day
	} else if day != e.lastDay {
		e.lastDay = day
		e.reset()
		e.arrived = time.Time{}
		return Action{Kind: DayRolled}, nil
	}

	up, err := e.resolve(now, s)
	if err != nil {
		return Action{}, err
	}

	if up.Remaining(now) <= 0 {
		if up.At.Equal(e.arrived) {
			return Action{Kind: NoAction}, nil
		}
		e.arrived = up.At
		e.reset()
		return Action{Kind: Arrival, Label: up.Label, At: up.At}, nil
	}

	minutes := MinutesRemaining(now, up.At)
	if !e.intervals.Due(minutes) {
		return Action{Kind: NoAction}, nil
	}
	if _, done := e.announced[minutes]; done {
		return Action{Kind: NoAction}, nil
	}
	e.announced[minutes] = struct{}{}
	return Action{Kind: StageAnnouncement, Label: up.Label, At: up.At, MinutesRemaining: minutes}, nil
}

// resolve keeps a reached target that has not arrived yet, otherwise looks up
// the next prayer. Switching targets starts a new cycle.
func (e *Engine) resolve(now time.Time, s model.Schedule) (Upcoming, error) {
	if t := e.target; t != nil && !t.At.After(now) && !t.At.Equal(e.arrived) {
		return *t, nil
	}
	up, err := Next(now, s)
	if err != nil {
		return Upcoming{}, err
	}
	if e.target == nil || e.target.Label != up.Label || !e.target.At.Equal(up.At) {
		clear(e.announced)
	}
	e.target = &up
	return up, nil
}

func (e *Engine) reset() {
	clear(e.announced)
	e.target = nil
}

// Announced reports whether minutes has been announced in the current cycle.
func (e *Engine) Announced(minutes int) bool {
	_, ok := e.announced[minutes]
	return ok
}
