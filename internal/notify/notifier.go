// Package notify surfaces staged reminders and prayer arrivals.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Notifier receives the engine's announcements.
type Notifier interface {
	Stage(ctx context.Context, label model.Label, minutes int) error
	Arrival(ctx context.Context, label model.Label) error
}

// Nop is a no-op notifier useful in tests.
type Nop struct{}

func (Nop) Stage(context.Context, model.Label, int) error { return nil }
func (Nop) Arrival(context.Context, model.Label) error    { return nil }

// Multi fans every call out to all notifiers, in order, and joins their errors.
type Multi []Notifier

func (m Multi) Stage(ctx context.Context, label model.Label, minutes int) error {
	var errs []error
	for _, n := range m {
		if err := n.Stage(ctx, label, minutes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Arrival(ctx context.Context, label model.Label) error {
	var errs []error
	for _, n := range m {
		if err := n.Arrival(ctx, label); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async runs every call on its own goroutine so callers never wait on
// delivery. Errors are logged. Wait blocks until in-flight calls finish.
type Async struct {
	next Notifier
	ctx  context.Context
	wg   sync.WaitGroup
}

// NewAsync detaches deliveries from the caller's context: they keep
// ctx's values but are not cancelled with it.
func NewAsync(ctx context.Context, next Notifier) *Async {
	return &Async{next: next, ctx: context.WithoutCancel(ctx)}
}

func (a *Async) Stage(_ context.Context, label model.Label, minutes int) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.next.Stage(a.ctx, label, minutes); err != nil {
			log.Error().Err(err).Str("prayer", string(label)).Int("minutes", minutes).Msg("stage notification failed")
		}
	}()
	return nil
}

func (a *Async) Arrival(_ context.Context, label model.Label) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.next.Arrival(a.ctx, label); err != nil {
			log.Error().Err(err).Str("prayer", string(label)).Msg("arrival notification failed")
		}
	}()
	return nil
}

func (a *Async) Wait() {
	a.wg.Wait()
}

// ArrivalOnly forwards arrivals and drops staged reminders.
type ArrivalOnly struct {
	Notifier
}

func (ArrivalOnly) Stage(context.Context, model.Label, int) error { return nil }
