package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/muezzin/internal/countdown"
	"github.com/Nixie-Tech-LLC/muezzin/internal/display"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// printTimes prints one day's table. It reads through the cache when Redis
// is configured but never touches the database.
func printTimes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := LoadEnvironment(ctx)
	if err != nil {
		return err
	}

	date := env.Now()
	if timesFor != "" {
		if date, err = time.ParseInLocation(model.DateLayout, timesFor, env.TZ); err != nil {
			return fmt.Errorf("invalid --date %q: %w", timesFor, err)
		}
	}

	day, err := initSource(env, nil, initCache(ctx, env)).Fetch(ctx, date)
	if err != nil {
		return err
	}
	display.Table(cmd.OutOrStdout(), date, env.Settings.Location, day.Times)
	return nil
}

func printNext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := LoadEnvironment(ctx)
	if err != nil {
		return err
	}

	now := env.Now().Truncate(time.Second)
	day, err := initSource(env, nil, initCache(ctx, env)).Fetch(ctx, now)
	if err != nil {
		return err
	}
	up, err := countdown.Next(now, day.Times)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Next Prayer: %s at %s | Time Remaining: %s\n",
		up.Label, up.At.Format("15:04"), display.Remaining(up.Remaining(now)))
	return nil
}
