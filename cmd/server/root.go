package main

import (
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
	pretty   bool
	timesFor string
)

var rootCmd = &cobra.Command{
	Use:   "muezzin",
	Short: "Prayer time countdown and staged announcements",
	Long: `muezzin tracks the five daily prayers for a location, counts down to the
next one and announces it at configured lead times and when it arrives.

Without a subcommand it behaves like "muezzin run".`,
	SilenceUsage: true,
	RunE:         runServer,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the countdown, notifiers and HTTP API until interrupted",
	RunE:  runServer,
}

var timesCmd = &cobra.Command{
	Use:   "times",
	Short: "Print the prayer times for a day",
	RunE:  printTimes,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next prayer and the time remaining",
	RunE:  printNext,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human readable logs even when not on a terminal")

	timesCmd.Flags().StringVar(&timesFor, "date", "", "Day to print, YYYY-MM-DD (default today)")

	rootCmd.AddCommand(runCmd, timesCmd, nextCmd)
}
