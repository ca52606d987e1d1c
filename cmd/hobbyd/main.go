package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hobbyd/internal"
	"hobbyd/internal/di"
	"hobbyd/internal/statistic"
	"hobbyd/internal/structures"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:           "hobbyd",
		Short:         "Hobby practice tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnv()
		},
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", defaultConfigPath, "path to the YAML config")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "debug mode")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newSummaryCmd(flags))
	root.AddCommand(newHobbiesCmd(flags))
	root.AddCommand(newRecentCmd(flags))
	return root
}

// loadEnv reads .env from the working directory; a missing file is fine.
func loadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func newServeCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := di.InitApp(flags)
			return err
		},
	}
}

func openTracker(flags *structures.CliFlags) (*internal.Tracker, error) {
	tracker, err := di.InitTracker(flags)
	if err != nil {
		return nil, err
	}
	if err := tracker.Load(); err != nil {
		tracker.Close()
		return nil, err
	}
	return tracker, nil
}

func newSummaryCmd(flags *structures.CliFlags) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "summary --user <id>",
		Short: "Print the practice summary of a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			tracker, err := openTracker(flags)
			if err != nil {
				return err
			}
			defer tracker.Close()

			summary, err := tracker.Service.Summary(context.Background(), userID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	return cmd
}

func newHobbiesCmd(flags *structures.CliFlags) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "hobbies --user <id>",
		Short: "List the hobbies of a user with their streaks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			tracker, err := openTracker(flags)
			if err != nil {
				return err
			}
			defer tracker.Close()

			hobbies, err := tracker.Service.HobbiesWithStats(context.Background(), userID)
			if err != nil {
				return err
			}
			if len(hobbies) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hobbies")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderHobbies(hobbies))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	return cmd
}

func newRecentCmd(flags *structures.CliFlags) *cobra.Command {
	var (
		userID string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "recent --user <id>",
		Short: "List recent practice sessions of a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			window := statistic.Window(days)
			if days < 0 {
				window = statistic.AllTime
			}
			tracker, err := openTracker(flags)
			if err != nil {
				return err
			}
			defer tracker.Close()

			sessions, err := tracker.Service.RecentSessions(context.Background(), userID, window)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderRecent(sessions))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().IntVar(&days, "days", int(statistic.DefaultRecentWindow), "window in days, negative for all time")
	return cmd
}
