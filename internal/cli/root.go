package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/config"
	"github.com/mcoot/festivalboard/internal/factory"
)

var (
	flags    *Flags
	settings config.Client
	app      *factory.App
	// loadErr is the error from the bootstrap load, if it failed
	loadErr error
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	flags = &Flags{}
	app = nil
	loadErr = nil

	rootCmd := &cobra.Command{
		Use:   "festival",
		Short: "Festival avatar and leaderboard client",
		Long: `festival manages festival accounts, their characters and mini-game scores.

Players are kept either in a local profile or on the shared players service.
The session and page history persist in the profile between invocations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = flags.settings(cmd)
			if err != nil {
				return err
			}

			app, err = factory.New(cmd.Context(), factory.Config{
				Settings: settings,
				Logger:   newLogger(cmd.ErrOrStderr(), settings.Verbose),
			})
			if err != nil {
				return err
			}

			// A failed load leaves the app usable for status and retry
			loadErr = app.Start(cmd.Context())
			return nil
		},
		SilenceUsage: true,
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newRetryCmd())
	rootCmd.AddCommand(newCharacterCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newPageCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// action wraps a command so the app is closed, and its page history
// saved, whether or not the command succeeds
func action(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if app != nil {
			if closeErr := app.Close(context.WithoutCancel(cmd.Context())); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
			app = nil
		}
		return err
	}
}

// requireLoaded fails with the bootstrap error when players could not be loaded
func requireLoaded() error {
	if loadErr != nil {
		return fmt.Errorf("players not loaded, run 'festival retry': %w", loadErr)
	}
	return nil
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(settings.Output, cmd.OutOrStdout())
}
