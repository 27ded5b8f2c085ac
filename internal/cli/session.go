package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSignupCmd() *cobra.Command {
	var user, pass string
	var f appearanceFlags

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Long: `Create an account and log in.

Passing --name also creates the character in the same step. The remote
service only stores players that have a character, so with the remote
backend an account without one is gone on the next invocation.`,
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if _, err := app.Session.Signup(cmd.Context(), user, pass); err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				if err := createCharacter(cmd, &f); err != nil {
					return err
				}
			}
			output(cmd).Print(currentSession())
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password")
	_ = cmd.MarkFlagRequired("user")
	f.register(cmd)

	return cmd
}

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if _, err := app.Session.Login(cmd.Context(), user, pass); err != nil {
				return err
			}
			output(cmd).Print(currentSession())
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			output(cmd).PrintMessage("Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and current page",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			output(cmd).Print(currentSession())
			return nil
		}),
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether players were loaded from the backend",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			output(cmd).Print(currentStatus())
			return nil
		}),
	}
}

func newRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Load players again after a failed load",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if loadErr == nil {
				output(cmd).Print(currentStatus())
				return nil
			}
			loadErr = app.Retry(cmd.Context())
			output(cmd).Print(currentStatus())
			if loadErr != nil {
				return fmt.Errorf("retry failed: %w", loadErr)
			}
			return nil
		}),
	}
}

func currentSession() SessionView {
	sess := app.Session.Session()
	view := SessionView{Username: sess.CurrentUser, Page: string(sess.CurrentPage)}
	if user, ok := app.Session.CurrentUser(); ok {
		view.HasCharacter = user.HasCharacter()
	}
	return view
}

func currentStatus() StatusView {
	view := StatusView{
		Loaded:  app.Session.Loaded(),
		Backend: settings.Backend,
		Users:   len(app.Session.Snapshot()),
	}
	if loadErr != nil {
		view.Error = loadErr.Error()
	}
	return view
}
