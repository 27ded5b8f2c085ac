package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/navigation"
)

func newPageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Move between pages; access rules may redirect",
	}

	cmd.AddCommand(newPageOpenCmd())
	cmd.AddCommand(newPageMoveCmd("back", "Go back one page", func() bool { return app.History.Back() }))
	cmd.AddCommand(newPageMoveCmd("forward", "Go forward one page", func() bool { return app.History.Forward() }))
	cmd.AddCommand(newPageCurrentCmd())

	return cmd
}

func newPageOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "open <page>",
		Short:     "Open a page: login, home, create, account, score",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pageNames(),
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			page := model.Page(strings.ToLower(strings.TrimSpace(args[0])))
			if _, err := app.Navigator.Navigate(page); err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			output(cmd).Print(currentPage())
			return nil
		}),
	}
}

func newPageMoveCmd(use, short string, move func() bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if !move() {
				return fmt.Errorf("cannot go %s: no more history", use)
			}
			output(cmd).Print(currentPage())
			return nil
		}),
	}
}

func newPageCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current page",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			output(cmd).Print(currentPage())
			return nil
		}),
	}
}

func currentPage() PageView {
	page := app.Navigator.Current()
	return PageView{Page: string(page), Path: navigation.PageToPath(page)}
}

func pageNames() []string {
	names := make([]string, len(model.Pages))
	for i, p := range model.Pages {
		names[i] = string(p)
	}
	return names
}
