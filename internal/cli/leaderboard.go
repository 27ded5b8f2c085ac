package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/leaderboard"
)

func newLeaderboardCmd() *cobra.Command {
	var game string
	var top int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the overall or per-game ranking",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			users := app.Session.Snapshot()

			title := "Overall"
			var entries []leaderboard.Entry
			if game == "" {
				entries = leaderboard.AllRanked(users)
			} else {
				gameID, err := model.ParseGameModeID(game)
				if err != nil {
					return err
				}
				title = fmt.Sprintf("Game: %s", gameID)
				entries = leaderboard.ByGame(users, gameID)
			}
			if top > 0 {
				entries = leaderboard.Top(entries, top)
			}

			view := LeaderboardView{Title: title, Entries: make([]EntryView, len(entries))}
			for i, e := range entries {
				view.Entries[i] = EntryFromModel(e)
			}
			output(cmd).Print(view)
			return nil
		}),
	}

	cmd.Flags().StringVar(&game, "game", "", "Rank by one game (dance, rhythm, puzzle, raid)")
	cmd.Flags().IntVar(&top, "top", 0, "Show only the first N entries")

	return cmd
}
