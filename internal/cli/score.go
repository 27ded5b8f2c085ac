package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/model"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Operator score entry",
	}

	cmd.AddCommand(newScoreSubmitCmd())

	return cmd
}

func newScoreSubmitCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "submit <username> <game> <score>",
		Short: "Record a mini-game score for a registered player",
		Long: `Record a score for any registered player with a character.

The game is a mode id (dance, rhythm, puzzle, raid) or its column (game1..game4).
The score page access code is required on every invocation; it is never stored.`,
		Args: cobra.ExactArgs(3),
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if err := app.ScoreGate.Unlock(code); err != nil {
				return err
			}
			defer app.ScoreGate.Lock()

			gameID, err := model.ParseGameModeID(args[1])
			if err != nil {
				return err
			}

			entry, err := app.ScoreGate.Submit(cmd.Context(), args[0], gameID, args[2])
			if err != nil {
				return err
			}
			output(cmd).Print(ScoreResult{Game: string(gameID), Entry: EntryFromModel(entry)})
			return nil
		}),
	}

	cmd.Flags().StringVar(&code, "code", "", "Score page access code (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
