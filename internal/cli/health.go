package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/storage/remote"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the players service health",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			client := remote.NewClient(settings.APIBaseURL, settings.APITimeout)
			body, err := client.Get(cmd.Context(), "/health")
			if err != nil {
				return err
			}

			var result HealthResult
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("decode health response: %w", err)
			}
			output(cmd).Print(result)
			return nil
		}),
	}
}
