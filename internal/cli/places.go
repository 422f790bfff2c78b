package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newPlacesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "places <query>",
		Short: "List autocomplete suggestions for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _, _, err := opts.provider()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			suggestions, err := provider.Suggest(ctx, strings.Join(args, " "), uuid.NewString())
			if err != nil {
				return fmt.Errorf("failed to get suggestions: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(suggestions)
			}
			for _, s := range suggestions {
				_, _ = labelColor.Fprintf(out, "%s  ", s.PlaceID)
				_, _ = fmt.Fprintln(out, s.Description)
			}
			return nil
		},
	}
}
