package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlebedev/checkride/internal/session"
)

// newFreshCmd discards the owner's draft and cached assets unconditionally.
func newFreshCmd(cfgPath, ownerID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fresh",
		Short: "Discard the current draft and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer app.Close()

			s, err := session.Open(ctx, app.sessionDeps(), *ownerID)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if err := s.StartFresh(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "draft discarded")
			return nil
		},
	}
}
