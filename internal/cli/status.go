package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlebedev/checkride/internal/draft"
)

// newStatusCmd reports on the owner's draft without opening a session: draft
// presence, age, meaningfulness, and what the reentry policy would decide
// right now.
func newStatusCmd(cfgPath, ownerID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "owner:", *ownerID)

			d, err := app.drafts.Load(ctx, *ownerID)
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Fprintln(out, "draft: none")
			} else {
				fmt.Fprintln(out, "draft: saved", d.SavedAt.Format(time.RFC3339))
				fmt.Fprintln(out, "meaningful:", app.classifier.IsMeaningful(d.Record))
			}

			lastOpened, seen, err := app.drafts.LastOpened(ctx, *ownerID)
			if err != nil {
				return err
			}
			if seen {
				fmt.Fprintln(out, "last opened:", lastOpened.Format(time.RFC3339))
			} else {
				fmt.Fprintln(out, "last opened: never")
			}

			elapsed := draft.Elapsed(lastOpened, seen, time.Now())
			meaningful := d != nil && app.classifier.IsMeaningful(d.Record)
			decision := draft.Decide(elapsed, d != nil, meaningful, app.cfg.ResumeThreshold)
			fmt.Fprintln(out, "on open:", decision)
			return nil
		},
	}
}
