package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSubmitCmd runs the submission pipeline for the owner's draft:
// materialize assets to object storage, persist the submission, link the
// appointment, and retire the draft.
func newSubmitCmd(cfgPath, ownerID *string) *cobra.Command {
	var appointmentID string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the current draft as a completed inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer app.Close()

			d, err := app.drafts.Load(ctx, *ownerID)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("no draft to submit for owner %q", *ownerID)
			}
			if !app.classifier.IsMeaningful(d.Record) {
				return fmt.Errorf("draft contains no inspection data")
			}

			composer, closeBackend, err := app.composer(ctx)
			if err != nil {
				return err
			}
			defer closeBackend()

			sub, err := composer.Submit(ctx, *ownerID, appointmentID, d.Record)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "submitted:", sub.ID)
			fmt.Fprintf(out, "battery: %d cells, %.2f-%.2fV\n",
				sub.Battery.CellCount, sub.Battery.MinVoltage, sub.Battery.MaxVoltage)
			fmt.Fprintf(out, "checklist: %d passed, %d failed, %d skipped\n",
				sub.Checklist.Passed, sub.Checklist.Failed, sub.Checklist.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&appointmentID, "appointment", "a", "", "appointment to link the submission to")
	return cmd
}
