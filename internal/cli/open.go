package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dlebedev/checkride/internal/draft"
	"github.com/dlebedev/checkride/internal/session"
)

// newOpenCmd opens a session, resolving the reentry decision. On PromptUser
// it asks on stdin whether to resume the recovered draft, then prints the
// working record.
func newOpenCmd(cfgPath, ownerID *string) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open an inspection session, resuming or discarding any draft",
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

			fmt.Fprintln(cmd.OutOrStdout(), "decision:", s.Decision())

			if s.Decision() == draft.PromptUser {
				resume := assumeYes
				if !assumeYes {
					fmt.Fprint(cmd.OutOrStdout(), "An unfinished inspection was found. Resume it? [y/N] ")
					line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					resume = strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
				}
				if resume {
					if err := s.Resume(ctx); err != nil {
						return err
					}
				} else if err := s.StartFresh(ctx); err != nil {
					return err
				}
			}

			out, err := json.MarshalIndent(s.Record(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "resume without prompting")
	return cmd
}
