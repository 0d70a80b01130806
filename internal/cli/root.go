package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	var ownerID string

	root := &cobra.Command{
		Use:   "checkride",
		Short: "Field inspection drafts and submissions",
		Long: "checkride manages locally autosaved inspection drafts and submits completed inspections to the backend.\n\n" +
			"Besides the flags below, the config layer accepts overrides parsed from the raw command line:\n" +
			"  -d <dir>  -dsn <dsn>  -b <bucket>  -e <endpoint>  -r <region>  -t <seconds>",
		SilenceUsage:  true,
		SilenceErrors: true,
		// config override flags are parsed by internal/config, not cobra
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVarP(&ownerID, "owner", "o", defaultOwner(), "owner id of the draft")

	root.AddCommand(
		newOpenCmd(&cfgPath, &ownerID),
		newStatusCmd(&cfgPath, &ownerID),
		newFreshCmd(&cfgPath, &ownerID),
		newSubmitCmd(&cfgPath, &ownerID),
	)
	// the whitelist is per command, not inherited
	for _, c := range root.Commands() {
		c.FParseErrWhitelist = root.FParseErrWhitelist
	}
	return root
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
