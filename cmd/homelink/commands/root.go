package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/homelink/cmd/homelink/commands/genconfig"
	"github.com/arthur-debert/homelink/cmd/homelink/commands/guidelines"
	"github.com/arthur-debert/homelink/cmd/homelink/commands/notify"
	"github.com/arthur-debert/homelink/cmd/homelink/commands/setup"
	"github.com/arthur-debert/homelink/cmd/homelink/commands/status"
	"github.com/arthur-debert/homelink/cmd/homelink/commands/update"
	"github.com/arthur-debert/homelink/internal/version"
	"github.com/arthur-debert/homelink/pkg/logging"
)

// NewRootCmd builds the homelink command tree.
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "homelink",
		Short: MsgShort,
		Long:  MsgLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().String("repo-root", "", "Dotfiles repository root (default: $HOMELINK_REPO_ROOT or cwd)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: <repo-root>/.homelink.toml)")

	rootCmd.AddCommand(setup.NewCommand())
	rootCmd.AddCommand(update.NewCommand())
	rootCmd.AddCommand(status.NewCommand())
	rootCmd.AddCommand(notify.NewCommand())
	rootCmd.AddCommand(guidelines.NewCommand())
	rootCmd.AddCommand(genconfig.NewCommand())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("homelink version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
