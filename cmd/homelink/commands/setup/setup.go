package setup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homelink/internal/cli"
	"github.com/arthur-debert/homelink/pkg/output"
	"github.com/arthur-debert/homelink/pkg/setup"
)

// NewCommand creates the setup command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			noInstall, _ := cmd.Flags().GetBool("no-install")

			env, err := cli.NewEnv(repoRoot, configPath)
			if err != nil {
				return err
			}
			if env.Paths.UsedFallback() {
				output.Warn("no repo root configured, using current directory: %s", env.Paths.RepoRoot())
			}

			s := setup.New(env.FS, env.Runner, env.Clock, env.Paths, env.Config, env.OS)
			reports, err := s.Run(setup.Options{DryRun: dryRun, NoInstall: noInstall})

			for _, r := range reports {
				fmt.Println(output.StageLine(r.Status, r.Name, r.Detail))
			}
			if err != nil {
				return err
			}

			if dryRun {
				output.Info("dry run, nothing was changed")
			} else {
				output.Success("setup complete")
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Preview changes without executing them")
	cmd.Flags().Bool("no-install", false, "Skip the Brewfile installation stage")

	return cmd
}
