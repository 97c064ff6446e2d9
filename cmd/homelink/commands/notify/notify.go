package notify

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homelink/internal/cli"
	"github.com/arthur-debert/homelink/pkg/gitx"
	"github.com/arthur-debert/homelink/pkg/output"
	"github.com/arthur-debert/homelink/pkg/updatecheck"
)

// NewCommand creates the notify command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notify",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")

			// This runs from shell startup. Whatever goes wrong here must
			// not break a new shell, so every path exits zero.
			env, err := cli.NewEnv(repoRoot, configPath)
			if err != nil {
				return nil
			}

			throttle := updatecheck.NewThrottle(env.FS, env.Clock, env.Paths.LastCheckPath(), env.Config.Update.CheckInterval)
			repo := gitx.New(env.Paths.RepoRoot(), env.Runner)
			if throttle.Check(repo) {
				fmt.Println(output.Muted("dotfiles updates are available, run 'homelink update' to apply them"))
			}
			return nil
		},
	}

	return cmd
}
