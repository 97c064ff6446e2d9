package update

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homelink/internal/cli"
	"github.com/arthur-debert/homelink/pkg/gitx"
	"github.com/arthur-debert/homelink/pkg/output"
	setuppkg "github.com/arthur-debert/homelink/pkg/setup"
	"github.com/arthur-debert/homelink/pkg/ui"
)

// NewCommand creates the update command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			assumeYes, _ := cmd.Flags().GetBool("yes")

			env, err := cli.NewEnv(repoRoot, configPath)
			if err != nil {
				return err
			}

			prompter := ui.NewPrompter()
			prompter.AssumeYes = assumeYes

			return run(env, prompter)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Answer yes to every prompt")

	return cmd
}

func run(env *cli.Env, prompter *ui.Prompter) error {
	repo := gitx.New(env.Paths.RepoRoot(), env.Runner)
	if !repo.Available() {
		output.Warn("git not found on PATH, cannot update")
		return nil
	}

	dirty, err := repo.IsDirty()
	if err != nil {
		return err
	}
	if dirty {
		ok, err := prompter.Confirm("Repository has local changes. Stash them and continue?", false)
		if err != nil {
			return err
		}
		if !ok {
			output.Info("update aborted, local changes left in place")
			return nil
		}
		if err := repo.Stash(); err != nil {
			return err
		}
	}

	output.Info("fetching updates from %s", env.Paths.RepoRoot())
	if err := repo.Fetch(); err != nil {
		return err
	}

	behind, err := repo.Behind()
	if err != nil {
		return err
	}
	if !behind {
		output.Success("already up to date")
		return nil
	}

	ok, err := prompter.Confirm("Updates are available. Apply them now?", false)
	if err != nil {
		return err
	}
	if !ok {
		output.Info("update deferred, run 'homelink update' when ready")
		return nil
	}
	if err := repo.Pull(); err != nil {
		return err
	}
	output.Success("repository updated")

	ok, err = prompter.Confirm("Re-run setup to apply the new state?", false)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s := setuppkg.New(env.FS, env.Runner, env.Clock, env.Paths, env.Config, env.OS)
	reports, err := s.Run(setuppkg.Options{})
	for _, r := range reports {
		fmt.Println(output.StageLine(r.Status, r.Name, r.Detail))
	}
	if err != nil {
		return err
	}
	output.Success("setup complete")
	return nil
}
