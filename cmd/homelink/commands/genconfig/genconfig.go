package genconfig

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homelink/internal/cli"
	"github.com/arthur-debert/homelink/pkg/config"
)

// NewCommand creates the genconfig command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			effective, _ := cmd.Flags().GetBool("effective")

			if !effective {
				fmt.Print(string(config.DefaultTOML()))
				return nil
			}

			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			env, err := cli.NewEnv(repoRoot, configPath)
			if err != nil {
				return err
			}
			out, err := config.MarshalTOML(env.Config)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}

	cmd.Flags().Bool("effective", false, "Print the merged configuration (defaults + file + environment)")

	return cmd
}
