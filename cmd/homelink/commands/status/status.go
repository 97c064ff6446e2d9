package status

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/homelink/internal/cli"
	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/output"
	"github.com/arthur-debert/homelink/pkg/setup"
)

// NewCommand creates the status command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			format, _ := cmd.Flags().GetString("format")

			env, err := cli.NewEnv(repoRoot, configPath)
			if err != nil {
				return err
			}

			s := setup.New(env.FS, env.Runner, env.Clock, env.Paths, env.Config, env.OS)
			reports, err := s.Run(setup.Options{DryRun: true})
			if err != nil {
				return err
			}

			return render(reports, format)
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json or yaml")

	return cmd
}

func render(reports []setup.StageReport, format string) error {
	switch format {
	case "text":
		for _, r := range reports {
			fmt.Println(output.StageLine(r.Status, r.Name, r.Detail))
		}
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(reports)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown format %q (want text, json or yaml)", format)
	}
}
