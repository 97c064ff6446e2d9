package guidelines

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/homelink/internal/cli"
	"github.com/arthur-debert/homelink/pkg/errors"
)

// GuidelinesFile is the document rendered by this command, relative to
// the repository root.
const GuidelinesFile = "CLAUDE.md"

// NewCommand creates the guidelines command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guidelines",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			plain, _ := cmd.Flags().GetBool("plain")

			env, err := cli.NewEnv(repoRoot, configPath)
			if err != nil {
				return err
			}

			path := filepath.Join(env.Paths.RepoRoot(), GuidelinesFile)
			content, err := env.FS.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileNotFound, "no %s in %s", GuidelinesFile, env.Paths.RepoRoot())
			}

			fmt.Print(render(string(content), plain))
			return nil
		},
	}

	cmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")

	return cmd
}

// render styles markdown for the terminal, falling back to the raw text
// when styling is off or the renderer cannot be built.
func render(content string, plain bool) string {
	if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
