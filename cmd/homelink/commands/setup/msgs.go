package setup

// Message constants
const (
	MsgShort = "Link, patch and install everything"
	MsgLong  = `The 'setup' command runs the full provisioning pipeline:
  - Links each managed directory into your home directory
  - Backs up anything already occupying a target path
  - Appends the shell integration block to your rc file (once)
  - Runs brew bundle against the repository's Brewfile

Anything already in the expected state is left untouched, so setup can
be re-run at any time.`

	MsgExample = `  # Provision this machine from the repo in the current directory
  homelink setup

  # Preview what would change
  homelink setup --dry-run

  # Skip package installation
  homelink setup --no-install`
)
