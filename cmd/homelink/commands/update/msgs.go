package update

// Message constants
const (
	MsgShort = "Pull the latest dotfiles and optionally re-run setup"
	MsgLong  = `The 'update' command fetches the repository's upstream branch and
fast-forwards to it. Local uncommitted changes are stashed first, after
confirmation. When the pull brings in changes you are offered to re-run
setup so links, rc patches and packages match the new state.

Every prompt defaults to No; pass --yes to accept them all.`

	MsgExample = `  # Interactive update
  homelink update

  # Unattended update (stash, pull, re-run setup)
  homelink update --yes`
)
