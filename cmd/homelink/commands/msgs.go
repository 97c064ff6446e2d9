package commands

// Message constants
const (
	MsgShort = "Make a dotfiles repository reproducible on any machine"
	MsgLong  = `homelink links a dotfiles repository into your home directory, patches
your shell rc file with an idempotent marker block, and installs the
repository's Brewfile. Every operation checks current state before
mutating, so re-running setup is always safe.`
)
