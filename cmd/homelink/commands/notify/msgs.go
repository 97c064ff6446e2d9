package notify

// Message constants
const (
	MsgShort = "Background update check, meant for shell startup"
	MsgLong  = `The 'notify' command checks whether the dotfiles repository is behind
its upstream and prints a one-line hint when it is. Checks are throttled
to at most one network fetch per configured interval (24h by default),
and the command always exits zero so it is safe to call from an rc file.`

	MsgExample = `  # In .zshrc (the setup command adds this for you):
  command -v homelink >/dev/null && homelink notify`
)
