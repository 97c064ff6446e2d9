package guidelines

// Message constants
const (
	MsgShort = "Show the repository's working guidelines"
	MsgLong  = `The 'guidelines' command renders the repository's CLAUDE.md in the
terminal. This is the document the repo links into ~/.claude, kept
handy for a quick read without opening an editor.`

	MsgExample = `  # Styled output
  homelink guidelines

  # Raw markdown, e.g. for piping
  homelink guidelines --plain`
)
