package status

// Message constants
const (
	MsgShort = "Show what setup would do without changing anything"
	MsgLong  = `The 'status' command runs every setup stage in preview mode and
reports the current state of each managed link, the rc patch and the
Brewfile stage. Nothing is mutated.`

	MsgExample = `  # Human-readable status
  homelink status

  # Machine-readable
  homelink status --format json
  homelink status --format yaml`
)
