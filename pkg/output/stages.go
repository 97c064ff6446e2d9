package output

import (
	"fmt"

	"github.com/pterm/pterm"
)

// StageStatus is the display status of one setup stage.
type StageStatus string

const (
	StageOK      StageStatus = "ok"      // stage completed
	StageSkipped StageStatus = "skipped" // stage had nothing to do or its tool is absent
	StageWarn    StageStatus = "warn"    // stage completed with tolerated errors
	StageFailed  StageStatus = "failed"  // stage aborted the run
)

// StageStyle returns the pterm style for a stage status badge.
func StageStyle(status StageStatus) *pterm.Style {
	switch status {
	case StageOK:
		return pterm.NewStyle(pterm.FgGreen)
	case StageSkipped:
		return pterm.NewStyle(pterm.FgGray)
	case StageWarn:
		return pterm.NewStyle(pterm.FgYellow)
	case StageFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// StageLine renders one summary line for a setup stage.
func StageLine(status StageStatus, name, detail string) string {
	badge := StageStyle(status).Sprintf("[%s]", status)
	if detail == "" {
		return fmt.Sprintf("%-22s %s", badge, name)
	}
	return fmt.Sprintf("%-22s %s %s", badge, name, Muted(detail))
}
