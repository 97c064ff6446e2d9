// Package rcpatch appends a marker-guarded block to a shell resource
// file. The marker makes the operation idempotent: once present, the
// file is never touched again, even if the payload lines have since
// changed upstream.
package rcpatch

import (
	"os"
	"strings"

	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/logging"
)

// Result describes what Patch did to the rc file.
type Result string

const (
	// AlreadyPatched means the marker was found; no bytes changed.
	AlreadyPatched Result = "already-patched"

	// Created means the marker block was appended (creating the file
	// first when it did not exist).
	Created Result = "created"
)

// IsPatched reports whether the marker is already present in the rc
// file. A missing file is simply unpatched.
func IsPatched(fs filesystem.FS, rcPath, marker string) (bool, error) {
	content, err := fs.ReadFile(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", rcPath)
	}
	return strings.Contains(string(content), marker), nil
}

// Patch ensures rcPath contains the marker followed by the given lines.
// The file is only ever appended to, never rewritten.
func Patch(fs filesystem.FS, rcPath, marker string, lines []string) (Result, error) {
	logger := logging.GetLogger("rcpatch")

	content, err := fs.ReadFile(rcPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", rcPath)
		}
		logger.Warn().Str("path", rcPath).Msg("rc file missing, creating it")
		content = nil
	}

	if strings.Contains(string(content), marker) {
		logger.Info().Str("path", rcPath).Msg("marker present, rc file left untouched")
		return AlreadyPatched, nil
	}

	var block strings.Builder
	block.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		block.WriteString("\n")
	}
	block.WriteString("\n")
	block.WriteString(marker)
	block.WriteString("\n")
	for _, line := range lines {
		block.WriteString(line)
		block.WriteString("\n")
	}

	if err := fs.WriteFile(rcPath, []byte(block.String()), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", rcPath)
	}

	logger.Info().Str("path", rcPath).Str("marker", marker).Msg("rc file patched")
	return Created, nil
}
