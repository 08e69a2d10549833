//go:build !unix

package command

import "os/exec"

// configureProcess is a no-op where process groups are unavailable.
// exec.CommandContext still kills the direct child on cancellation.
func configureProcess(cmd *exec.Cmd) {}
