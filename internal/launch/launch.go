// Package launch spawns the committed program. Fire-and-forget: the
// child is detached into its own session and the launcher exits without
// awaiting any result. Spawn failures surface through the user's shell,
// not through this process.
package launch

import (
	"fmt"
	"os/exec"
	"syscall"
)

// Spawn starts the invocation detached from the launcher. The command
// runs through the shell so literal typed commands with arguments work
// the same as picked candidates.
func Spawn(invocation string) error {
	if invocation == "" {
		return fmt.Errorf("empty invocation")
	}

	cmd := exec.Command("/bin/sh", "-c", invocation)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", invocation, err)
	}

	// Reap the child in the background in case it exits before we do.
	go cmd.Wait()

	return nil
}
