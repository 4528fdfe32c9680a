//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// ownProcessGroup keeps console interrupts aimed at kptv away from mpv.
func ownProcessGroup() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
