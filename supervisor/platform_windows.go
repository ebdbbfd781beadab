//go:build windows

package supervisor

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

var launchSupported = true

// setPlatformAttrs instructs the OS not to allocate a console window for
// the child, so the backend doesn't flash a second window next to the GUI
// shell.
func setPlatformAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
