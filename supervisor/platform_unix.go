//go:build unix

package supervisor

import "os/exec"

var launchSupported = true

// Unix children share the parent's terminal session; there is no console
// window to suppress.
func setPlatformAttrs(cmd *exec.Cmd) {}
