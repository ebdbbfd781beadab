//go:build !windows && !unix

package supervisor

import "os/exec"

var launchSupported = false

func setPlatformAttrs(cmd *exec.Cmd) {}
