//go:build windows

package backend

import "os/exec"

// gracefulCancel keeps the default Kill on Windows, which has no SIGTERM.
func gracefulCancel(*exec.Cmd) {}
