//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// execScript replaces the current process with a fresh nlpm running the
// script, so signals and exit codes flow straight to the shell. It returns
// only when the exec fails, in which case the caller falls back to running
// the script in-process.
func execScript(path string, args []string) {
	self, err := os.Executable()
	if err != nil {
		return
	}
	argv := append([]string{self, "run", path}, args...)
	_ = unix.Exec(self, argv, os.Environ())
}
