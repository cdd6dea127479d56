//go:build windows

package main

// execScript is a no-op on Windows, where exec-style process replacement is
// not available; the caller runs the script in-process instead.
func execScript(path string, args []string) {}
