//go:build windows

package interpreter

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// attachedCommand runs the full command line through cmd.exe so shell
// semantics and terminal I/O behave the way interactive users expect.
func (i *Interpreter) attachedCommand(command string) (*exec.Cmd, error) {
	return exec.Command("cmd", "/c", command), nil
}

// detachedCommand places the child in a new process group so it is isolated
// from console control events sent to the script.
func (i *Interpreter) detachedCommand(command string) (*exec.Cmd, error) {
	cmd, err := i.attachedCommand(command)
	if err != nil {
		return nil, err
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
	return cmd, nil
}
