//go:build !windows

package interpreter

import (
	"os/exec"
	"syscall"

	"github.com/google/shlex"
)

// attachedCommand tokenizes the command shell-style and executes it directly.
// An empty command line yields a nil command and is a no-op.
func (i *Interpreter) attachedCommand(command string) (*exec.Cmd, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, nil
	}
	return exec.Command(argv[0], argv[1:]...), nil
}

// detachedCommand starts the child in its own session so it survives the
// script process.
func (i *Interpreter) detachedCommand(command string) (*exec.Cmd, error) {
	cmd, err := i.attachedCommand(command)
	if cmd == nil || err != nil {
		return cmd, err
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd, nil
}
