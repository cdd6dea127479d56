package interpreter

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/neverliie/nlpm/pkg/ast"
	"github.com/neverliie/nlpm/pkg/runtime"
)

// executeRun evaluates the deferred command string, emits the echo line, and
// executes the command attached (synchronous, inherited streams) or detached
// (fire-and-forget, silenced streams, own process group).
func (i *Interpreter) executeRun(s *ast.RunCommand) error {
	val, err := i.evaluate(s.Command)
	if err != nil {
		return err
	}
	command := runtime.Stringify(val)

	if s.Detach {
		fmt.Fprintf(i.Stdout, "[nlps] %s (detached)\n", command)
		return i.runDetached(command)
	}
	fmt.Fprintf(i.Stdout, "[nlps] %s\n", command)
	return i.runAttached(command)
}

func (i *Interpreter) runAttached(command string) error {
	cmd, err := i.attachedCommand(command)
	if err != nil {
		return fmt.Errorf("failed to execute command '%s': %w", command, err)
	}
	if cmd == nil {
		return nil
	}
	cmd.Dir = i.cwd
	cmd.Env = i.envList()
	cmd.Stdin = os.Stdin
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// A nonzero exit is a warning, never fatal.
			fmt.Fprintf(i.Stdout, "[nlps] Command exited with code %d\n", exitErr.ExitCode())
			return nil
		}
		return fmt.Errorf("failed to execute command '%s': %w", command, err)
	}
	return nil
}

func (i *Interpreter) runDetached(command string) error {
	cmd, err := i.detachedCommand(command)
	if err != nil {
		return fmt.Errorf("failed to execute command '%s': %w", command, err)
	}
	if cmd == nil {
		return nil
	}
	cmd.Dir = i.cwd
	cmd.Env = i.envList()
	// Streams stay nil: the child reads from and writes to the null device
	// and may outlive this process.

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to execute command '%s': %w", command, err)
	}
	// Reap the child if it exits while we are still running; the script never
	// waits on or observes it.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (i *Interpreter) envList() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	env := make([]string, 0, len(i.environ))
	for k, v := range i.environ {
		env = append(env, k+"="+v)
	}
	return env
}
