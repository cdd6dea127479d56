// Package interpreter walks the nlps AST and executes it: expression
// evaluation, statement execution, process spawning and the parallel-block
// construct.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	goRuntime "runtime"
	"strings"
	"sync"

	"github.com/neverliie/nlpm/pkg/ast"
	"github.com/neverliie/nlpm/pkg/parser"
	"github.com/neverliie/nlpm/pkg/runtime"
)

// Interpreter holds the mutable state for one script run. A single instance is
// single-threaded everywhere except inside parallel blocks, where sibling
// statements share this state: concurrent writes to the same name are allowed
// and last write wins. mu guards the map structures themselves, not the
// ordering of writes.
type Interpreter struct {
	scriptPath string
	args       []string

	mu        sync.Mutex
	variables map[string]runtime.Value
	functions map[string]*ast.FunctionDef

	// environ mirrors variables as strings and seeds spawned processes.
	environ map[string]string

	// cwd is the logical working directory, kept in sync with the OS
	// process working directory by cd execution.
	cwd string

	Stdout io.Writer
	Stderr io.Writer
}

// New builds an interpreter for the script at scriptPath invoked with args.
func New(scriptPath string, args []string) *Interpreter {
	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		abs = scriptPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	environ := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			environ[k] = v
		}
	}

	return &Interpreter{
		scriptPath: abs,
		args:       args,
		variables:  make(map[string]runtime.Value),
		functions:  make(map[string]*ast.FunctionDef),
		environ:    environ,
		cwd:        cwd,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// Run parses and executes source, returning the process exit code: 0 on
// success, 1 for any uncaught lexical, parse or interpreter error. Side
// effects performed before a failure are not rolled back.
func (i *Interpreter) Run(source string) int {
	statements, err := parser.ParseSource(source)
	if err != nil {
		fmt.Fprintf(i.Stderr, "[nlps] Error: %v\n", err)
		return 1
	}
	if err := i.executeAll(statements); err != nil {
		fmt.Fprintf(i.Stderr, "[nlps] Error: %v\n", err)
		return 1
	}
	return 0
}

// ExecuteScript reads the script file, builds an interpreter carrying its path
// and arguments, and runs it.
func ExecuteScript(path string, args []string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "[nlps] Script not found: %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "[nlps] Failed to read script: %v\n", err)
		}
		return 1
	}
	return New(path, args).Run(string(source))
}

// hostFamily is the two-valued host discriminator used by the OS special
// variable and by on-blocks.
func hostFamily() string {
	if goRuntime.GOOS == "windows" {
		return "windows"
	}
	return "unix"
}
