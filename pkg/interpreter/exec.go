package interpreter

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/neverliie/nlpm/pkg/ast"
	"github.com/neverliie/nlpm/pkg/runtime"
)

func (i *Interpreter) executeAll(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Assignment:
		val, err := i.evaluate(s.Value)
		if err != nil {
			return err
		}
		i.bind(s.Name, val)
		return nil

	case *ast.RunCommand:
		return i.executeRun(s)

	case *ast.CdCommand:
		return i.executeCd(s)

	case *ast.IfStatement:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if runtime.Truthy(cond) {
			return i.executeAll(s.Then)
		}
		return i.executeAll(s.Else)

	case *ast.ForLoop:
		return i.executeFor(s)

	case *ast.FunctionDef:
		// Last registration wins; no duplicate error.
		i.mu.Lock()
		i.functions[s.Name] = s
		i.mu.Unlock()
		return nil

	case *ast.FunctionCall:
		_, err := i.callFunction(s)
		return err

	case *ast.OsBlock:
		if s.Host == hostFamily() {
			return i.executeAll(s.Body)
		}
		return nil

	case *ast.ParallelBlock:
		i.executeParallel(s.Body)
		return nil

	default:
		return fmt.Errorf("unknown statement type %T", stmt)
	}
}

// bind sets a variable and mirrors its stringified value into the environment
// used by spawned processes.
func (i *Interpreter) bind(name string, val runtime.Value) {
	i.mu.Lock()
	i.variables[name] = val
	i.environ[name] = runtime.Stringify(val)
	i.mu.Unlock()
}

// lookupVar reads a variable binding under the lock.
func (i *Interpreter) lookupVar(name string) (runtime.Value, bool) {
	i.mu.Lock()
	val, ok := i.variables[name]
	i.mu.Unlock()
	return val, ok
}

func (i *Interpreter) executeCd(s *ast.CdCommand) error {
	val, err := i.evaluate(s.Path)
	if err != nil {
		return err
	}
	path := runtime.Stringify(val)

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(i.cwd, target)
	}
	target = filepath.Clean(target)
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	i.cwd = target
	return os.Chdir(target)
}

func (i *Interpreter) executeFor(s *ast.ForLoop) error {
	iterable, err := i.evaluate(s.Iterable)
	if err != nil {
		return err
	}
	arr, ok := iterable.(runtime.ArrayValue)
	if !ok {
		return fmt.Errorf("cannot iterate over %s", iterable.Kind())
	}

	// The body shares the outer scope; the loop variable is simply rebound
	// per element.
	for _, elem := range arr.Elements {
		i.bind(s.Var, elem)
		if err := i.executeAll(s.Body); err != nil {
			return err
		}
	}
	return nil
}

// callFunction resolves and invokes a user-defined function under dynamic
// scoping: the callee runs against a copy of the caller's live variable and
// environment maps, and after the call the variable scope is restored to its
// pre-call snapshot. Environment keys first introduced during the call are
// retained as permanent side effects.
func (i *Interpreter) callFunction(call *ast.FunctionCall) (runtime.Value, error) {
	i.mu.Lock()
	fn, ok := i.functions[call.Name]
	i.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("undefined function: %s", call.Name)
	}
	if len(call.Args) != len(fn.Params) {
		return nil, fmt.Errorf("function '%s' expects %d arguments, got %d",
			call.Name, len(fn.Params), len(call.Args))
	}

	// Arguments evaluate in the caller's current scope before binding.
	argValues := make([]runtime.Value, len(call.Args))
	for idx, arg := range call.Args {
		val, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}
		argValues[idx] = val
	}

	i.mu.Lock()
	oldVars := copyValues(i.variables)
	oldEnv := copyStrings(i.environ)
	i.mu.Unlock()

	restore := func() {
		i.mu.Lock()
		i.variables = oldVars
		for key, value := range i.environ {
			if _, existed := oldEnv[key]; !existed {
				oldEnv[key] = value
			}
		}
		i.environ = oldEnv
		i.mu.Unlock()
	}
	defer restore()

	for idx, param := range fn.Params {
		i.bind(param, argValues[idx])
	}
	if err := i.executeAll(fn.Body); err != nil {
		return nil, err
	}

	// No return construct exists in the grammar; calls always yield an empty
	// value.
	return runtime.NilValue{}, nil
}

// executeParallel submits every direct child statement to its own goroutine
// against the shared interpreter state with no locking. The statement blocks
// until all children finish; a failing child does not cancel siblings, and all
// child errors are reported together once the barrier releases.
func (i *Interpreter) executeParallel(body []ast.Statement) {
	errs := make(chan error, len(body))
	var wg sync.WaitGroup
	for _, stmt := range body {
		wg.Add(1)
		go func(stmt ast.Statement) {
			defer wg.Done()
			if err := i.executeStatement(stmt); err != nil {
				errs <- err
			}
		}(stmt)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		fmt.Fprintf(i.Stdout, "[nlps] Parallel execution error: %v\n", err)
	}
}

func copyValues(src map[string]runtime.Value) map[string]runtime.Value {
	dst := make(map[string]runtime.Value, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyStrings(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
