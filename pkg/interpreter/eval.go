package interpreter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/neverliie/nlpm/pkg/ast"
	"github.com/neverliie/nlpm/pkg/config"
	"github.com/neverliie/nlpm/pkg/runtime"
)

// evaluate returns the runtime value of an expression. The AST is a closed set
// of variants; a node outside the switch is unreachable with a correct parser.
func (i *Interpreter) evaluate(expr ast.Expression) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return runtime.StringValue{Val: i.interpolate(e)}, nil

	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: e.Value, IsInt: e.IsInt}, nil

	case *ast.BoolLiteral:
		return runtime.BoolValue{Val: e.Value}, nil

	case *ast.VariableRef:
		val, ok := i.lookupVar(e.Name)
		if !ok {
			return nil, fmt.Errorf("undefined variable: %s", e.Name)
		}
		return val, nil

	case *ast.SpecialVarRef:
		return i.specialVar(e.Name)

	case *ast.ArgRef:
		return i.argValue(e), nil

	case *ast.Comparison:
		left, err := i.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return i.compare(left, e.Operator, right)

	case *ast.ArrayLiteral:
		arr := runtime.ArrayValue{Elements: make([]runtime.Value, 0, len(e.Elements))}
		for _, elem := range e.Elements {
			val, err := i.evaluate(elem)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, val)
		}
		return arr, nil

	case *ast.FunctionCall:
		return i.callFunction(e)

	default:
		return nil, fmt.Errorf("unknown expression type %T", expr)
	}
}

// interpolate applies the recorded spans in descending offset order so earlier
// offsets stay valid as the string changes length. An unresolved name degrades
// to leaving the literal ${name} text untouched.
func (i *Interpreter) interpolate(lit *ast.StringLiteral) string {
	result := lit.Value
	for idx := len(lit.Interps) - 1; idx >= 0; idx-- {
		span := lit.Interps[idx]
		result = result[:span.Start] + i.resolveInterp(span.Name) + result[span.End:]
	}
	return result
}

// resolveInterp looks a span name up in interpolation order: argument forms
// first, then bound variables, then special variables; anything else is left
// as-is (soft failure, unlike direct variable references).
func (i *Interpreter) resolveInterp(name string) string {
	switch {
	case name == "@":
		return strings.Join(i.args, " ")
	case name == "#":
		return strconv.Itoa(len(i.args))
	case isAllDigits(name):
		idx, err := strconv.Atoi(name)
		if err == nil && idx >= 1 && idx <= len(i.args) {
			return i.args[idx-1]
		}
		return ""
	}
	if val, ok := i.lookupVar(name); ok {
		return runtime.Stringify(val)
	}
	if val, err := i.specialVar(name); err == nil {
		return runtime.Stringify(val)
	}
	return "${" + name + "}"
}

// specialVar computes one of the five read-only special variables on each
// access.
func (i *Interpreter) specialVar(name string) (runtime.Value, error) {
	switch name {
	case "CWD":
		return runtime.StringValue{Val: i.cwd}, nil
	case "HOME":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		return runtime.StringValue{Val: home}, nil
	case "NLPM_HOME":
		return runtime.StringValue{Val: config.Home()}, nil
	case "SCRIPT_DIR":
		return runtime.StringValue{Val: filepath.Dir(i.scriptPath)}, nil
	case "OS":
		return runtime.StringValue{Val: hostFamily()}, nil
	default:
		return nil, fmt.Errorf("unknown special variable: %s", name)
	}
}

// argValue implements $@, $# and positional references. Positional access
// never errors; out-of-range yields the empty string.
func (i *Interpreter) argValue(ref *ast.ArgRef) runtime.Value {
	switch ref.Kind {
	case ast.ArgAll:
		elems := make([]runtime.Value, 0, len(i.args))
		for _, arg := range i.args {
			elems = append(elems, runtime.StringValue{Val: arg})
		}
		return runtime.ArrayValue{Elements: elems}
	case ast.ArgCount:
		return runtime.Int(len(i.args))
	default:
		idx := ref.Index - 1
		if idx < 0 || idx >= len(i.args) {
			return runtime.StringValue{Val: ""}
		}
		return runtime.StringValue{Val: i.args[idx]}
	}
}

// compare applies >, < or == to two runtime values. Ordering is defined for
// number pairs and string pairs only.
func (i *Interpreter) compare(left runtime.Value, op string, right runtime.Value) (runtime.Value, error) {
	if op == "==" {
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	}

	if ln, ok := left.(runtime.NumberValue); ok {
		if rn, ok := right.(runtime.NumberValue); ok {
			if op == ">" {
				return runtime.BoolValue{Val: ln.Val > rn.Val}, nil
			}
			return runtime.BoolValue{Val: ln.Val < rn.Val}, nil
		}
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			if op == ">" {
				return runtime.BoolValue{Val: ls.Val > rs.Val}, nil
			}
			return runtime.BoolValue{Val: ls.Val < rs.Val}, nil
		}
	}

	switch op {
	case ">", "<":
		return nil, fmt.Errorf("cannot order %s and %s", left.Kind(), right.Kind())
	default:
		// The parser only emits the three comparison operators.
		return nil, fmt.Errorf("unknown operator: %s", op)
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
