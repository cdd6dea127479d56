// Package ast defines the nlps abstract syntax tree as a closed set of tagged
// variants so interpreter dispatch stays exhaustive under type switches.
package ast

import "regexp"

// Expression is implemented by every expression node.
type Expression interface {
	exprNode()
}

// Statement is implemented by every statement node.
type Statement interface {
	stmtNode()
}

// InterpSpan marks one ${name} substitution site inside a string literal.
// Start and End are byte offsets into the literal's raw text, End exclusive.
type InterpSpan struct {
	Start int
	End   int
	Name  string
}

// StringLiteral is raw text plus the ordered interpolation spans found in it.
// Spans are recorded in ascending offset order; the interpreter substitutes
// them from the highest offset down so earlier offsets stay valid.
type StringLiteral struct {
	Value   string
	Interps []InterpSpan
}

type NumberLiteral struct {
	Value float64
	IsInt bool
}

type BoolLiteral struct {
	Value bool
}

type VariableRef struct {
	Name string
}

// SpecialVarRef names one of CWD, HOME, NLPM_HOME, SCRIPT_DIR, OS.
type SpecialVarRef struct {
	Name string
}

// ArgRefKind selects between positional, all-arguments and argument-count
// references.
type ArgRefKind int

const (
	ArgPositional ArgRefKind = iota // $1, $2, ...
	ArgAll                          // $@
	ArgCount                        // $#
)

// ArgRef refers to the script invocation arguments. Index is 1-based and only
// meaningful for ArgPositional.
type ArgRef struct {
	Kind  ArgRefKind
	Index int
}

type Comparison struct {
	Left     Expression
	Operator string // ">", "<" or "=="
	Right    Expression
}

type ArrayLiteral struct {
	Elements []Expression
}

// FunctionCall appears both as an expression and as a statement.
type FunctionCall struct {
	Name string
	Args []Expression
}

type Assignment struct {
	Name  string
	Value Expression
}

// RunCommand holds the re-serialized command line, interpolated at execution
// time. Detach selects fire-and-forget execution; the current surface grammar
// always leaves it false.
type RunCommand struct {
	Command *StringLiteral
	Detach  bool
}

type CdCommand struct {
	Path Expression
}

type IfStatement struct {
	Condition Expression
	Then      []Statement
	Else      []Statement
}

type ForLoop struct {
	Var      string
	Iterable Expression
	Body     []Statement
}

type FunctionDef struct {
	Name   string
	Params []string
	Body   []Statement
}

// OsBlock gates its body on the host family; Host is "windows" or "unix".
type OsBlock struct {
	Host string
	Body []Statement
}

type ParallelBlock struct {
	Body []Statement
}

func (*StringLiteral) exprNode() {}
func (*NumberLiteral) exprNode() {}
func (*BoolLiteral) exprNode()   {}
func (*VariableRef) exprNode()   {}
func (*SpecialVarRef) exprNode() {}
func (*ArgRef) exprNode()        {}
func (*Comparison) exprNode()    {}
func (*ArrayLiteral) exprNode()  {}
func (*FunctionCall) exprNode()  {}

func (*Assignment) stmtNode()    {}
func (*RunCommand) stmtNode()    {}
func (*CdCommand) stmtNode()     {}
func (*IfStatement) stmtNode()   {}
func (*ForLoop) stmtNode()       {}
func (*FunctionDef) stmtNode()   {}
func (*FunctionCall) stmtNode()  {}
func (*OsBlock) stmtNode()       {}
func (*ParallelBlock) stmtNode() {}

var interpPattern = regexp.MustCompile(`\$\{(\w+|@|#)\}`)

// NewStringLiteral scans raw text for ${name} patterns (name is a word run,
// @ or #) and records one span per occurrence in source order.
func NewStringLiteral(value string) *StringLiteral {
	lit := &StringLiteral{Value: value}
	for _, match := range interpPattern.FindAllStringSubmatchIndex(value, -1) {
		lit.Interps = append(lit.Interps, InterpSpan{
			Start: match[0],
			End:   match[1],
			Name:  value[match[2]:match[3]],
		})
	}
	return lit
}
