package lexer

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	// Literals
	STRING TokenType = iota
	NUMBER
	BOOL

	// Identifiers and variables
	IDENTIFIER
	VAR_REF // $variable

	// Keywords
	RUN
	IF
	ELSE
	FOR
	IN
	FN
	CD
	ON
	PARALLEL

	// Special variables
	CWD
	HOME
	NLPM_HOME
	SCRIPT_DIR
	OS
	ARG_PREFIX // $1, $2, ... plus $@ and $#

	// Operators
	ASSIGN // =
	GT     // >
	LT     // <
	EQ     // ==

	// Delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,

	// Other
	COMMENT
	NEWLINE
	EOF
	STRING_INTERP_START // ${
)

var tokenNames = map[TokenType]string{
	STRING:              "STRING",
	NUMBER:              "NUMBER",
	BOOL:                "BOOL",
	IDENTIFIER:          "IDENTIFIER",
	VAR_REF:             "VAR_REF",
	RUN:                 "RUN",
	IF:                  "IF",
	ELSE:                "ELSE",
	FOR:                 "FOR",
	IN:                  "IN",
	FN:                  "FN",
	CD:                  "CD",
	ON:                  "ON",
	PARALLEL:            "PARALLEL",
	CWD:                 "CWD",
	HOME:                "HOME",
	NLPM_HOME:           "NLPM_HOME",
	SCRIPT_DIR:          "SCRIPT_DIR",
	OS:                  "OS",
	ARG_PREFIX:          "ARG_PREFIX",
	ASSIGN:              "ASSIGN",
	GT:                  "GT",
	LT:                  "LT",
	EQ:                  "EQ",
	LBRACE:              "LBRACE",
	RBRACE:              "RBRACE",
	LPAREN:              "LPAREN",
	RPAREN:              "RPAREN",
	LBRACKET:            "LBRACKET",
	RBRACKET:            "RBRACKET",
	COMMA:               "COMMA",
	COMMENT:             "COMMENT",
	NEWLINE:             "NEWLINE",
	EOF:                 "EOF",
	STRING_INTERP_START: "STRING_INTERP_START",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexeme with its source position. Line and Column are
// 1-based and refer to the first character of the token.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsSpecialVar reports whether the token is one of the five read-only special
// variables.
func (t Token) IsSpecialVar() bool {
	switch t.Type {
	case CWD, HOME, NLPM_HOME, SCRIPT_DIR, OS:
		return true
	}
	return false
}
