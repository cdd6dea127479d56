// Package lexer converts nlps source text into a flat token stream.
//
// Horizontal whitespace is insignificant; newlines and comments are significant
// tokens because they separate statements. The first lexical error aborts
// tokenization.
package lexer

import (
	"fmt"
	"unicode"
)

// Error is a lexical error with its source position.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

var keywords = map[string]TokenType{
	"run":      RUN,
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"in":       IN,
	"fn":       FN,
	"cd":       CD,
	"on":       ON,
	"parallel": PARALLEL,
	"true":     BOOL,
	"false":    BOOL,
}

var specialVars = map[string]TokenType{
	"CWD":        CWD,
	"HOME":       HOME,
	"NLPM_HOME":  NLPM_HOME,
	"SCRIPT_DIR": SCRIPT_DIR,
	"OS":         OS,
}

// Lexer walks source text rune by rune, tracking line and column.
type Lexer struct {
	source []rune
	pos    int
	line   int
	column int
	tokens []Token
}

// New returns a lexer over the given source.
func New(source string) *Lexer {
	return &Lexer{source: []rune(source), line: 1, column: 1}
}

// Tokenize lexes the whole source and returns the token stream, ending with an
// EOF token. The first unrecognized character or unterminated string aborts
// with an *Error.
func Tokenize(source string) ([]Token, error) {
	return New(source).Tokenize()
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &Error{Line: l.line, Column: l.column, Message: fmt.Sprintf(format, args...)}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.source) {
		return 0
	}
	return l.source[pos]
}

func (l *Lexer) advance() rune {
	ch := l.peek()
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readString() (string, error) {
	quote := l.advance()
	var out []rune
	for l.peek() != quote && l.peek() != 0 {
		out = append(out, l.advance())
	}
	if l.peek() != quote {
		return "", l.errorf("unterminated string literal")
	}
	l.advance()
	return string(out), nil
}

func (l *Lexer) readNumber() string {
	var out []rune
	for isDigit(l.peek()) {
		out = append(out, l.advance())
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		out = append(out, l.advance())
		for isDigit(l.peek()) {
			out = append(out, l.advance())
		}
	}
	return string(out)
}

// readIdentifier accepts letters, digits, underscore, dot, hyphen and forward
// slash so bare paths and hyphenated names lex as single tokens.
func (l *Lexer) readIdentifier() string {
	var out []rune
	for isIdentRune(l.peek()) {
		out = append(out, l.advance())
	}
	return string(out)
}

func (l *Lexer) readComment() string {
	var out []rune
	for l.peek() != '\n' && l.peek() != 0 {
		out = append(out, l.advance())
	}
	return string(out)
}

func (l *Lexer) emit(t TokenType, literal string, line, column int) {
	l.tokens = append(l.tokens, Token{Type: t, Literal: literal, Line: line, Column: column})
}

// Tokenize implements the scanning loop.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()

		ch := l.peek()
		line, column := l.line, l.column

		switch {
		case ch == 0:
			l.emit(EOF, "", line, column)
			return l.tokens, nil

		case ch == '\n':
			l.advance()
			l.emit(NEWLINE, "\n", line, column)

		case ch == '#':
			l.emit(COMMENT, l.readComment(), line, column)

		case ch == '"' || ch == '\'':
			str, err := l.readString()
			if err != nil {
				return nil, err
			}
			l.emit(STRING, str, line, column)

		case isDigit(ch):
			l.emit(NUMBER, l.readNumber(), line, column)

		case ch == '$':
			l.advance()
			if err := l.lexDollar(line, column); err != nil {
				return nil, err
			}

		case unicode.IsLetter(ch) || ch == '_' || ch == '.' ||
			(ch == '-' && (isAlnum(l.peekAt(1)) || l.peekAt(1) == '-')):
			ident := l.readIdentifier()
			if keyword, ok := keywords[ident]; ok {
				l.emit(keyword, ident, line, column)
			} else {
				l.emit(IDENTIFIER, ident, line, column)
			}

		case ch == '{':
			l.advance()
			l.emit(LBRACE, "{", line, column)
		case ch == '}':
			l.advance()
			l.emit(RBRACE, "}", line, column)
		case ch == '(':
			l.advance()
			l.emit(LPAREN, "(", line, column)
		case ch == ')':
			l.advance()
			l.emit(RPAREN, ")", line, column)
		case ch == '[':
			l.advance()
			l.emit(LBRACKET, "[", line, column)
		case ch == ']':
			l.advance()
			l.emit(RBRACKET, "]", line, column)
		case ch == ',':
			l.advance()
			l.emit(COMMA, ",", line, column)

		case ch == '=':
			l.advance()
			if l.peek() == '=' {
				l.advance()
				l.emit(EQ, "==", line, column)
			} else {
				l.emit(ASSIGN, "=", line, column)
			}
		case ch == '>':
			l.advance()
			l.emit(GT, ">", line, column)
		case ch == '<':
			l.advance()
			l.emit(LT, "<", line, column)

		case ch == '\\':
			// Lone backslash; the parser pairs it with a following string to
			// form the escaped-quote idiom inside run lines.
			l.advance()
			l.emit(IDENTIFIER, `\`, line, column)

		default:
			return nil, l.errorf("unexpected character: %c", ch)
		}
	}
}

// lexDollar handles everything introduced by the $ sigil: positional argument
// references, $@ and $#, the five special variables, generic variable
// references, and the ${ interpolation marker.
func (l *Lexer) lexDollar(line, column int) error {
	switch {
	case isDigit(l.peek()):
		l.emit(ARG_PREFIX, l.readNumber(), line, column)
	case l.peek() == '@':
		l.advance()
		l.emit(ARG_PREFIX, "@", line, column)
	case l.peek() == '#':
		l.advance()
		l.emit(ARG_PREFIX, "#", line, column)
	case unicode.IsLetter(l.peek()):
		name := l.readIdentifier()
		if special, ok := specialVars[name]; ok {
			l.emit(special, name, line, column)
		} else {
			l.emit(VAR_REF, name, line, column)
		}
	case l.peek() == '{':
		l.advance()
		l.emit(STRING_INTERP_START, "${", line, column)
	default:
		return l.errorf("unexpected character after $")
	}
	return nil
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isIdentRune(ch rune) bool {
	return isAlnum(ch) || ch == '_' || ch == '.' || ch == '/' || ch == '-'
}
