// Package parser builds the nlps AST from a token stream by recursive descent.
// There is no error recovery: the first grammar violation aborts the parse.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/neverliie/nlpm/pkg/ast"
	"github.com/neverliie/nlpm/pkg/lexer"
)

// Error is a structural parse error at a token position.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser consumes a token stream produced by the lexer.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New returns a parser over tokens. The stream must end with an EOF token.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource tokenizes and parses source in one step.
func ParseSource(source string) ([]ast.Statement, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	return &Error{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	tok := p.current()
	if tok.Type != t {
		return tok, p.errorf("expected %s, got %s", t, tok.Type)
	}
	return p.advance(), nil
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	cur := p.current().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *Parser) skipNewlines() {
	for p.match(lexer.NEWLINE, lexer.COMMENT) {
		p.advance()
	}
}

// Parse returns the statement list for the whole token stream.
func (p *Parser) Parse() ([]ast.Statement, error) {
	var statements []ast.Statement
	p.skipNewlines()
	for !p.match(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.skipNewlines()
	}
	return statements, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	p.skipNewlines()

	switch p.current().Type {
	case lexer.EOF:
		return nil, nil
	case lexer.COMMENT:
		p.advance()
		return nil, nil
	case lexer.RUN:
		return p.parseRun()
	case lexer.CD:
		return p.parseCd()
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.FN:
		return p.parseFunctionDef()
	case lexer.ON:
		return p.parseOsBlock()
	case lexer.PARALLEL:
		return p.parseParallel()
	case lexer.IDENTIFIER:
		switch p.peek(1).Type {
		case lexer.ASSIGN:
			return p.parseAssignment()
		case lexer.LPAREN:
			return p.parseFunctionCall()
		}
	case lexer.VAR_REF:
		// $NAME = value
		return p.parseVarAssignment()
	}

	return nil, p.errorf("unexpected token: %s", p.current().Literal)
}

// parseRun consumes every token up to the end of the line and re-serializes
// them into one command string. Interpolation is deferred to execution time.
func (p *Parser) parseRun() (ast.Statement, error) {
	p.advance() // run
	p.skipNewlines()

	var parts []string
	for !p.match(lexer.NEWLINE, lexer.EOF, lexer.COMMENT) {
		tok := p.current()

		// Escaped-quote idiom: a lone backslash immediately followed by a
		// string token reassembles into a quote-prefixed fragment.
		if tok.Type == lexer.IDENTIFIER && tok.Literal == `\` && p.peek(1).Type == lexer.STRING {
			p.advance()
			str := p.advance().Literal
			parts = append(parts, rewriteBareVars(`"`+str))
			continue
		}

		switch {
		case tok.Type == lexer.STRING:
			p.advance()
			parts = append(parts, `"`+rewriteBareVars(tok.Literal)+`"`)
		case tok.Type == lexer.NUMBER || tok.Type == lexer.IDENTIFIER:
			p.advance()
			parts = append(parts, tok.Literal)
		case tok.Type == lexer.VAR_REF || tok.IsSpecialVar():
			p.advance()
			parts = append(parts, "${"+tok.Literal+"}")
		case tok.Type == lexer.ARG_PREFIX:
			p.advance()
			parts = append(parts, "${"+tok.Literal+"}")
		default:
			p.advance()
			parts = append(parts, tok.Literal)
		}
	}

	command := strings.Join(parts, " ")
	return &ast.RunCommand{Command: ast.NewStringLiteral(command)}, nil
}

func (p *Parser) parseCd() (ast.Statement, error) {
	p.advance() // cd
	p.skipNewlines()
	path, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.CdCommand{Path: path}, nil
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	name := p.advance().Literal
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: name, Value: value}, nil
}

func (p *Parser) parseVarAssignment() (ast.Statement, error) {
	name := p.advance().Literal
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: name, Value: value}, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseComparison()
}

// parseComparison handles the single comparison level; comparisons do not
// chain.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.GT, lexer.LT, lexer.EQ) {
		op := p.advance().Literal
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Left: left, Operator: op, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()

	switch {
	case tok.Type == lexer.STRING:
		p.advance()
		return ast.NewStringLiteral(tok.Literal), nil

	case tok.Type == lexer.NUMBER:
		p.advance()
		val, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf("invalid number literal: %s", tok.Literal)
		}
		return &ast.NumberLiteral{Value: val, IsInt: !strings.Contains(tok.Literal, ".")}, nil

	case tok.Type == lexer.BOOL:
		p.advance()
		return &ast.BoolLiteral{Value: tok.Literal == "true"}, nil

	case tok.Type == lexer.VAR_REF:
		p.advance()
		return &ast.VariableRef{Name: tok.Literal}, nil

	case tok.IsSpecialVar():
		p.advance()
		return &ast.SpecialVarRef{Name: tok.Literal}, nil

	case tok.Type == lexer.ARG_PREFIX:
		p.advance()
		switch tok.Literal {
		case "@":
			return &ast.ArgRef{Kind: ast.ArgAll}, nil
		case "#":
			return &ast.ArgRef{Kind: ast.ArgCount}, nil
		}
		index, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid argument reference: $%s", tok.Literal)
		}
		return &ast.ArgRef{Kind: ast.ArgPositional, Index: index}, nil

	case tok.Type == lexer.LBRACKET:
		return p.parseArray()

	case tok.Type == lexer.IDENTIFIER:
		if p.peek(1).Type == lexer.LPAREN {
			call, err := p.parseFunctionCall()
			if err != nil {
				return nil, err
			}
			return call.(*ast.FunctionCall), nil
		}
		p.advance()
		return &ast.VariableRef{Name: tok.Literal}, nil
	}

	return nil, p.errorf("unexpected token in expression: %s", tok.Type)
}

// parseArray accepts comma- or comment-separated elements.
func (p *Parser) parseArray() (ast.Expression, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}

	arr := &ast.ArrayLiteral{}
	for !p.match(lexer.RBRACKET, lexer.EOF) {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)

		switch {
		case p.match(lexer.COMMA), p.match(lexer.COMMENT):
			p.advance()
		case p.match(lexer.RBRACKET):
		default:
			return nil, p.errorf("expected comma or closing bracket in array")
		}
	}

	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	p.advance() // if
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Condition: condition, Then: thenBlock}
	if p.match(lexer.ELSE) {
		p.advance()
		if _, err := p.expect(lexer.LBRACE); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	return stmt, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	p.advance() // for

	if !p.match(lexer.VAR_REF) {
		return nil, p.errorf("expected $variable after 'for'")
	}
	varName := p.advance().Literal

	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.ForLoop{Var: varName, Iterable: iterable, Body: body}, nil
}

// parseFunctionDef parses fn name(params) { body }. Parameters may be bare or
// $-prefixed; both normalize to bare names. Redefinition silently overwrites
// at execution time.
func (p *Parser) parseFunctionDef() (ast.Statement, error) {
	p.advance() // fn

	if !p.match(lexer.IDENTIFIER) {
		return nil, p.errorf("expected function name after 'fn'")
	}
	name := p.advance().Literal

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var params []string
	for !p.match(lexer.RPAREN, lexer.EOF) {
		switch {
		case p.match(lexer.VAR_REF), p.match(lexer.IDENTIFIER):
			params = append(params, p.advance().Literal)
		case p.match(lexer.COMMA), p.match(lexer.COMMENT):
			p.advance()
			continue
		default:
			return nil, p.errorf("expected parameter name")
		}
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseFunctionCall() (ast.Statement, error) {
	name := p.advance().Literal
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	call := &ast.FunctionCall{Name: name}
	for !p.match(lexer.RPAREN, lexer.EOF) {
		if p.match(lexer.COMMA) || p.match(lexer.COMMENT) {
			p.advance()
			continue
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

// parseOsBlock parses on (windows|unix) { body }. Any other host tag is a
// parse error; gating against the running host happens at execution time.
func (p *Parser) parseOsBlock() (ast.Statement, error) {
	p.advance() // on

	if !p.match(lexer.IDENTIFIER) {
		return nil, p.errorf("expected 'windows' or 'unix' after 'on'")
	}
	host := p.advance().Literal
	if host != "windows" && host != "unix" {
		return nil, p.errorf("expected 'windows' or 'unix', got '%s'", host)
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.OsBlock{Host: host, Body: body}, nil
}

func (p *Parser) parseParallel() (ast.Statement, error) {
	p.advance() // parallel
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ParallelBlock{Body: body}, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	var statements []ast.Statement
	p.skipNewlines()

	for !p.match(lexer.RBRACE, lexer.EOF) {
		if p.match(lexer.COMMENT) {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.skipNewlines()
	}
	return statements, nil
}

var bareVarPattern = regexp.MustCompile(`\$(\w+|@|#)`)

// rewriteBareVars converts bare $VAR occurrences inside run strings to ${VAR}
// form so they participate in execution-time interpolation. Occurrences that
// are already braced cannot match because '{' never begins a name.
func rewriteBareVars(text string) string {
	return bareVarPattern.ReplaceAllStringFunc(text, func(m string) string {
		return "${" + m[1:] + "}"
	})
}
