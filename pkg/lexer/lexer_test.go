package lexer

import (
	"errors"
	"testing"
)

func mustTokenize(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", source, err)
	}
	return tokens
}

func checkTypes(t *testing.T, tokens []Token, want ...TokenType) {
	t.Helper()
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %#v", len(tokens), len(want), tokens)
	}
	for i, tok := range tokens {
		if tok.Type != want[i] {
			t.Fatalf("token %d = %s (%q), want %s", i, tok.Type, tok.Literal, want[i])
		}
	}
}

func TestTokenizeAssignment(t *testing.T) {
	tokens := mustTokenize(t, `$name = "world"`)
	checkTypes(t, tokens, VAR_REF, ASSIGN, STRING, EOF)
	if tokens[0].Literal != "name" {
		t.Fatalf("VAR_REF literal = %q, want name", tokens[0].Literal)
	}
	if tokens[2].Literal != "world" {
		t.Fatalf("STRING literal = %q, want world", tokens[2].Literal)
	}
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	tokens := mustTokenize(t, "run if else for in fn cd on parallel build-all")
	checkTypes(t, tokens, RUN, IF, ELSE, FOR, IN, FN, CD, ON, PARALLEL, IDENTIFIER, EOF)
	if tokens[9].Literal != "build-all" {
		t.Fatalf("hyphenated identifier = %q, want build-all", tokens[9].Literal)
	}
}

func TestTokenizeBooleans(t *testing.T) {
	tokens := mustTokenize(t, "true false")
	checkTypes(t, tokens, BOOL, BOOL, EOF)
	if tokens[0].Literal != "true" || tokens[1].Literal != "false" {
		t.Fatalf("bool literals = %q, %q", tokens[0].Literal, tokens[1].Literal)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := mustTokenize(t, "42 3.14")
	checkTypes(t, tokens, NUMBER, NUMBER, EOF)
	if tokens[0].Literal != "42" || tokens[1].Literal != "3.14" {
		t.Fatalf("number literals = %q, %q", tokens[0].Literal, tokens[1].Literal)
	}
}

func TestTokenizeDollarForms(t *testing.T) {
	tokens := mustTokenize(t, "$1 $@ $# $CWD $HOME $NLPM_HOME $SCRIPT_DIR $OS $custom")
	checkTypes(t, tokens,
		ARG_PREFIX, ARG_PREFIX, ARG_PREFIX,
		CWD, HOME, NLPM_HOME, SCRIPT_DIR, OS,
		VAR_REF, EOF)
	if tokens[0].Literal != "1" || tokens[1].Literal != "@" || tokens[2].Literal != "#" {
		t.Fatalf("arg literals = %q %q %q", tokens[0].Literal, tokens[1].Literal, tokens[2].Literal)
	}
	if tokens[8].Literal != "custom" {
		t.Fatalf("VAR_REF literal = %q, want custom", tokens[8].Literal)
	}
}

func TestTokenizeInterpMarker(t *testing.T) {
	tokens := mustTokenize(t, "${")
	checkTypes(t, tokens, STRING_INTERP_START, EOF)
}

func TestTokenizeSingleAndDoubleQuotes(t *testing.T) {
	tokens := mustTokenize(t, `'single' "double"`)
	checkTypes(t, tokens, STRING, STRING, EOF)
	if tokens[0].Literal != "single" || tokens[1].Literal != "double" {
		t.Fatalf("string literals = %q, %q", tokens[0].Literal, tokens[1].Literal)
	}
}

func TestTokenizeNoEscapesInStrings(t *testing.T) {
	tokens := mustTokenize(t, `"a\nb"`)
	checkTypes(t, tokens, STRING, EOF)
	if tokens[0].Literal != `a\nb` {
		t.Fatalf("string literal = %q, want raw backslash-n preserved", tokens[0].Literal)
	}
}

func TestTokenizeCommentRunsToEndOfLine(t *testing.T) {
	tokens := mustTokenize(t, "# a comment\nrun echo")
	checkTypes(t, tokens, COMMENT, NEWLINE, RUN, IDENTIFIER, EOF)
	if tokens[0].Literal != "# a comment" {
		t.Fatalf("comment literal = %q", tokens[0].Literal)
	}
}

func TestTokenizeOperatorsAndDelimiters(t *testing.T) {
	tokens := mustTokenize(t, "= == > < { } ( ) [ ] ,")
	checkTypes(t, tokens, ASSIGN, EQ, GT, LT, LBRACE, RBRACE, LPAREN, RPAREN,
		LBRACKET, RBRACKET, COMMA, EOF)
}

func TestTokenizePositions(t *testing.T) {
	tokens := mustTokenize(t, "run echo\ncd dir")
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Fatalf("run at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 1 || tokens[1].Column != 5 {
		t.Fatalf("echo at %d:%d, want 1:5", tokens[1].Line, tokens[1].Column)
	}
	// tokens[2] is the newline; cd starts line 2.
	if tokens[3].Line != 2 || tokens[3].Column != 1 {
		t.Fatalf("cd at %d:%d, want 2:1", tokens[3].Line, tokens[3].Column)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"never closed`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if lexErr.Line != 1 {
		t.Fatalf("error line = %d, want 1", lexErr.Line)
	}
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("run echo\n^")
	if err == nil {
		t.Fatal("expected error for unexpected character")
	}
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if lexErr.Line != 2 || lexErr.Column != 1 {
		t.Fatalf("error at %d:%d, want 2:1", lexErr.Line, lexErr.Column)
	}
}

func TestTokenizeLoneBackslash(t *testing.T) {
	tokens := mustTokenize(t, `run \"quoted\"`)
	// The backslash lexes as its own identifier token so the parser can pair
	// it with the following string.
	if tokens[1].Type != IDENTIFIER || tokens[1].Literal != `\` {
		t.Fatalf("token 1 = %s %q, want IDENTIFIER backslash", tokens[1].Type, tokens[1].Literal)
	}
}

func TestTokenizeDotAndSlashIdentifiers(t *testing.T) {
	tokens := mustTokenize(t, "cd ./build/out")
	checkTypes(t, tokens, CD, IDENTIFIER, EOF)
	if tokens[1].Literal != "./build/out" {
		t.Fatalf("path identifier = %q, want ./build/out", tokens[1].Literal)
	}
}
