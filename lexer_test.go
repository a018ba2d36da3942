package virtolang

import "testing"

func scanTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	l := NewLexer(src, "test.vlang")
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_Keywords(t *testing.T) {
	types := scanTypes(t, "def async return if elif else while for in is not and or true false null try except finally as raise import await run run_async")
	want := []TokenType{DEF, ASYNC, RETURN, IF, ELIF, ELSE, WHILE, FOR, IN, IS, NOT, AND, OR, TRUE, FALSE, NULL, TRY, EXCEPT, FINALLY, AS, RAISE, IMPORT, AWAIT, RUN, RUN_ASYNC, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(types), len(want), types)
	}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("token %d: got %v, want %v", i, types[i], w)
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	l := NewLexer("42 3.14 0", "test.vlang")
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != INT || toks[0].IVal != 42 {
		t.Errorf("expected INT 42, got %+v", toks[0])
	}
	if toks[1].Type != FLOAT || toks[1].FVal != 3.14 {
		t.Errorf("expected FLOAT 3.14, got %+v", toks[1])
	}
	if toks[2].Type != INT || toks[2].IVal != 0 {
		t.Errorf("expected INT 0, got %+v", toks[2])
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	l := NewLexer(`"hi\n\"there\""`, "test.vlang")
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Type)
	}
	want := "hi\n\"there\""
	if toks[0].SVal != want {
		t.Errorf("got %q, want %q", toks[0].SVal, want)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := NewLexer(`"never closes`, "test.vlang")
	_, err := l.Scan()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	ve, ok := err.(*VirtoError)
	if !ok || ve.Kind != KindSyntaxError {
		t.Errorf("expected SyntaxError, got %v", err)
	}
}

func TestLexer_CommentsAndWhitespace(t *testing.T) {
	types := scanTypes(t, "x = 1 # trailing comment\n/* block\ncomment */y = 2")
	want := []TokenType{IDENT, ASSIGN, INT, NEWLINE, IDENT, ASSIGN, INT, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(types), len(want), types)
	}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("token %d: got %v, want %v", i, types[i], w)
		}
	}
}

func TestLexer_Punctuation(t *testing.T) {
	types := scanTypes(t, "{}()[],.;")
	want := []TokenType{LBRACE, RBRACE, LPAREN, RPAREN, LBRACKET, RBRACKET, COMMA, DOT, SEMI, EOF}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("token %d: got %v, want %v", i, types[i], w)
		}
	}
}

func TestLexer_TwoCharOperators(t *testing.T) {
	types := scanTypes(t, "== != <= >= < > =")
	want := []TokenType{EQ, NEQ, LE, GE, LT, GT, ASSIGN, EOF}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("token %d: got %v, want %v", i, types[i], w)
		}
	}
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	l := NewLexer("x = @", "test.vlang")
	_, err := l.Scan()
	if err == nil {
		t.Fatal("expected error for unexpected character")
	}
}
