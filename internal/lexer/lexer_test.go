package lexer

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenize_KeywordsAndIdents(t *testing.T) {
	tokens, err := New("sprite Cat\nvar score").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{KEYWORD, IDENT, NEWLINE, KEYWORD, IDENT, EOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if tokens[1].Literal != "Cat" {
		t.Fatalf("identifier case not preserved: %q", tokens[1].Literal)
	}
}

func TestTokenize_PressedTailQuestionMark(t *testing.T) {
	tokens, err := New("pressed?").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Type != IDENT || tokens[0].Literal != "pressed?" {
		t.Fatalf("got %+v, want IDENT pressed?", tokens[0])
	}
}

func TestTokenize_NumbersAndStrings(t *testing.T) {
	tokens, err := New(`move (3.5) say ("hi\nthere")`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var numbers, strings []string
	for _, tok := range tokens {
		if tok.Type == NUMBER {
			numbers = append(numbers, tok.Literal)
		}
		if tok.Type == STRING {
			strings = append(strings, tok.Literal)
		}
	}
	if len(numbers) != 1 || numbers[0] != "3.5" {
		t.Fatalf("numbers = %v", numbers)
	}
	if len(strings) != 1 || strings[0] != "hi\nthere" {
		t.Fatalf("strings = %v", strings)
	}
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := New("<= >= == != < > = +").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"<=", ">=", "==", "!=", "<", ">", "=", "+"}
	for i, lit := range want {
		if tokens[i].Literal != lit {
			t.Fatalf("operator %d: got %q, want %q", i, tokens[i].Literal, lit)
		}
	}
}

func TestTokenize_CommentSkippedNewlineKept(t *testing.T) {
	tokens, err := New("# a comment\nsprite A").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Type != NEWLINE || tokens[1].Type != KEYWORD {
		t.Fatalf("got %v", tokenTypes(tokens))
	}
}

func TestTokenize_UnterminatedStringIsError(t *testing.T) {
	_, err := New(`say ("oops`).Tokenize()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestTokenize_RawNewlineInStringIsError(t *testing.T) {
	_, err := New("\"a\nb\"").Tokenize()
	if err == nil {
		t.Fatal("expected error for raw newline inside string")
	}
}

func TestTokenize_IllegalCharacter(t *testing.T) {
	_, err := New("@").Tokenize()
	if err == nil {
		t.Fatal("expected error for illegal character")
	}
}

func TestTokenize_BOMStripped(t *testing.T) {
	tokens, err := New("\xef\xbb\xbfsprite A").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Type != KEYWORD || tokens[0].Pos.Column != 1 {
		t.Fatalf("BOM not stripped cleanly: %+v", tokens[0])
	}
}
