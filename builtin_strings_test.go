package virtolang

import "testing"

func TestBuiltin_UpperLowerTitle(t *testing.T) {
	out, err := runCapture(t, `
print(upper("hello"))
print(lower("HELLO"))
print(title("hello world"))
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "HELLO\nhello\nHello World\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBuiltin_Strip(t *testing.T) {
	out, err := runCapture(t, `print(strip("  spaced out  "))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "spaced out\n" {
		t.Errorf("got %q, want %q", out, "spaced out\n")
	}
}

func TestBuiltin_SplitDefaultWhitespace(t *testing.T) {
	out, err := runCapture(t, `print(split("a b  c"))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `["a", "b", "c"]` + "\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBuiltin_SplitWithSeparator(t *testing.T) {
	out, err := runCapture(t, `print(split("a,b,c", ","))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `["a", "b", "c"]` + "\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBuiltin_Join(t *testing.T) {
	out, err := runCapture(t, `print(join("-", ["a","b","c"]))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a-b-c\n" {
		t.Errorf("got %q, want %q", out, "a-b-c\n")
	}
}

func TestBuiltin_Replace(t *testing.T) {
	out, err := runCapture(t, `print(replace("foo bar foo", "foo", "baz"))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "baz bar baz\n" {
		t.Errorf("got %q, want %q", out, "baz bar baz\n")
	}
}

func TestBuiltin_JoinRejectsNonStringList(t *testing.T) {
	ve := runExpectError(t, `join("-", [1,2,3])`)
	if ve.Kind != KindTypeError {
		t.Errorf("expected TypeError, got %s", ve.Kind)
	}
}

func TestBuiltin_UpperRejectsNonString(t *testing.T) {
	ve := runExpectError(t, `upper(5)`)
	if ve.Kind != KindTypeError {
		t.Errorf("expected TypeError, got %s", ve.Kind)
	}
}
