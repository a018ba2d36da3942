package virtolang

import (
	"bytes"
	"testing"
)

// These mirror the end-to-end scenarios in the documented testable
// properties: full source in, exact stdout out.

func TestScenario_DivisionYieldsFloat(t *testing.T) {
	out, err := runCapture(t, "print(6 / 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3.0\n" {
		t.Errorf("got %q, want %q", out, "3.0\n")
	}
}

func TestScenario_FunctionCallAndReturn(t *testing.T) {
	out, err := runCapture(t, `
def add(a,b){ return a+b }
print(add(2,3))
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5\n" {
		t.Errorf("got %q, want %q", out, "5\n")
	}
}

func TestScenario_FizzBuzz(t *testing.T) {
	src := `
for (i in range(1,16)) {
  if (i % 15 == 0) { print("FizzBuzz") }
  elif (i % 3 == 0) { print("Fizz") }
  elif (i % 5 == 0) { print("Buzz") }
  else { print(i) }
}
`
	out, err := runCapture(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1\n2\nFizz\n4\nBuzz\nFizz\n7\n8\nFizz\nBuzz\n11\nFizz\n13\n14\nFizzBuzz\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestScenario_TryExceptFinally(t *testing.T) {
	src := `try { raise Error("fail!") } except Error as e { print(e) } finally { print("done") }`
	out, err := runCapture(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "fail!\ndone\n" {
		t.Errorf("got %q, want %q", out, "fail!\ndone\n")
	}
}

func TestScenario_AsyncAwait(t *testing.T) {
	src := `
async def f(){ await sleep(0); return 42 }
t = f(); print(await t)
`
	out, err := runCapture(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n" {
		t.Errorf("got %q, want %q", out, "42\n")
	}
}

func TestScenario_IsNotOperator(t *testing.T) {
	out, err := runCapture(t, `if (5 is not 3) { print("yes") }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "yes\n" {
		t.Errorf("got %q, want %q", out, "yes\n")
	}
}

func TestScenario_IsNotMissingOperandHint(t *testing.T) {
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.Stdout = &buf
	_, err := ip.Run(`if (5 is not) { print("unreachable") }`, "test.vlang")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	ve, ok := err.(*VirtoError)
	if !ok {
		t.Fatalf("expected *VirtoError, got %T: %v", err, err)
	}
	if ve.Kind != KindSyntaxError {
		t.Errorf("expected SyntaxError, got %s", ve.Kind)
	}
	if !containsSub(ve.Hint, "Did you mean 'not in' or 'is not'?") {
		t.Errorf("expected hint about 'not in'/'is not', got %q", ve.Hint)
	}
}
