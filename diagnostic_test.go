package virtolang

import "testing"

// These exercise the full pipeline (lex -> parse -> eval) producing a
// *VirtoError whose Diagnostic() is what the CLI actually prints, as
// opposed to errors_test.go's hand-built VirtoError unit tests.

func runExpectError(t *testing.T, src string) *VirtoError {
	t.Helper()
	ip := NewInterpreter()
	_, err := ip.Run(src, "test.vlang")
	if err == nil {
		t.Fatalf("expected an error running %q", src)
	}
	ve, ok := err.(*VirtoError)
	if !ok {
		t.Fatalf("expected *VirtoError, got %T: %v", err, err)
	}
	return ve
}

func TestDiagnostic_NameError(t *testing.T) {
	ve := runExpectError(t, "print(undefined_name)")
	if ve.Kind != KindNameError {
		t.Errorf("expected NameError, got %s", ve.Kind)
	}
	if ve.Span.Line != 1 {
		t.Errorf("expected error on line 1, got %d", ve.Span.Line)
	}
}

func TestDiagnostic_TypeErrorOnBadAdd(t *testing.T) {
	ve := runExpectError(t, `x = "a" + 1`)
	if ve.Kind != KindTypeError {
		t.Errorf("expected TypeError, got %s", ve.Kind)
	}
}

func TestDiagnostic_UserRaisedErrorUncaught(t *testing.T) {
	ve := runExpectError(t, `raise Error("fail!")`)
	if ve.Kind != KindError {
		t.Errorf("expected Error, got %s", ve.Kind)
	}
	if ve.Msg != "fail!" {
		t.Errorf("expected message 'fail!', got %q", ve.Msg)
	}
}

func TestDiagnostic_CallTraceAccumulates(t *testing.T) {
	src := "def inner() {\n  raise Error(\"boom\")\n}\ndef outer() {\n  inner()\n}\nouter()\n"
	ve := runExpectError(t, src)
	if len(ve.Trace) < 2 {
		t.Errorf("expected at least 2 call-trace frames, got %d: %#v", len(ve.Trace), ve.Trace)
	}
	diag := ve.Diagnostic(src)
	if !containsSub(diag, "boom") {
		t.Errorf("expected diagnostic to mention the raised message, got:\n%s", diag)
	}
}
