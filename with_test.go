package virtolang

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestWith_ClosesResourceOnNormalExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	ip := NewInterpreter()
	src := `with (open("` + path + `", "w") as f) {
  x = 1
}`
	if _, err := ip.Run(src, "test.vlang"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := ip.Global.Get("f")
	if !ok || v.Tag != VFile {
		t.Fatalf("expected f to be bound to a file handle, got %#v, ok=%v", v, ok)
	}
	if !v.Data.(*FileHandle).Closed {
		t.Error("expected the file handle to be closed after the with block exits")
	}
}

func TestWith_ClosesResourceWhenBodyRaises(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.Stdout = &buf
	src := `try {
  with (open("` + path + `", "w") as f) {
    raise Error("boom")
  }
} except Error as e {
  print(e)
}`
	if _, err := ip.Run(src, "test.vlang"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "boom\n" {
		t.Errorf("got %q, want %q", buf.String(), "boom\n")
	}
	v, ok := ip.Global.Get("f")
	if !ok || v.Tag != VFile {
		t.Fatalf("expected f to be bound to a file handle, got %#v, ok=%v", v, ok)
	}
	if !v.Data.(*FileHandle).Closed {
		t.Error("expected the file handle to be closed even though the body raised")
	}
}

func TestParser_WithStmt(t *testing.T) {
	stmts := mustParse(t, `with (open("x.txt") as f) { y = 1 }`)
	ws, ok := stmts[0].(*WithStmt)
	if !ok {
		t.Fatalf("expected *WithStmt, got %T", stmts[0])
	}
	if ws.Var != "f" {
		t.Errorf("expected bound name %q, got %q", "f", ws.Var)
	}
	if len(ws.Body) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(ws.Body))
	}
}
