package formatter

import (
	"strings"
	"testing"
)

func TestFormatter_WriteString(t *testing.T) {
	var sb strings.Builder
	f := New(&sb)

	f.WriteString("@entry").WriteString("(").WriteString(")")
	if got := sb.String(); got != "@entry()" {
		t.Errorf("output = %q, want %q", got, "@entry()")
	}
	if f.Err() != nil {
		t.Errorf("Err() = %v, want nil", f.Err())
	}
}

func TestFormatter_Printf(t *testing.T) {
	var sb strings.Builder
	f := New(&sb)

	f.Printf("@%s", "callflow").Printf("(%s=%d)", "next", 3)
	if got := sb.String(); got != "@callflow(next=3)" {
		t.Errorf("output = %q, want %q", got, "@callflow(next=3)")
	}
}

func TestFormatter_Indentation(t *testing.T) {
	var sb strings.Builder
	f := New(&sb)

	f.WriteString("interface IFoo {").Newline()
	f.Indent()
	f.WriteString("open();").Newline()
	f.WriteString("close();").Newline()
	f.Unindent()
	f.WriteString("};").Newline()

	want := "interface IFoo {\n    open();\n    close();\n};\n"
	if got := sb.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFormatter_EmbeddedNewlines(t *testing.T) {
	var sb strings.Builder
	f := NewWithIndent(&sb, "  ")

	f.Indent()
	f.WriteString("a\nb\nc")

	want := "  a\n  b\n  c"
	if got := sb.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFormatter_Block(t *testing.T) {
	var sb strings.Builder
	f := NewWithIndent(&sb, "\t")

	f.Block("{", "}", func(f *Formatter) {
		f.WriteString("inner").Newline()
	})

	want := "{\n\tinner\n}"
	if got := sb.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFormatter_Join(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{name: "empty", items: nil, want: ""},
		{name: "one", items: []string{"a"}, want: "a"},
		{name: "many", items: []string{"1", "2", "3"}, want: "1, 2, 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			New(&sb).Join(tt.items, ", ")
			if got := sb.String(); got != tt.want {
				t.Errorf("Join(%v) = %q, want %q", tt.items, got, tt.want)
			}
		})
	}
}

func TestFormatter_UnindentFloor(t *testing.T) {
	var sb strings.Builder
	f := New(&sb)

	f.Unindent() // already at depth zero
	f.WriteString("x")
	if got := sb.String(); got != "x" {
		t.Errorf("output = %q, want %q", got, "x")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errFail
}

var errFail = &writeError{}

type writeError struct{}

func (*writeError) Error() string { return "write failed" }

func TestFormatter_ErrSticky(t *testing.T) {
	f := New(failWriter{})

	f.WriteString("x")
	if f.Err() == nil {
		t.Fatal("Err() = nil after failed write")
	}
	// later writes stay no-ops and keep the first error
	f.WriteString("y").Newline()
	if f.Err() == nil || f.Err().Error() != "write failed" {
		t.Errorf("Err() = %v, want sticky write failure", f.Err())
	}
}
