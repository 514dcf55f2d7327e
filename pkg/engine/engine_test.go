package engine

import (
	"strings"
	"testing"
)

func TestEvaluateEmptySource(t *testing.T) {
	s, evalErrs, err := NewEngine().Evaluate("")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("nil session for empty source")
	}
	if s.Mesh != nil {
		t.Error("empty source produced a mesh")
	}
}

func TestEvaluateParseError(t *testing.T) {
	s, evalErrs, err := NewEngine().Evaluate("(plane 1 1")
	if err != nil {
		t.Fatalf("Evaluate fatal: %v", err)
	}
	if s != nil {
		t.Error("session returned despite parse error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("no eval errors for unbalanced source")
	}
}

func TestEvaluateRuntimeError(t *testing.T) {
	s, evalErrs, err := NewEngine().Evaluate("(inset 0.5)")
	if err != nil {
		t.Fatalf("Evaluate fatal: %v", err)
	}
	if s != nil {
		t.Error("session returned despite runtime error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("no eval errors for inset without a mesh")
	}
	if !strings.Contains(evalErrs[0].Message, "no mesh") {
		t.Errorf("error message = %q, want mention of missing mesh", evalErrs[0].Message)
	}
}

func TestEvaluateSessionsAreIndependent(t *testing.T) {
	e := NewEngine()
	s1, _, err := e.Evaluate("(plane 2 2 1.0)")
	if err != nil || s1 == nil || s1.Mesh == nil {
		t.Fatalf("first evaluation: session=%v err=%v", s1, err)
	}
	s2, _, err := e.Evaluate("")
	if err != nil || s2 == nil {
		t.Fatalf("second evaluation: session=%v err=%v", s2, err)
	}
	if s2.Mesh != nil {
		t.Error("mesh leaked from a previous evaluation's session")
	}
}

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"kebab call", "(select-faces 0)", "(select_faces 0)"},
		{"minus stays", "(- 5 3)", "(- 5 3)"},
		{"infix minus stays", "(fill_hole (- n 1))", "(fill_hole (- n 1))"},
		{"comment converted", "; note\n(plane 1 1 1.0)", "// note\n(plane 1 1 1.0)"},
		{"double semicolon", ";; note", "// note"},
		{"string preserved", `(print "a-b;c")`, `(print "a-b;c")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.in); got != tt.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
	}{
		{"on line form", "Error on line 3: unexpected token", 3},
		{"short form", "line 12: bad call", 12},
		{"no line info", "something broke", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseZygomysError(errFromString(tt.msg))
			if len(got) != 1 {
				t.Fatalf("got %d errors, want 1", len(got))
			}
			if got[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", got[0].Line, tt.wantLine)
			}
		})
	}
}

type stringError string

func (e stringError) Error() string { return string(e) }

func errFromString(s string) error { return stringError(s) }
