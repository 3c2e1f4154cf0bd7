// This file is part of talon - https://github.com/talonlang/talon
//
// Copyright 2026 The talon authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sema_test

import (
	"testing"

	"github.com/talonlang/talon/ast"
	"github.com/talonlang/talon/parser"
	"github.com/talonlang/talon/sema"
	"github.com/talonlang/talon/token"
)

func analyze(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return sema.Analyze(prog)
}

func TestAnalyzeValidProgram(t *testing.T) {
	if err := analyze(t, `fn add(a b) { return a + b; } fn main() { set r = add(4 5); print r; }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeUnknownVariable(t *testing.T) {
	err := analyze(t, `fn main() { print x; }`)
	if err == nil {
		t.Fatal("expected an UnknownVariable error")
	}
	serr, ok := err.(*sema.Error)
	if !ok || serr.Kind != sema.UnknownVariable || serr.Name != "x" {
		t.Fatalf("got %#v, want UnknownVariable(x)", err)
	}
}

func TestAnalyzeAssignmentIntroducesVariable(t *testing.T) {
	if err := analyze(t, `fn main() { set x = 1; print x; }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeLiteralAssignmentTargetIsInvalid(t *testing.T) {
	// The parser only accepts an lvalue syntactically (identifier, memory
	// value, or indexed memory), so InvalidOperation is exercised by
	// building the offending AST directly.
	pos := token.Pos{Line: 1, Column: 1}
	prog := &ast.Program{Functions: []*ast.Function{{
		Name: "main",
		Body: []ast.Node{ast.NewAssignment(pos, ast.NewLiteral(pos, 1), ast.NewLiteral(pos, 2))},
	}}}
	err := sema.Analyze(prog)
	if err == nil {
		t.Fatal("expected an InvalidOperation error")
	}
	serr, ok := err.(*sema.Error)
	if !ok || serr.Kind != sema.InvalidOperation {
		t.Fatalf("got %#v, want InvalidOperation", err)
	}
}

func TestAnalyzeNestedScopeDoesNotEscape(t *testing.T) {
	err := analyze(t, `fn main() {
		if 1 == 1 {
			set x = 1;
		}
		print x;
	}`)
	if err == nil {
		t.Fatal("expected x to be out of scope outside the if block")
	}
}

func TestAnalyzeMemoryValuesNeedNoIntroduction(t *testing.T) {
	if err := analyze(t, `fn main() { print $PositionX; }`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeCountdownLoop(t *testing.T) {
	err := analyze(t, `fn main() {
		set i = 3;
		while i > 0 {
			print i;
			set i = i - 1;
		}
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
