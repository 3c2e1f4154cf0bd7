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

package parser_test

import (
	"testing"

	"github.com/talonlang/talon/ast"
	"github.com/talonlang/talon/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestParseArithmetic(t *testing.T) {
	prog := mustParse(t, `fn main() { set x = 2; set y = 3; set z = x + y; print z; }`)
	if len(prog.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(prog.Functions))
	}
	main := prog.Functions[0]
	if main.Name != "main" || len(main.Params) != 0 {
		t.Fatalf("unexpected function header: %+v", main)
	}
	if len(main.Body) != 4 {
		t.Fatalf("got %d statements, want 4", len(main.Body))
	}
	if _, ok := main.Body[3].(*ast.Print); !ok {
		t.Fatalf("last statement is %T, want *ast.Print", main.Body[3])
	}
}

func TestParseCountdownLoop(t *testing.T) {
	prog := mustParse(t, `fn main() {
		set i = 3;
		while i > 0 {
			print i;
			set i = i - 1;
		}
	}`)
	body := prog.Functions[0].Body
	if len(body) != 2 {
		t.Fatalf("got %d statements, want 2", len(body))
	}
	wl, ok := body[1].(*ast.WhileLoop)
	if !ok {
		t.Fatalf("second statement is %T, want *ast.WhileLoop", body[1])
	}
	if wl.Condition.Op != ast.GT {
		t.Fatalf("condition op = %v, want GT", wl.Condition.Op)
	}
	if len(wl.Body) != 2 {
		t.Fatalf("loop body has %d statements, want 2", len(wl.Body))
	}
}

func TestParseCallAndReturn(t *testing.T) {
	prog := mustParse(t, `fn add(a b) { return a + b; } fn main() { set r = add(4 5); print r; }`)
	if len(prog.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(prog.Functions))
	}
	add := prog.Functions[0]
	if len(add.Params) != 2 || add.Params[0] != "a" || add.Params[1] != "b" {
		t.Fatalf("unexpected params: %v", add.Params)
	}
	ret, ok := add.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.Return", add.Body[0])
	}
	if _, ok := ret.Value.(*ast.Operation); !ok {
		t.Fatalf("return value is %T, want *ast.Operation", ret.Value)
	}

	main := prog.Functions[1]
	assign, ok := main.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.Assignment", main.Body[0])
	}
	call, ok := assign.RHS.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("assignment rhs is %T, want *ast.FunctionCall", assign.RHS)
	}
	if call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("unexpected call: %+v", call)
	}
}

func TestParseBareReturn(t *testing.T) {
	prog := mustParse(t, `fn f() { return; }`)
	ret := prog.Functions[0].Body[0].(*ast.Return)
	lit, ok := ret.Value.(*ast.Literal)
	if !ok || lit.Value != 0 {
		t.Fatalf("bare return value = %#v, want Literal(0)", ret.Value)
	}
}

func TestParseMemoryIO(t *testing.T) {
	prog := mustParse(t, `fn main() { print $PositionX; }`)
	p := prog.Functions[0].Body[0].(*ast.Print)
	mv, ok := p.Value.(*ast.MemoryValue)
	if !ok || mv.Name != "$PositionX" {
		t.Fatalf("print value = %#v, want MemoryValue($PositionX)", p.Value)
	}
}

func TestParseUnexpectedTokenReportsLocation(t *testing.T) {
	_, err := parser.Parse(`fn main() { set = 1; }`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("error type = %T, want *parser.Error", err)
	}
	if perr.Pos.Line != 1 {
		t.Fatalf("error line = %d, want 1", perr.Pos.Line)
	}
}
