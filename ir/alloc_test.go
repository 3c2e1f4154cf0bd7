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

package ir_test

import (
	"strings"
	"testing"

	"github.com/talonlang/talon/ast"
	"github.com/talonlang/talon/ir"
	"github.com/talonlang/talon/parser"
	"github.com/talonlang/talon/token"
)

func allocate(t *testing.T, src string) *ir.Program {
	t.Helper()
	astProg, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	irProg, err := ir.Generate(astProg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return ir.Allocate(irProg, astProg)
}

func TestAllocateNoIdentifiersSurvive(t *testing.T) {
	prog := allocate(t, `fn add(a b) { return a + b; } fn main() { set r = add(4 5); print r; }`)
	for _, ins := range prog.Flatten() {
		for _, o := range ins.Operands {
			if o.Kind == ir.Identifier {
				t.Fatalf("unresolved frame variable %q survived allocation in %q", o.Name, ins.String())
			}
		}
	}
}

func TestAllocateParametersGetNegativeSlots(t *testing.T) {
	prog := allocate(t, `fn add(a b) { return a + b; }`)
	add := prog.Functions[1]
	text := flattenedText(&ir.Program{Functions: []*ir.Function{add}})
	if !strings.Contains(text, "[SBP - 2]") || !strings.Contains(text, "[SBP - 3]") {
		t.Fatalf("expected params at SBP-2 and SBP-3, got:\n%s", text)
	}
}

func TestAllocateLocalsGetPositiveSlots(t *testing.T) {
	prog := allocate(t, `fn main() { set x = 1; set y = 2; print x; print y; }`)
	main := prog.Functions[1]
	text := flattenedText(&ir.Program{Functions: []*ir.Function{main}})
	if !strings.Contains(text, "[SBP + 1]") {
		t.Fatalf("expected at least one local at SBP+1, got:\n%s", text)
	}
}

func TestAllocateArithmeticDestinationIsRegister(t *testing.T) {
	prog := allocate(t, `fn main() { set x = 2; set y = 3; set z = x + y; print z; }`)
	main := prog.Functions[1]
	for _, ins := range main.Instrs {
		if ins.IsLabel || ins.IsComment {
			continue
		}
		switch ins.Op {
		case "add", "sub", "mul", "div", "mod":
			if ins.Operands[0].Kind != ir.Register {
				t.Fatalf("arithmetic dst must be a register, got %s", ins.String())
			}
		}
	}
}

// Indexed-memory reads (IDENT '[' primary ']' used as an rvalue) have no
// surface syntax in the grammar — lvalue is the only production that
// builds a MemoryOffset node. Exercise the generator/allocator's handling
// of one directly on a hand-built AST, the way sema_test.go exercises
// InvalidOperation.
func TestAllocateMemoryOffsetMaterializesTwoRegisters(t *testing.T) {
	pos := token.Pos{Line: 1, Column: 1}
	prog := &ast.Program{Functions: []*ast.Function{{
		Name: "main",
		Body: []ast.Node{
			ast.NewAssignment(pos, ast.NewIdentifier(pos, "v"),
				ast.NewMemoryOffset(pos, ast.NewIdentifier(pos, "arr"), ast.NewIdentifier(pos, "i"))),
			ast.NewPrint(pos, ast.NewIdentifier(pos, "v")),
		},
	}}}
	irProg, err := ir.Generate(prog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	allocated := ir.Allocate(irProg, prog)
	main := allocated.Functions[1]
	found := false
	for _, ins := range main.Instrs {
		if ins.Op == "load" {
			for _, o := range ins.Operands {
				if o.Kind == ir.MemoryOffset {
					if o.Base.Kind != ir.Register || o.Offset.Kind != ir.Register {
						t.Fatalf("MemoryOffset must resolve to two registers, got %s", ins.String())
					}
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected an indexed-memory load, got:\n%s", flattenedText(allocated))
	}
}
