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
	"testing"

	"github.com/talonlang/talon/ir"
	"github.com/talonlang/talon/parser"
)

func compileToFinal(t *testing.T, src string) []*ir.Instruction {
	t.Helper()
	astProg, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	irProg, err := ir.Generate(astProg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	allocated := ir.Allocate(irProg, astProg)
	final, err := ir.Resolve(allocated)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return final
}

func TestResolveDropsLabelsAndComments(t *testing.T) {
	final := compileToFinal(t, `fn main() { set i = 3; while i > 0 { print i; set i = i - 1; } }`)
	for _, ins := range final {
		if ins.IsLabel || ins.IsComment {
			t.Fatalf("resolved stream must contain no labels or comments, found %q", ins.String())
		}
	}
}

func TestResolveJumpOffsetsAreRelative(t *testing.T) {
	final := compileToFinal(t, `fn main() { set i = 3; while i > 0 { print i; set i = i - 1; } }`)
	for i, ins := range final {
		switch ins.Op {
		case "jmp", "jz", "jnz", "jn", "jp", "call":
			if ins.Operands[0].Kind != ir.Literal {
				t.Fatalf("line %d: %s operand must be a resolved literal offset, got %s", i, ins.Op, ins.Operands[0])
			}
		}
	}
}

func TestResolveUnknownLabelFails(t *testing.T) {
	prog := &ir.Program{Functions: []*ir.Function{{
		Name: "main",
		Instrs: []*ir.Instruction{
			ir.Op1("jmp", ir.Lbl("nowhere")),
		},
	}}}
	_, err := ir.Resolve(prog)
	if err == nil {
		t.Fatal("expected an unresolved-label error")
	}
	if _, ok := err.(*ir.ResolveError); !ok {
		t.Fatalf("got %T, want *ir.ResolveError", err)
	}
}

func TestResolveBootstrapJumpTargetsEntryLabel(t *testing.T) {
	final := compileToFinal(t, `fn add(a b) { return a + b; } fn main() { set r = add(4 5); print r; }`)
	boot := final[0]
	if boot.Op != "jmp" {
		t.Fatalf("first resolved instruction must be the bootstrap jump, got %q", boot.String())
	}
	target := int(boot.Operands[0].Lit)
	if target <= 0 || target >= len(final) {
		t.Fatalf("bootstrap jump target %d out of range [0,%d)", target, len(final))
	}
}
