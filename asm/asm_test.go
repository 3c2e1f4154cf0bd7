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

package asm_test

import (
	"strings"
	"testing"

	"github.com/talonlang/talon/asm"
	"github.com/talonlang/talon/vm"
)

func TestParseSimpleProgram(t *testing.T) {
	src := `
; load a literal, double it, print it
mov 'GPA #21
add 'GPA 'GPA
print 'GPA
halt
`
	instrs, err := asm.Assemble("test.asm", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(instrs) != 4 {
		t.Fatalf("got %d instructions, want 4", len(instrs))
	}
	if instrs[0].Op != vm.OpMov || instrs[0].Operands[0].Kind != vm.OperandRegister {
		t.Fatalf("instr0 = %+v", instrs[0])
	}
	if instrs[1].Op != vm.OpAdd {
		t.Fatalf("instr1 op = %v, want add", instrs[1].Op)
	}
	if instrs[3].Op != vm.OpHalt || instrs[3].NumOps != 0 {
		t.Fatalf("instr3 = %+v", instrs[3])
	}
}

func TestParseMemoryOperand(t *testing.T) {
	instrs, err := asm.Assemble("test.asm", strings.NewReader("load 'GPA $PositionX\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	op := instrs[0].Operands[1]
	if op.Kind != vm.OperandMemory || op.Addr != vm.AddrPositionX {
		t.Fatalf("operand = %+v, want memory AddrPositionX", op)
	}
}

func TestParseStackSlotOperand(t *testing.T) {
	instrs, err := asm.Assemble("test.asm", strings.NewReader("load 'GPA [SBP - 2]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	op := instrs[0].Operands[1]
	if op.Kind != vm.OperandStack || op.Base != vm.SBP || op.Sign != -1 || op.Offset != 2 {
		t.Fatalf("operand = %+v", op)
	}
}

func TestParseMemoryOffsetOperand(t *testing.T) {
	instrs, err := asm.Assemble("test.asm", strings.NewReader("load 'GPA [GPB + GPC]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	op := instrs[0].Operands[1]
	if op.Kind != vm.OperandMemoryOffset || op.Base != vm.GPB || op.Offset != vm.GPC || op.Sign != 1 {
		t.Fatalf("operand = %+v", op)
	}
}

func TestParseUnknownOpcodeFails(t *testing.T) {
	_, err := asm.Assemble("test.asm", strings.NewReader("frobnicate 'GPA\n"))
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
	pe, ok := err.(*asm.ParsingError)
	if !ok {
		t.Fatalf("error type = %T, want *asm.ParsingError", err)
	}
	if pe.Line != 1 {
		t.Fatalf("Line = %d, want 1", pe.Line)
	}
}

func TestParseUnknownMemoryNameFails(t *testing.T) {
	_, err := asm.Assemble("test.asm", strings.NewReader("print $NoSuchSensor\n"))
	if err == nil {
		t.Fatal("expected error for unknown memory name")
	}
}

func TestParseSkipsBlankLinesAndComments(t *testing.T) {
	instrs, err := asm.Assemble("test.asm", strings.NewReader("\n; a comment\n\nhalt\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(instrs) != 1 || instrs[0].Op != vm.OpHalt {
		t.Fatalf("instrs = %+v", instrs)
	}
}

func TestFormatRoundTripsThroughParse(t *testing.T) {
	src := "mov 'GPA #21\nadd 'GPA 'GPA\nstore [SBP - 2] 'GPA\nprint 'GPA\nhalt\n"
	instrs, err := asm.Assemble("test.asm", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := asm.Disassemble(instrs)
	again, err := asm.Assemble("roundtrip.asm", strings.NewReader(out))
	if err != nil {
		t.Fatalf("re-Parse of formatted output: %v\n---\n%s", err, out)
	}
	if len(again) != len(instrs) {
		t.Fatalf("got %d instructions after round trip, want %d", len(again), len(instrs))
	}
	for idx := range instrs {
		if again[idx].Op != instrs[idx].Op {
			t.Fatalf("instr %d: op %v != %v", idx, again[idx].Op, instrs[idx].Op)
		}
	}
}

func TestFormatMemoryOperandUsesSymbolicName(t *testing.T) {
	out := asm.Disassemble([]vm.Instruction{vm.Inst1(vm.OpPrint, vm.Mem(vm.AddrPositionX))})
	if !strings.Contains(out, "$PositionX") {
		t.Fatalf("Format output = %q, want it to contain $PositionX", out)
	}
}
