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

package vm

// Instruction is one final, post-resolution instruction: an opcode plus
// up to two already-evaluated-shape operands.
type Instruction struct {
	Op       Opcode
	Operands [2]Operand
	NumOps   int
}

// Inst0 builds a no-operand instruction (ret, halt).
func Inst0(op Opcode) Instruction { return Instruction{Op: op} }

// Inst1 builds a one-operand instruction.
func Inst1(op Opcode, a Operand) Instruction {
	return Instruction{Op: op, Operands: [2]Operand{a}, NumOps: 1}
}

// Inst2 builds a two-operand instruction.
func Inst2(op Opcode, a, b Operand) Instruction {
	return Instruction{Op: op, Operands: [2]Operand{a, b}, NumOps: 2}
}
