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

package ir

import "strings"

// Instruction is one pseudo-asm line: a label, a comment, or an opcode with
// up to two operands.
type Instruction struct {
	IsLabel   bool
	IsComment bool
	Op        string
	Operands  []Operand
}

// Label builds a label-only instruction.
func Label(name string) *Instruction { return &Instruction{IsLabel: true, Op: name} }

// Comment builds a comment-only instruction, dropped by the label resolver.
func Comment(text string) *Instruction { return &Instruction{IsComment: true, Op: text} }

// Op0 builds a bare opcode with no operands (e.g. halt, ret).
func Op0(op string) *Instruction { return &Instruction{Op: op} }

// Op1 builds a one-operand instruction.
func Op1(op string, a Operand) *Instruction { return &Instruction{Op: op, Operands: []Operand{a}} }

// Op2 builds a two-operand instruction.
func Op2(op string, a, b Operand) *Instruction {
	return &Instruction{Op: op, Operands: []Operand{a, b}}
}

// String pretty-prints the instruction the way the allocator's debug
// comments and the final textual assembly do: `OPCODE op1 op2`.
func (i *Instruction) String() string {
	if i.IsLabel {
		return i.Op + ":"
	}
	if i.IsComment {
		return "; " + i.Op
	}
	var b strings.Builder
	b.WriteString(strings.ToUpper(i.Op))
	for _, o := range i.Operands {
		b.WriteByte(' ')
		b.WriteString(o.String())
	}
	return b.String()
}

// Function is one function's pseudo-asm body at some stage of the
// pipeline (pre-allocation, post-allocation, or fully resolved).
type Function struct {
	Name    string
	IsEntry bool
	Instrs  []*Instruction
}

// Program is a whole compilation unit's worth of functions, concatenated
// in source order; assembly emission lays them out back to back.
type Program struct {
	Functions []*Function
}

// Flatten concatenates every function's instructions into a single slice,
// the shape the label resolver and assembler expect.
func (p *Program) Flatten() []*Instruction {
	var out []*Instruction
	for _, fn := range p.Functions {
		out = append(out, fn.Instrs...)
	}
	return out
}
