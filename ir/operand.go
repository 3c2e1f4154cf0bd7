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

// Package ir implements the pseudo-assembly intermediate representation:
// generation from the AST, the naive stack allocator, and the label
// resolver that together lower a Program into a flat instruction stream
// ready for the textual assembly printer.
package ir

import "fmt"

// OperandKind distinguishes the pseudo-asm operand variants.
type OperandKind int

const (
	// None is the absence of an operand (e.g. a bare ret).
	None OperandKind = iota
	// Literal is a signed 32-bit immediate.
	Literal
	// Register is one of the reserved register names.
	Register
	// Identifier is a symbolic frame variable, present only before
	// allocation rewrites it to a StackSlot.
	Identifier
	// Memory is a $-prefixed memory-mapped variable name.
	Memory
	// MemoryOffset indexes a memory base by a dynamic offset; both Base
	// and Offset are themselves operands.
	MemoryOffset
	// StackSlot is an SBP-relative stack slot, present only after
	// allocation.
	StackSlot
	// LabelRef names a jump/call target; the label resolver rewrites it
	// to a Literal relative offset. Distinct from Identifier so neither
	// the allocator nor the frame-variable scan ever mistakes a jump
	// target for a frame variable.
	LabelRef
)

// Operand is a single pseudo-asm operand. Only the fields relevant to Kind
// are meaningful.
type Operand struct {
	Kind    OperandKind
	Lit     int32
	Reg     string
	Name    string
	Sign    int
	Slot    int
	Base    *Operand
	Offset  *Operand
}

// Lit builds a Literal operand.
func Lit(v int32) Operand { return Operand{Kind: Literal, Lit: v} }

// Reg builds a Register operand from a bare register name (no leading
// quote).
func Reg(name string) Operand { return Operand{Kind: Register, Reg: name} }

// Ident builds a symbolic frame-variable Identifier operand.
func Ident(name string) Operand { return Operand{Kind: Identifier, Name: name} }

// Mem builds a Memory operand; name must include its leading '$'.
func Mem(name string) Operand { return Operand{Kind: Memory, Name: name} }

// Lbl builds a LabelRef operand naming a jump or call target.
func Lbl(name string) Operand { return Operand{Kind: LabelRef, Name: name} }

// MemOff builds a MemoryOffset operand: memory[base sign offset].
func MemOff(base Operand, sign int, offset Operand) Operand {
	b, o := base, offset
	return Operand{Kind: MemoryOffset, Base: &b, Sign: sign, Offset: &o}
}

// Stack builds a post-allocation StackSlot operand: [reg sign slot].
func Stack(reg string, sign, slot int) Operand {
	return Operand{Kind: StackSlot, Reg: reg, Sign: sign, Slot: slot}
}

// NoOperand is the absent operand.
var NoOperand = Operand{Kind: None}

// IsFrameVar reports whether o is a not-yet-allocated symbolic frame
// variable.
func (o Operand) IsFrameVar() bool { return o.Kind == Identifier }

// bracketName renders a MemoryOffset base/offset sub-operand the way the
// bracket grammar expects: a bare register name. Post-allocation these are
// always Register operands (the allocator forces both halves into a
// register); anything else falls back to its normal textual form.
func bracketName(o Operand) string {
	if o.Kind == Register {
		return o.Reg
	}
	return o.String()
}

func signText(sign int) string {
	if sign < 0 {
		return "-"
	}
	return "+"
}

func (o Operand) String() string {
	switch o.Kind {
	case None:
		return ""
	case Literal:
		return fmt.Sprintf("#%d", o.Lit)
	case Register:
		return "'" + o.Reg
	case Identifier:
		return "@" + o.Name
	case Memory:
		return o.Name
	case MemoryOffset:
		// The bracket grammar for an indexed-memory operand is
		// `[REG <sign> REG]` — bare register names, same as StackSlot's
		// base, not a base/offset operand's own quoted String().
		return fmt.Sprintf("[%s %s %s]", bracketName(*o.Base), signText(o.Sign), bracketName(*o.Offset))
	case StackSlot:
		return fmt.Sprintf("[%s %s %d]", o.Reg, signText(o.Sign), o.Slot)
	case LabelRef:
		return o.Name
	default:
		return "?"
	}
}
