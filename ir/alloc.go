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

import "github.com/talonlang/talon/ast"

// Allocator assigns SBP-relative stack slots to one function's frame
// variables and expands every instruction that touches one into the
// register-mediated form the VM requires. Parameters are pre-bound to
// negative slots (first parameter -2, second -3, ...); locals grow on the
// positive side starting at 1. Slot 0 is never assigned: it is the saved
// SBP pushed by the prologue.
type Allocator struct {
	slots map[string]int
	next  int
}

// NewAllocator seeds an Allocator with a function's parameter list.
func NewAllocator(params []string) *Allocator {
	a := &Allocator{slots: make(map[string]int, len(params)), next: 1}
	for i, p := range params {
		a.slots[p] = -(i + 2)
	}
	return a
}

func (a *Allocator) slotFor(name string) int {
	if s, ok := a.slots[name]; ok {
		return s
	}
	s := a.next
	a.next++
	a.slots[name] = s
	return s
}

func stackSlotFor(slot int) Operand {
	if slot < 0 {
		return Stack("SBP", -1, -slot)
	}
	return Stack("SBP", +1, slot)
}

// resolve rewrites a single operand, substituting any symbolic frame
// variable with its stack slot. It recurses into MemoryOffset so a frame
// variable nested as a base or offset is also rewritten.
func (a *Allocator) resolve(o Operand) Operand {
	switch o.Kind {
	case Identifier:
		return stackSlotFor(a.slotFor(o.Name))
	case MemoryOffset:
		base := a.resolve(*o.Base)
		off := a.resolve(*o.Offset)
		return MemOff(base, o.Sign, off)
	default:
		return o
	}
}

// forceReg materializes o into reg, emitting the loading instruction even
// when o is a literal or stack slot that would be legal in place; a
// Register operand is returned as is with nothing emitted. Used where the
// VM opcode requires a register outright (both halves of a MemoryOffset,
// the destination of an arithmetic op).
func (a *Allocator) forceReg(o Operand, reg string) (Operand, []*Instruction) {
	switch o.Kind {
	case Register:
		return o, nil
	case Memory:
		return Reg(reg), []*Instruction{Op2("load", Reg(reg), o)}
	case MemoryOffset:
		addr, pre := a.materializeOffsetRegs(o)
		return Reg(reg), append(pre, Op2("load", Reg(reg), addr))
	default: // Literal, Identifier, StackSlot
		return Reg(reg), []*Instruction{Op2("mov", Reg(reg), a.resolve(o))}
	}
}

// materializeOperand leaves an already-legal register/literal operand in
// place and otherwise forces it into reg — the rule arithmetic and cmp use
// for their non-destination operand.
func (a *Allocator) materializeOperand(o Operand, reg string) (Operand, []*Instruction) {
	if o.Kind == Literal || o.Kind == Register {
		return o, nil
	}
	return a.forceReg(o, reg)
}

// materializeOffsetRegs turns a MemoryOffset's base and offset into a pair
// of registers, the shape the final instruction stream requires.
func (a *Allocator) materializeOffsetRegs(o Operand) (Operand, []*Instruction) {
	base, pre := a.forceReg(*o.Base, "GPB")
	off, pre2 := a.forceReg(*o.Offset, "GPC")
	return MemOff(base, o.Sign, off), append(pre, pre2...)
}

// Allocate runs the allocator over every function in irProg, pairing each
// with the AST function that carries its parameter list. Generate prepends
// a synthetic bootstrap function with no AST counterpart and no frame
// variables, so it passes straight through unallocated.
func Allocate(irProg *Program, astProg *ast.Program) *Program {
	out := &Program{}
	astIdx := 0
	for _, fn := range irProg.Functions {
		if fn.Name == "_bootstrap" {
			out.Functions = append(out.Functions, fn)
			continue
		}
		out.Functions = append(out.Functions, AllocateFunction(fn, astProg.Functions[astIdx].Params))
		astIdx++
	}
	return out
}

// AllocateFunction expands one function's instructions, prefixing every
// expansion with a comment carrying the original pretty-printed
// instruction for debugging.
func AllocateFunction(fn *Function, params []string) *Function {
	a := NewAllocator(params)
	var out []*Instruction
	for _, ins := range fn.Instrs {
		if ins.IsLabel {
			out = append(out, ins)
			continue
		}
		out = append(out, Comment(ins.String()))
		out = append(out, a.expand(ins)...)
	}
	return &Function{Name: fn.Name, IsEntry: fn.IsEntry, Instrs: out}
}

func (a *Allocator) expand(ins *Instruction) []*Instruction {
	switch ins.Op {
	case "mov":
		if ins.Operands[1].Kind == Memory || ins.Operands[1].Kind == MemoryOffset {
			return a.expandLoad(Op2("load", ins.Operands[0], ins.Operands[1]))
		}
		return []*Instruction{Op2("mov", a.resolve(ins.Operands[0]), a.resolve(ins.Operands[1]))}
	case "load":
		return a.expandLoad(ins)
	case "store":
		return a.expandStore(ins)
	case "add", "sub", "mul", "div", "mod":
		return a.expandArith(ins)
	case "cmp":
		return a.expandCmp(ins)
	case "push", "print":
		return a.expandUnary(ins)
	default:
		// jmp/jz/jnz/jn/jp/call (label operand, resolved later), ret, pop,
		// halt: nothing here is a frame variable.
		return []*Instruction{ins}
	}
}

func (a *Allocator) expandLoad(ins *Instruction) []*Instruction {
	dst, src := ins.Operands[0], ins.Operands[1]
	var srcOperand Operand
	var out []*Instruction
	if src.Kind == MemoryOffset {
		var pre []*Instruction
		srcOperand, pre = a.materializeOffsetRegs(src)
		out = append(out, pre...)
	} else {
		srcOperand = a.resolve(src)
	}
	if dst.Kind == Identifier {
		out = append(out, Op2("load", Reg("GPA"), srcOperand))
		out = append(out, Op2("mov", a.resolve(dst), Reg("GPA")))
	} else {
		out = append(out, Op2("load", a.resolve(dst), srcOperand))
	}
	return out
}

func (a *Allocator) expandStore(ins *Instruction) []*Instruction {
	dst, src := ins.Operands[0], ins.Operands[1]
	var out []*Instruction
	var dstOperand Operand
	if dst.Kind == MemoryOffset {
		var pre []*Instruction
		dstOperand, pre = a.materializeOffsetRegs(dst)
		out = append(out, pre...)
	} else {
		dstOperand = a.resolve(dst)
	}
	var srcOperand Operand
	if src.Kind == Memory || src.Kind == MemoryOffset {
		var pre []*Instruction
		srcOperand, pre = a.forceReg(src, "GPA")
		out = append(out, pre...)
	} else {
		srcOperand = a.resolve(src)
	}
	out = append(out, Op2("store", dstOperand, srcOperand))
	return out
}

func (a *Allocator) expandArith(ins *Instruction) []*Instruction {
	dst, src := ins.Operands[0], ins.Operands[1]
	dstReg, out := a.forceReg(dst, "GPA")
	srcOperand, pre := a.materializeOperand(src, "GPB")
	out = append(out, pre...)
	out = append(out, Op2(ins.Op, dstReg, srcOperand))
	if dst.Kind == Identifier || dst.Kind == StackSlot {
		out = append(out, Op2("mov", a.resolve(dst), dstReg))
	}
	return out
}

func (a *Allocator) expandCmp(ins *Instruction) []*Instruction {
	aOperand, out := a.materializeOperand(ins.Operands[0], "GPA")
	bOperand, pre := a.materializeOperand(ins.Operands[1], "GPB")
	out = append(out, pre...)
	out = append(out, Op2("cmp", aOperand, bOperand))
	return out
}

func (a *Allocator) expandUnary(ins *Instruction) []*Instruction {
	v := ins.Operands[0]
	if v.Kind == Identifier {
		return []*Instruction{
			Op2("mov", Reg("GPA"), a.resolve(v)),
			Op1(ins.Op, Reg("GPA")),
		}
	}
	return []*Instruction{Op1(ins.Op, a.resolve(v))}
}
