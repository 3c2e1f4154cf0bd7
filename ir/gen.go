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

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/talonlang/talon/ast"
	"github.com/talonlang/talon/token"
)

// Error is a malformed-AST failure reaching IR generation. Semantic
// analysis is expected to have ruled these out; surviving cases are
// reported with the offending node's source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// generator lowers one function at a time and owns the monotonic counter
// that names every temporary and label it produces.
type generator struct {
	counter int
}

// fresh returns a unique name "<pattern>_<n>".
func (g *generator) fresh(pattern string) string {
	g.counter++
	return fmt.Sprintf("%s_%d", pattern, g.counter)
}

// freshTemp returns a unique temporary identifier "temp_<pattern>_<n>".
func (g *generator) freshTemp(pattern string) string {
	return "temp_" + g.fresh(pattern)
}

// Generate lowers every function in prog independently into pseudo-asm.
// The program's entry point is "main" if present, else its first
// function; only the entry function gets a trailing halt.
func Generate(prog *ast.Program) (*Program, error) {
	entry := entryFunctionName(prog)
	out := &Program{}
	// CIP starts at 0, and a source file is free to declare the entry
	// function anywhere, so the very first instruction emitted must
	// unconditionally jump to it rather than falling into whatever
	// function happens to be declared first.
	out.Functions = append(out.Functions, &Function{
		Name:   "_bootstrap",
		Instrs: []*Instruction{Op1("jmp", Lbl(EntryLabel(entry)))},
	})
	// One generator, and so one counter, for the whole program: labels
	// are resolved against the flattened instruction stream, so two
	// functions minting "if_exit_1" independently would collide.
	g := &generator{}
	for _, fn := range prog.Functions {
		f, err := g.generateFunction(fn, fn.Name == entry)
		if err != nil {
			return nil, errors.Wrapf(err, "generating function %q", fn.Name)
		}
		out.Functions = append(out.Functions, f)
	}
	return out, nil
}

func entryFunctionName(prog *ast.Program) string {
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			return "main"
		}
	}
	if len(prog.Functions) > 0 {
		return prog.Functions[0].Name
	}
	return ""
}

// EntryLabel is the mangled function-entry label name a `call` targets.
func EntryLabel(name string) string { return "function_" + name + "_label" }

func (g *generator) generateFunction(fn *ast.Function, isEntry bool) (*Function, error) {
	body, err := g.block(fn.Body)
	if err != nil {
		return nil, err
	}

	params := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		params[p] = true
	}
	frameVars := map[string]bool{}
	for _, ins := range body {
		for _, name := range identifierNamesIn(ins) {
			if !params[name] {
				frameVars[name] = true
			}
		}
	}

	var prologue []*Instruction
	prologue = append(prologue, Label(EntryLabel(fn.Name)))
	if !isEntry {
		prologue = append(prologue, Op1("push", Reg("SBP")))
	}
	prologue = append(prologue, Op2("mov", Reg("SBP"), Reg("TSP")))
	if len(frameVars) > 0 {
		prologue = append(prologue, Op2("sub", Reg("TSP"), Lit(int32(len(frameVars)))))
	}

	instrs := append(prologue, body...)
	if isEntry {
		instrs = append(instrs, Op0("halt"))
	}
	return &Function{Name: fn.Name, IsEntry: isEntry, Instrs: instrs}, nil
}

// identifierNamesIn collects every Identifier operand name appearing
// anywhere in ins, including nested inside a MemoryOffset.
func identifierNamesIn(ins *Instruction) []string {
	var names []string
	var walk func(o *Operand)
	walk = func(o *Operand) {
		if o == nil {
			return
		}
		if o.Kind == Identifier {
			names = append(names, o.Name)
		}
		if o.Kind == MemoryOffset {
			walk(o.Base)
			walk(o.Offset)
		}
	}
	for i := range ins.Operands {
		walk(&ins.Operands[i])
	}
	return names
}

func (g *generator) block(body []ast.Node) ([]*Instruction, error) {
	var instrs []*Instruction
	for _, stmt := range body {
		ins, err := g.statement(stmt)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, ins...)
	}
	return instrs, nil
}

func (g *generator) statement(n ast.Node) ([]*Instruction, error) {
	switch v := n.(type) {
	case *ast.Assignment:
		return g.assignment(v)
	case *ast.IfCondition:
		return g.ifCondition(v)
	case *ast.WhileLoop:
		return g.whileLoop(v)
	case *ast.Loop:
		return g.loop(v)
	case *ast.FunctionCall:
		return g.call(v)
	case *ast.Return:
		return g.ret(v)
	case *ast.Print:
		return g.print(v)
	default:
		return nil, &Error{Pos: n.Pos(), Msg: fmt.Sprintf("%T is not a valid statement", n)}
	}
}

// assignment lowers `lhs = rhs`. A `$`-prefixed lhs becomes `store`;
// indexed-memory lhs becomes `store` against a MemoryOffset; anything else
// is a plain `mov`.
func (g *generator) assignment(a *ast.Assignment) ([]*Instruction, error) {
	rhsVal, instrs, err := g.expr(a.RHS)
	if err != nil {
		return nil, err
	}
	switch lhs := a.LHS.(type) {
	case *ast.Identifier:
		instrs = append(instrs, Op2("mov", Ident(lhs.Name), rhsVal))
	case *ast.MemoryValue:
		instrs = append(instrs, Op2("store", Mem(lhs.Name), rhsVal))
	case *ast.MemoryOffset:
		offVal, offInstrs, err := g.expr(lhs.Offset)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, offInstrs...)
		instrs = append(instrs, Op2("store", MemOff(Ident(lhs.Base.Name), +1, offVal), rhsVal))
	default:
		return nil, &Error{Pos: a.Pos(), Msg: "assignment target is not an lvalue"}
	}
	return instrs, nil
}

func opcodeForOp(op ast.OpKind) string {
	switch op {
	case ast.Add:
		return "add"
	case ast.Sub:
		return "sub"
	case ast.Mul:
		return "mul"
	case ast.Div:
		return "div"
	default:
		return "mod"
	}
}

// expr evaluates an expression node into an operand (materialising one if
// needed) plus the instructions that compute it.
func (g *generator) expr(n ast.Node) (Operand, []*Instruction, error) {
	switch v := n.(type) {
	case *ast.Literal:
		return Lit(v.Value), nil, nil
	case *ast.Identifier:
		return Ident(v.Name), nil, nil
	case *ast.MemoryValue:
		return Mem(v.Name), nil, nil
	case *ast.MemoryOffset:
		return g.memoryOffsetRead(v)
	case *ast.Operation:
		return g.operation(v)
	case *ast.FunctionCall:
		return g.callExpr(v)
	default:
		return NoOperand, nil, &Error{Pos: n.Pos(), Msg: fmt.Sprintf("%T is not a valid expression", n)}
	}
}

func (g *generator) memoryOffsetRead(v *ast.MemoryOffset) (Operand, []*Instruction, error) {
	offVal, instrs, err := g.expr(v.Offset)
	if err != nil {
		return NoOperand, nil, err
	}
	tmp := g.freshTemp("load")
	instrs = append(instrs, Op2("load", Ident(tmp), MemOff(Ident(v.Base.Name), +1, offVal)))
	return Ident(tmp), instrs, nil
}

// operation lowers a binary arithmetic expression: evaluate lhs into a
// fresh temp, evaluate rhs in place if simple, then apply the opcode with
// the temp as destination.
func (g *generator) operation(v *ast.Operation) (Operand, []*Instruction, error) {
	lhsVal, instrs, err := g.expr(v.LHS)
	if err != nil {
		return NoOperand, nil, err
	}
	tmp := g.freshTemp("op")
	instrs = append(instrs, Op2("mov", Ident(tmp), lhsVal))
	rhsVal, rInstrs, err := g.expr(v.RHS)
	if err != nil {
		return NoOperand, nil, err
	}
	instrs = append(instrs, rInstrs...)
	instrs = append(instrs, Op2(opcodeForOp(v.Op), Ident(tmp), rhsVal))
	return Ident(tmp), instrs, nil
}

// comparison lowers a loop/if condition: `cmp a b` followed by a jump to
// exitLabel that fires when the condition is false.
func (g *generator) comparison(c *ast.Comparison, exitLabel string) ([]*Instruction, error) {
	lhsVal, instrs, err := g.expr(c.LHS)
	if err != nil {
		return nil, err
	}
	rhsVal, rInstrs, err := g.expr(c.RHS)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, rInstrs...)

	a, b := lhsVal, rhsVal
	// Strict GT/LT have no single flag bit of their own: after swapping
	// operands, the sign jump below catches one partition of the false
	// case but equality also fails the condition and must exit too, so
	// those two cases emit an extra jz ahead of the sign jump. The VM
	// clears the flags at the end of every tick, so the jz is followed by
	// a second cmp that sets them again for the sign jump.
	strict := false
	var jumpOp string
	switch c.Op {
	case ast.EQ:
		jumpOp = "jnz"
	case ast.NE:
		jumpOp = "jz"
	case ast.GE:
		jumpOp = "jn"
	case ast.LE:
		jumpOp = "jp"
	case ast.GT:
		a, b = b, a
		jumpOp = "jp"
		strict = true
	case ast.LT:
		a, b = b, a
		jumpOp = "jn"
		strict = true
	default:
		return nil, &Error{Pos: c.Pos(), Msg: "unknown comparison operator"}
	}
	instrs = append(instrs, Op2("cmp", a, b))
	if strict {
		instrs = append(instrs, Op1("jz", Lbl(exitLabel)), Op2("cmp", a, b))
	}
	instrs = append(instrs, Op1(jumpOp, Lbl(exitLabel)))
	return instrs, nil
}

func (g *generator) ifCondition(n *ast.IfCondition) ([]*Instruction, error) {
	exit := g.fresh("if_exit")
	instrs, err := g.comparison(n.Condition, exit)
	if err != nil {
		return nil, err
	}
	body, err := g.block(n.Body)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, body...)
	instrs = append(instrs, Label(exit))
	return instrs, nil
}

func (g *generator) whileLoop(n *ast.WhileLoop) ([]*Instruction, error) {
	entry := g.fresh("while_condition")
	exit := g.fresh("while_exit")
	instrs := []*Instruction{Label(entry)}
	cond, err := g.comparison(n.Condition, exit)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, cond...)
	body, err := g.block(n.Body)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, body...)
	instrs = append(instrs, Op1("jmp", Lbl(entry)))
	instrs = append(instrs, Label(exit))
	return instrs, nil
}

func (g *generator) loop(n *ast.Loop) ([]*Instruction, error) {
	entry := g.fresh("loop_label")
	instrs := []*Instruction{Label(entry)}
	body, err := g.block(n.Body)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, body...)
	instrs = append(instrs, Op1("jmp", Lbl(entry)))
	return instrs, nil
}

// callArgs lowers argument evaluation and the call/cleanup sequence shared
// between statement-position `call` and expression-position calls.
func (g *generator) callArgs(v *ast.FunctionCall) ([]*Instruction, error) {
	var instrs []*Instruction
	for i := len(v.Args) - 1; i >= 0; i-- {
		argVal, argInstrs, err := g.expr(v.Args[i])
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, argInstrs...)
		instrs = append(instrs, Op1("push", argVal))
	}
	instrs = append(instrs, Op1("call", Lbl(EntryLabel(v.Name))))
	if len(v.Args) > 0 {
		instrs = append(instrs, Op2("add", Reg("TSP"), Lit(int32(len(v.Args)))))
	}
	return instrs, nil
}

// call lowers a `call name(args)` statement; the return value is discarded.
func (g *generator) call(v *ast.FunctionCall) ([]*Instruction, error) {
	return g.callArgs(v)
}

// callExpr lowers a function call used as a value; the result sits in FRV.
func (g *generator) callExpr(v *ast.FunctionCall) (Operand, []*Instruction, error) {
	instrs, err := g.callArgs(v)
	if err != nil {
		return NoOperand, nil, err
	}
	return Reg("FRV"), instrs, nil
}

func (g *generator) ret(n *ast.Return) ([]*Instruction, error) {
	val, instrs, err := g.expr(n.Value)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, Op2("mov", Reg("FRV"), val))
	instrs = append(instrs, Op2("mov", Reg("TSP"), Reg("SBP")))
	instrs = append(instrs, Op1("pop", Reg("SBP")))
	instrs = append(instrs, Op0("ret"))
	return instrs, nil
}

func (g *generator) print(n *ast.Print) ([]*Instruction, error) {
	val, instrs, err := g.expr(n.Value)
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, Op1("print", val))
	return instrs, nil
}
