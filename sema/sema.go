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

// Package sema validates scoping and assignment-target legality on a
// parsed AST before IR generation sees it.
package sema

import (
	"fmt"

	"github.com/talonlang/talon/ast"
	"github.com/talonlang/talon/token"
)

// Kind distinguishes the two semantic failure modes.
type Kind int

const (
	// UnknownVariable: an identifier was used before it was introduced.
	UnknownVariable Kind = iota
	// InvalidOperation: an assignment's left-hand side is a literal.
	InvalidOperation
)

// Error is a semantic analysis failure.
type Error struct {
	Kind Kind
	Name string
	Pos  token.Pos
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownVariable:
		return fmt.Sprintf("%s: unknown variable %q", e.Pos, e.Name)
	case InvalidOperation:
		return fmt.Sprintf("%s: invalid assignment target", e.Pos)
	default:
		return fmt.Sprintf("%s: semantic error", e.Pos)
	}
}

// scope is the set of identifiers visible at a point in a function body.
type scope map[string]bool

func (s scope) clone() scope {
	c := make(scope, len(s))
	for k := range s {
		c[k] = true
	}
	return c
}

// Analyze checks every function in prog independently, each against a
// scope seeded with its own parameters.
func Analyze(prog *ast.Program) error {
	for _, fn := range prog.Functions {
		if err := analyzeFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func analyzeFunction(fn *ast.Function) error {
	sc := make(scope, len(fn.Params))
	for _, p := range fn.Params {
		sc[p] = true
	}
	return analyzeBlock(fn.Body, sc)
}

func analyzeBlock(body []ast.Node, sc scope) error {
	for _, stmt := range body {
		if err := analyzeStatement(stmt, sc); err != nil {
			return err
		}
	}
	return nil
}

// analyzeStatement checks uses before introductions, per statement, and
// mutates sc in place with whatever the statement introduces. Compound
// statements get a scope copy so nested introductions don't escape.
func analyzeStatement(stmt ast.Node, sc scope) error {
	switch n := stmt.(type) {
	case *ast.Assignment:
		if _, ok := n.LHS.(*ast.Literal); ok {
			return &Error{Kind: InvalidOperation, Pos: n.Pos()}
		}
		uses := exprUses(n.RHS)
		var introduces string
		switch lhs := n.LHS.(type) {
		case *ast.Identifier:
			introduces = lhs.Name
		case *ast.MemoryOffset:
			uses = append(uses, lhs.Base)
			uses = append(uses, exprUses(lhs.Offset)...)
		case *ast.MemoryValue:
			// A direct memory write; nothing to scope-check.
		}
		if err := checkUses(uses, sc); err != nil {
			return err
		}
		if introduces != "" {
			sc[introduces] = true
		}
		return nil
	case *ast.IfCondition:
		if err := checkUses(exprUses(n.Condition), sc); err != nil {
			return err
		}
		return analyzeBlock(n.Body, sc.clone())
	case *ast.WhileLoop:
		if err := checkUses(exprUses(n.Condition), sc); err != nil {
			return err
		}
		return analyzeBlock(n.Body, sc.clone())
	case *ast.Loop:
		return analyzeBlock(n.Body, sc.clone())
	case *ast.FunctionCall:
		return checkUses(exprUses(n), sc)
	case *ast.Return:
		return checkUses(exprUses(n.Value), sc)
	case *ast.Print:
		return checkUses(exprUses(n.Value), sc)
	default:
		return nil
	}
}

// exprUses recursively collects every identifier reference within an
// expression that needs to resolve to a known frame variable. Memory
// values are excluded: any $-prefixed name is legal without a prior
// introduction.
func exprUses(n ast.Node) []*ast.Identifier {
	switch v := n.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		return []*ast.Identifier{v}
	case *ast.Literal, *ast.MemoryValue:
		return nil
	case *ast.MemoryOffset:
		out := []*ast.Identifier{v.Base}
		return append(out, exprUses(v.Offset)...)
	case *ast.Operation:
		return append(exprUses(v.LHS), exprUses(v.RHS)...)
	case *ast.Comparison:
		return append(exprUses(v.LHS), exprUses(v.RHS)...)
	case *ast.FunctionCall:
		var out []*ast.Identifier
		for _, arg := range v.Args {
			out = append(out, exprUses(arg)...)
		}
		return out
	default:
		return nil
	}
}

func checkUses(ids []*ast.Identifier, sc scope) error {
	for _, id := range ids {
		if !sc[id.Name] {
			return &Error{Kind: UnknownVariable, Name: id.Name, Pos: id.Pos()}
		}
	}
	return nil
}
