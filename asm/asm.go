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

// Package asm parses and formats the line-oriented textual assembly that
// is the stable boundary between the compiler and the VM: one opcode per
// line, up to two operands, no labels (jump and call targets are already
// resolved to relative literal offsets by the time code reaches this
// format).
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/talonlang/talon/vm"
)

// ParsingError reports a malformed assembly line, carrying the 1-based
// line number the way the lexer and parser carry source positions.
type ParsingError struct {
	Line int
	Msg  string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("assembly line %d: %s", e.Line, e.Msg)
}

// Assemble reads line-oriented textual assembly from r and returns the
// resulting instruction stream. name is used only to decorate wrapped
// errors (pass the source file name when r reads from a file).
func Assemble(name string, r io.Reader) ([]vm.Instruction, error) {
	var out []vm.Instruction
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		ins, err := parseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return out, nil
}

func parseLine(lineNo int, line string) (vm.Instruction, error) {
	toks := splitLine(line)
	if len(toks) == 0 {
		return vm.Instruction{}, &ParsingError{Line: lineNo, Msg: "empty instruction"}
	}
	op, ok := vm.OpcodeByName(strings.ToLower(toks[0]))
	if !ok {
		return vm.Instruction{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("unknown opcode %q", toks[0])}
	}
	operands := toks[1:]
	if len(operands) > 2 {
		return vm.Instruction{}, &ParsingError{Line: lineNo, Msg: "too many operands"}
	}
	switch len(operands) {
	case 0:
		return vm.Inst0(op), nil
	case 1:
		a, err := parseOperand(lineNo, operands[0])
		if err != nil {
			return vm.Instruction{}, err
		}
		return vm.Inst1(op, a), nil
	default:
		a, err := parseOperand(lineNo, operands[0])
		if err != nil {
			return vm.Instruction{}, err
		}
		b, err := parseOperand(lineNo, operands[1])
		if err != nil {
			return vm.Instruction{}, err
		}
		return vm.Inst2(op, a, b), nil
	}
}

// splitLine tokenizes on whitespace, except that a `[...]` compound
// operand (which contains internal spaces, e.g. `[SBP - 3]`) is kept as a
// single token.
func splitLine(line string) []string {
	var toks []string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '[' {
			j := i + 1
			for j < len(line) && line[j] != ']' {
				j++
			}
			if j < len(line) {
				j++
			}
			toks = append(toks, line[i:j])
			i = j
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' {
			j++
		}
		toks = append(toks, line[i:j])
		i = j
	}
	return toks
}

func parseOperand(lineNo int, tok string) (vm.Operand, error) {
	if tok == "" {
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: "empty operand"}
	}
	switch tok[0] {
	case '#':
		n, err := strconv.ParseInt(tok[1:], 10, 32)
		if err != nil {
			return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("invalid literal %q", tok)}
		}
		return vm.Lit(int32(n)), nil
	case '\'':
		idx, ok := vm.RegisterNames[strings.ToUpper(tok[1:])]
		if !ok {
			return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("unknown register %q", tok)}
		}
		return vm.Reg(idx), nil
	case '$':
		addr, ok := vm.MemoryNames[tok]
		if !ok {
			return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("unknown memory-mapped variable %q", tok)}
		}
		return vm.Mem(addr), nil
	case '[':
		return parseBracket(lineNo, tok)
	default:
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("unrecognized operand %q", tok)}
	}
}

func parseBracket(lineNo int, tok string) (vm.Operand, error) {
	if !strings.HasSuffix(tok, "]") {
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("unterminated compound operand %q", tok)}
	}
	inner := strings.TrimSpace(tok[1 : len(tok)-1])
	parts := strings.Fields(inner)
	if len(parts) != 3 {
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("malformed compound operand %q", tok)}
	}
	baseIdx, ok := vm.RegisterNames[strings.ToUpper(parts[0])]
	if !ok {
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("unknown register %q in %q", parts[0], tok)}
	}
	var sign int
	switch parts[1] {
	case "+":
		sign = 1
	case "-":
		sign = -1
	default:
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("expected + or - in %q", tok)}
	}
	// A literal tail is a StackValue; a register tail is a MemoryOffset.
	if n, err := strconv.Atoi(parts[2]); err == nil {
		return vm.Stack(baseIdx, sign, n), nil
	}
	offIdx, ok := vm.RegisterNames[strings.ToUpper(parts[2])]
	if !ok {
		return vm.Operand{}, &ParsingError{Line: lineNo, Msg: fmt.Sprintf("malformed compound operand %q", tok)}
	}
	return vm.MemOffset(baseIdx, sign, offIdx), nil
}
