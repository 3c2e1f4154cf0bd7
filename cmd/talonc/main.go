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

// Command talonc compiles a talon source file down to the resolved
// textual assembly that cmd/talonvm executes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/talonlang/talon/asm"
	"github.com/talonlang/talon/ir"
	"github.com/talonlang/talon/lexer"
	"github.com/talonlang/talon/parser"
	"github.com/talonlang/talon/sema"
)

var (
	outFileName      string
	saveIntermediate bool
	debug            bool
)

func atExit(err error) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}

func main() {
	flag.StringVar(&outFileName, "o", "a.out", "`filename` to write the compiled assembly to")
	flag.BoolVar(&saveIntermediate, "s", false, "save intermediate artifacts (tokens, AST, pre/post-allocation IR) alongside the input")
	flag.BoolVar(&debug, "debug", false, "print a full error stack trace on failure")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: talonc [flags] <source-file>")
		os.Exit(2)
	}
	inFileName := flag.Arg(0)

	src, err := os.ReadFile(inFileName)
	if err != nil {
		atExit(errors.Wrapf(err, "reading %s", inFileName))
		return
	}

	if saveIntermediate {
		toks := lexer.All(string(src))
		var b strings.Builder
		for _, t := range toks {
			b.WriteString(t.String())
			b.WriteByte('\n')
		}
		if err := os.WriteFile(inFileName+".tokens", []byte(b.String()), 0o644); err != nil {
			atExit(errors.Wrap(err, "writing token dump"))
			return
		}
	}

	prog, err := parser.Parse(string(src))
	if err != nil {
		atExit(errors.Wrap(err, "parsing"))
		return
	}
	if saveIntermediate {
		if err := os.WriteFile(inFileName+".ast", []byte(fmt.Sprintf("%+v\n", prog)), 0o644); err != nil {
			atExit(errors.Wrap(err, "writing AST dump"))
			return
		}
	}

	if err := sema.Analyze(prog); err != nil {
		atExit(errors.Wrap(err, "semantic analysis"))
		return
	}

	generated, err := ir.Generate(prog)
	if err != nil {
		atExit(errors.Wrap(err, "generating IR"))
		return
	}
	if saveIntermediate {
		if err := os.WriteFile(inFileName+".pasm", []byte(dumpIR(generated)), 0o644); err != nil {
			atExit(errors.Wrap(err, "writing pre-allocation IR dump"))
			return
		}
	}

	allocated := ir.Allocate(generated, prog)
	if saveIntermediate {
		if err := os.WriteFile(inFileName+".pasm_allocated", []byte(dumpIR(allocated)), 0o644); err != nil {
			atExit(errors.Wrap(err, "writing post-allocation IR dump"))
			return
		}
	}

	resolved, err := ir.Resolve(allocated)
	if err != nil {
		atExit(errors.Wrap(err, "resolving labels"))
		return
	}

	var b strings.Builder
	for _, ins := range resolved {
		b.WriteString(ins.String())
		b.WriteByte('\n')
	}
	// Round-trip the compiler's own textual output through the assembler
	// to catch any mismatch between the IR printer and the assembly
	// grammar before it reaches disk.
	instrs, err := asm.Assemble(inFileName, strings.NewReader(b.String()))
	if err != nil {
		atExit(errors.Wrap(err, "internal: compiled output failed to assemble"))
		return
	}

	if err := os.WriteFile(outFileName, []byte(asm.Disassemble(instrs)), 0o644); err != nil {
		atExit(errors.Wrapf(err, "writing %s", outFileName))
		return
	}
}

// dumpIR renders a pseudo-asm Program (pre- or post-allocation) the way
// the allocator's own debug comments do: one `; function NAME` comment
// line per function, then one instruction per line.
func dumpIR(prog *ir.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "; function %s\n", fn.Name)
		for _, ins := range fn.Instrs {
			b.WriteString(ins.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
