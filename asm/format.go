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

package asm

import (
	"fmt"
	"strings"

	"github.com/talonlang/talon/vm"
)

// Disassemble renders a resolved instruction stream back to the textual
// assembly Assemble accepts, one instruction per line. Registers print as
// 'REG and memory operands as the $NAME registered for their address, but
// opcodes are lower-cased and spacing is normalised, so
// Disassemble(Assemble(s)) is a normal form rather than necessarily
// byte-identical to s.
func Disassemble(instrs []vm.Instruction) string {
	var b strings.Builder
	for _, ins := range instrs {
		b.WriteString(ins.Op.String())
		for n := 0; n < ins.NumOps; n++ {
			b.WriteByte(' ')
			b.WriteString(formatOperand(ins.Operands[n]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatOperand(o vm.Operand) string {
	switch o.Kind {
	case vm.OperandLiteral:
		return fmt.Sprintf("#%d", o.Lit)
	case vm.OperandRegister:
		return "'" + vm.RegisterName(o.Reg)
	case vm.OperandStack:
		return fmt.Sprintf("[%s %s %d]", vm.RegisterName(o.Base), sign(o.Sign), o.Offset)
	case vm.OperandMemory:
		return memoryName(o.Addr)
	case vm.OperandMemoryOffset:
		return fmt.Sprintf("[%s %s %s]", vm.RegisterName(o.Base), sign(o.Sign), vm.RegisterName(o.Offset))
	default:
		return ""
	}
}

func sign(s int) string {
	if s < 0 {
		return "-"
	}
	return "+"
}

func memoryName(addr vm.Cell) string {
	for name, a := range vm.MemoryNames {
		if a == addr {
			return name
		}
	}
	return fmt.Sprintf("$0x%X", addr)
}
