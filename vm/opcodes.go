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

// Opcode enumerates the VM's instruction set.
type Opcode int

const (
	OpMov Opcode = iota
	OpStore
	OpLoad
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpCmp
	OpJmp
	OpJz
	OpJnz
	OpJn
	OpJp
	OpCall
	OpRet
	OpPop
	OpPush
	OpPrint
	OpHalt
)

var opcodeNames = [...]string{
	OpMov:   "mov",
	OpStore: "store",
	OpLoad:  "load",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpMod:   "mod",
	OpCmp:   "cmp",
	OpJmp:   "jmp",
	OpJz:    "jz",
	OpJnz:   "jnz",
	OpJn:    "jn",
	OpJp:    "jp",
	OpCall:  "call",
	OpRet:   "ret",
	OpPop:   "pop",
	OpPush:  "push",
	OpPrint: "print",
	OpHalt:  "halt",
}

// String returns the textual assembly mnemonic for op.
func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return "?"
	}
	return opcodeNames[op]
}

// OpcodeByName looks up an opcode by its case-folded mnemonic.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return Opcode(op), true
		}
	}
	return 0, false
}

// RegisterNames is the fixed register table the assembly syntax exposes.
// CIP is deliberately absent: it is never a valid mov/register operand, it
// only moves via the fetch/execute cycle and jump/call/ret.
var RegisterNames = map[string]int{
	"GPA": GPA,
	"GPB": GPB,
	"GPC": GPC,
	"SBP": SBP,
	"TSP": TSP,
	"FRV": FRV,
}

var registerNameByIndex = [...]string{
	GPA: "GPA",
	GPB: "GPB",
	GPC: "GPC",
	SBP: "SBP",
	TSP: "TSP",
	FRV: "FRV",
	CIP: "CIP",
}

// RegisterName returns the assembly name for register index r.
func RegisterName(r int) string {
	if r < 0 || r >= len(registerNameByIndex) {
		return "?"
	}
	return registerNameByIndex[r]
}
