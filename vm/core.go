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

import "strconv"

func (i *Instance) push(v Cell) error {
	if i.regs[TSP] == 0 {
		return &Trap{Reason: "stack overflow"}
	}
	i.regs[TSP]--
	i.stack[i.regs[TSP]] = v
	return nil
}

func (i *Instance) pop() (Cell, error) {
	if int(i.regs[TSP]) >= stackSize {
		return 0, &Trap{Reason: "stack underflow"}
	}
	v := i.stack[i.regs[TSP]]
	i.regs[TSP]++
	return v, nil
}

func (i *Instance) setNextFlags(result Cell) {
	i.next = 0
	switch {
	case result == 0:
		i.next |= FlagZero
	case result < 0:
		i.next |= FlagNegative
	default:
		i.next |= FlagPositive
	}
}

// fail transitions the VM to Dead, stamps err with the pre-trap CIP if it
// is a *Trap, and records it for Err().
func (i *Instance) fail(err error) error {
	if t, ok := err.(*Trap); ok {
		t.CIP = int(i.regs[CIP])
	}
	i.status = Dead
	i.err = err
	return err
}

// Tick executes exactly one instruction and returns. It is a no-op once
// the VM has left the Running/Ready states. The driver is expected to
// call Tick in its own loop, reading Output() and Memory() between calls.
func (i *Instance) Tick() error {
	if i.status != Running && i.status != Ready {
		return nil
	}
	i.status = Running
	i.output = ""

	cip := int(i.regs[CIP])
	if cip < 0 || cip >= len(i.program) {
		i.status = Complete
		return nil
	}
	ins := i.program[cip]
	var nextJump Cell = 1

	switch ins.Op {
	case OpMov:
		v, err := i.immediate(ins.Operands[1])
		if err != nil {
			return i.fail(err)
		}
		if err := i.writeTo(ins.Operands[0], v); err != nil {
			return i.fail(err)
		}

	case OpStore:
		v, err := i.immediate(ins.Operands[1])
		if err != nil {
			return i.fail(err)
		}
		addr, err := i.address(ins.Operands[0])
		if err != nil {
			return i.fail(err)
		}
		i.memory[addr] = v

	case OpLoad:
		if ins.Operands[0].Kind != OperandRegister {
			return i.fail(&Trap{Reason: "load destination must be a register"})
		}
		v, err := i.full(ins.Operands[1])
		if err != nil {
			return i.fail(err)
		}
		i.regs[ins.Operands[0].Reg] = v

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		dst, src := ins.Operands[0], ins.Operands[1]
		if dst.Kind != OperandRegister {
			return i.fail(&Trap{Reason: "arithmetic destination must be a register"})
		}
		if src.Kind != OperandLiteral && src.Kind != OperandRegister {
			return i.fail(&Trap{Reason: "arithmetic source must be a register or literal (stack/memory trap)"})
		}
		a := i.regs[dst.Reg]
		b, err := i.immediate(src)
		if err != nil {
			return i.fail(err)
		}
		var result Cell
		switch ins.Op {
		case OpAdd:
			result = a + b
		case OpSub:
			result = a - b
		case OpMul:
			result = a * b
		case OpDiv:
			if b == 0 {
				return i.fail(&Trap{Reason: "division by zero"})
			}
			result = a / b
		case OpMod:
			if b == 0 {
				return i.fail(&Trap{Reason: "division by zero"})
			}
			result = a % b
		}
		i.regs[dst.Reg] = result
		i.setNextFlags(result)

	case OpCmp:
		a, err := i.immediate(ins.Operands[0])
		if err != nil {
			return i.fail(err)
		}
		b, err := i.immediate(ins.Operands[1])
		if err != nil {
			return i.fail(err)
		}
		i.setNextFlags(a - b)

	case OpJmp:
		v, err := i.full(ins.Operands[0])
		if err != nil {
			return i.fail(err)
		}
		nextJump = v

	case OpJz, OpJnz, OpJn, OpJp:
		var bit byte
		var want bool
		switch ins.Op {
		case OpJz:
			bit, want = FlagZero, true
		case OpJnz:
			bit, want = FlagZero, false
		case OpJn:
			bit, want = FlagNegative, true
		case OpJp:
			bit, want = FlagPositive, true
		}
		if (i.flags&bit != 0) == want {
			v, err := i.full(ins.Operands[0])
			if err != nil {
				return i.fail(err)
			}
			nextJump = v
		}

	case OpCall:
		if err := i.push(i.regs[CIP] + 1); err != nil {
			return i.fail(err)
		}
		v, err := i.full(ins.Operands[0])
		if err != nil {
			return i.fail(err)
		}
		nextJump = v

	case OpRet:
		r, err := i.pop()
		if err != nil {
			return i.fail(err)
		}
		nextJump = r - i.regs[CIP]

	case OpPop:
		v, err := i.pop()
		if err != nil {
			return i.fail(err)
		}
		if ins.NumOps > 0 {
			if err := i.writeTo(ins.Operands[0], v); err != nil {
				return i.fail(err)
			}
		}

	case OpPush:
		v, err := i.immediate(ins.Operands[0])
		if err != nil {
			return i.fail(err)
		}
		if err := i.push(v); err != nil {
			return i.fail(err)
		}

	case OpPrint:
		v, err := i.full(ins.Operands[0])
		if err != nil {
			return i.fail(err)
		}
		i.output = strconv.Itoa(int(v))

	case OpHalt:
		i.status = Complete
		return nil

	default:
		return i.fail(&Trap{Reason: "unknown opcode"})
	}

	i.flags = i.next
	i.next = 0
	i.regs[CIP] += nextJump
	if int(i.regs[CIP]) < 0 || int(i.regs[CIP]) >= len(i.program) {
		i.status = Complete
	}
	return nil
}

// Run ticks the VM until it leaves the Running state, a convenience for
// non-interactive drivers such as tests.
// Interactive drivers (a TUI, a game loop syncing memory-mapped I/O every
// frame) should call Tick directly instead.
func (i *Instance) Run() error {
	if i.status == Ready {
		i.status = Running
	}
	for i.status == Running {
		if err := i.Tick(); err != nil {
			return err
		}
	}
	return i.err
}
