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

// Package vm implements the stack-based virtual machine that executes a
// resolved instruction stream: registers, a value stack, a flat
// memory-mapped address space shared with a host driver, and a
// single-step tick() loop.
package vm

// Cell is the raw 32-bit signed value stored in a register, stack slot,
// or memory cell.
type Cell = int32

// Register indices, fixed to match the assembly parser's register table.
const (
	GPA = iota
	GPB
	GPC
	SBP
	TSP
	FRV
	CIP
	registerCount
)

const (
	stackSize  = 256
	memorySize = 65536
)

// Status is the VM's run state.
type Status int

const (
	Empty Status = iota
	Ready
	Running
	Dead
	Complete
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Dead:
		return "Dead"
	case Complete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Flag bits in the live/next-flags byte.
const (
	FlagZero     = 1 << 0
	FlagOverflow = 1 << 1
	FlagNegative = 1 << 2
	FlagPositive = 1 << 3
)

// Option configures an Instance at construction time.
type Option func(*Instance) error

// Program loads the resolved instruction stream the Instance will run.
func Program(program []Instruction) Option {
	return func(i *Instance) error { i.program = program; return nil }
}

// Memory pre-populates the memory array, e.g. with host sensor values
// before the first tick.
func Memory(initial []Cell) Option {
	return func(i *Instance) error {
		copy(i.memory[:], initial)
		return nil
	}
}

// Instance is one running VM: registers, value stack, memory, and flags.
type Instance struct {
	regs    [registerCount]Cell
	stack   [stackSize]Cell
	memory  [memorySize]Cell
	flags   byte
	next    byte
	program []Instruction
	status  Status
	output  string
	err     error
}

// New constructs an Instance with its stack pointers at their initial
// positions (TSP and SBP both start one past the top of the stack) and
// applies opts.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{status: Empty}
	i.regs[TSP] = stackSize
	i.regs[SBP] = stackSize
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.program != nil {
		i.status = Ready
	}
	return i, nil
}

// Status reports the VM's current run state.
func (i *Instance) Status() Status { return i.status }

// Register reads register index r.
func (i *Instance) Register(r int) Cell { return i.regs[r] }

// Stack returns the live portion of the value stack, top of stack first.
func (i *Instance) Stack() []Cell {
	return i.stack[i.regs[TSP]:]
}

// Memory returns the whole flat memory array for a host driver to read
// actuator values from or write sensor values into between ticks.
func (i *Instance) Memory() []Cell { return i.memory[:] }

// Output returns the string produced by a print instruction during the
// most recent tick, or "" if none ran.
func (i *Instance) Output() string { return i.output }

// Err returns the trap error that moved the VM to Dead, if any.
func (i *Instance) Err() error { return i.err }
