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

// Command talonvm loads a resolved assembly file and executes it, either
// headlessly (run to halt, print output) or interactively (single-step on
// a keypress).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/talonlang/talon/asm"
	"github.com/talonlang/talon/vm"
)

var (
	interactive bool
	dump        bool
	stats       bool
	debug       bool
)

func atExit(i *vm.Instance, err error) {
	if err == nil {
		if i != nil && i.Status() == vm.Dead {
			os.Exit(1)
		}
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
	flag.BoolVar(&interactive, "step", false, "interactive step-by-step execution (raw keypresses advance one tick)")
	flag.BoolVar(&dump, "dump", false, "disassemble the loaded program to stdout on exit")
	flag.BoolVar(&stats, "stats", false, "print instruction count and elapsed time on exit")
	flag.BoolVar(&debug, "debug", false, "print a full error stack trace on failure")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: talonvm [flags] <assembly-file>")
		os.Exit(2)
	}
	asmFileName := flag.Arg(0)

	f, err := os.Open(asmFileName)
	if err != nil {
		atExit(nil, errors.Wrapf(err, "opening %s", asmFileName))
		return
	}
	instrs, err := asm.Assemble(asmFileName, f)
	f.Close()
	if err != nil {
		atExit(nil, errors.Wrap(err, "assembling"))
		return
	}

	i, err := vm.New(vm.Program(instrs))
	if err != nil {
		atExit(nil, errors.Wrap(err, "initializing VM"))
		return
	}

	var runErr error
	start := time.Now()
	ticks := 0
	if interactive {
		runErr = runInteractive(i, &ticks)
	} else {
		runErr = runHeadless(i, &ticks)
	}
	elapsed := time.Since(start)

	if dump {
		fmt.Println(asm.Disassemble(instrs))
	}
	if stats {
		fmt.Fprintf(os.Stderr, "Executed %d instructions in %v.\n", ticks, elapsed)
	}
	atExit(i, runErr)
}

// runHeadless ticks the VM to completion, writing every print output as
// its own line to stdout as it is produced.
func runHeadless(i *vm.Instance, ticks *int) error {
	for i.Status() == vm.Ready || i.Status() == vm.Running {
		if err := i.Tick(); err != nil {
			return err
		}
		*ticks++
		if o := i.Output(); o != "" {
			fmt.Println(o)
		}
	}
	return nil
}

// runInteractive steps the VM one tick per keypress, echoing output and
// register state between steps. It falls back to line-buffered stepping
// (Enter to advance) if raw mode cannot be established.
func runInteractive(i *vm.Instance, ticks *int) error {
	tearDown, rawErr := setRawIO()
	if tearDown != nil {
		defer tearDown()
	}
	var advance func() bool
	if rawErr == nil {
		advance = func() bool {
			var buf [1]byte
			_, err := os.Stdin.Read(buf[:])
			return err == nil
		}
	} else {
		r := bufio.NewReader(os.Stdin)
		advance = func() bool {
			_, err := r.ReadString('\n')
			return err == nil
		}
	}

	for i.Status() == vm.Ready || i.Status() == vm.Running {
		fmt.Printf("CIP=%d GPA=%d GPB=%d GPC=%d SBP=%d TSP=%d FRV=%d -- press a key to step\n",
			i.Register(vm.CIP), i.Register(vm.GPA), i.Register(vm.GPB), i.Register(vm.GPC),
			i.Register(vm.SBP), i.Register(vm.TSP), i.Register(vm.FRV))
		if !advance() {
			return nil
		}
		if err := i.Tick(); err != nil {
			return err
		}
		*ticks++
		if o := i.Output(); o != "" {
			fmt.Println(o)
		}
	}
	return nil
}
