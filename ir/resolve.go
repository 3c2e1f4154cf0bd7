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

import "fmt"

// ResolveError reports a jump or call naming a label the program never
// defines.
type ResolveError struct {
	Label string
}

func (e *ResolveError) Error() string { return fmt.Sprintf("undefined label %q", e.Label) }

// Resolve flattens prog into the final instruction stream: label
// definitions and comments are dropped, and every LabelRef operand on a
// jump or call is rewritten to a Literal holding `label_line - this_line`,
// the relative offset the VM's `next_jump` expects.
func Resolve(prog *Program) ([]*Instruction, error) {
	flat := prog.Flatten()

	addrs := make(map[string]int32, len(flat))
	var line int32
	for _, ins := range flat {
		if ins.IsComment {
			continue
		}
		if ins.IsLabel {
			addrs[ins.Op] = line
			continue
		}
		line++
	}

	out := make([]*Instruction, 0, len(flat))
	line = 0
	for _, ins := range flat {
		if ins.IsLabel || ins.IsComment {
			continue
		}
		resolved := make([]Operand, len(ins.Operands))
		for i, o := range ins.Operands {
			if o.Kind == LabelRef {
				target, ok := addrs[o.Name]
				if !ok {
					return nil, &ResolveError{Label: o.Name}
				}
				resolved[i] = Lit(target - line)
				continue
			}
			resolved[i] = o
		}
		out = append(out, &Instruction{Op: ins.Op, Operands: resolved})
		line++
	}
	return out, nil
}
