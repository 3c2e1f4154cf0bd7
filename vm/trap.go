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

import "fmt"

// Trap is a VM runtime fault: stack over/underflow, division by zero, an
// invalid operand combination, or an out-of-range memory/register access.
// A Trap always carries the CIP of the instruction that raised it.
type Trap struct {
	CIP    int
	Reason string
	Value  int
}

func (t *Trap) Error() string {
	if t.Value != 0 {
		return fmt.Sprintf("vm trap at CIP=%d: %s (%d)", t.CIP, t.Reason, t.Value)
	}
	return fmt.Sprintf("vm trap at CIP=%d: %s", t.CIP, t.Reason)
}
