// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package logic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/algorand/go-microavm/data/basics"
)

// EvalTracer functions are called by eval function during AVM program execution, if a tracer
// is provided.
//
// Refer to the lifecycle graph below for the sequence in which hooks are called.
//
//	┌──────────────────────────┐
//	│ Program                  │
//	│ ┌──────────────────────┐ │
//	│ │ Opcode Execution     │ │
//	│ │                      │ │
//	│ │ BeforeOpcode         │ │
//	│ │ AfterOpcode          │ │
//	│ └──────────────────────┘ │
//	│                          │
//	│ BeforeProgram            │
//	│ AfterProgram             │
//	└──────────────────────────┘
//
// A faulting opcode still gets its AfterOpcode call, with the fault.
type EvalTracer interface {
	// BeforeProgram is called before a program is evaluated.
	BeforeProgram(cx *EvalContext)

	// AfterProgram is called after a program is evaluated, once the verdict
	// is known and before the result is returned.
	AfterProgram(cx *EvalContext, pass bool, evalError error)

	// BeforeOpcode is called before the op is evaluated
	BeforeOpcode(cx *EvalContext)

	// AfterOpcode is called after the op has been evaluated
	AfterOpcode(cx *EvalContext, evalError error)
}

// NullEvalTracer implements EvalTracer, but all of its hook methods do nothing
type NullEvalTracer struct{}

// BeforeProgram does nothing
func (n NullEvalTracer) BeforeProgram(cx *EvalContext) {}

// AfterProgram does nothing
func (n NullEvalTracer) AfterProgram(cx *EvalContext, pass bool, evalError error) {}

// BeforeOpcode does nothing
func (n NullEvalTracer) BeforeOpcode(cx *EvalContext) {}

// AfterOpcode does nothing
func (n NullEvalTracer) AfterOpcode(cx *EvalContext, evalError error) {}

// Snapshot is the machine state right after one instruction ran.
type Snapshot struct {
	PC     int
	Line   int
	Source string

	Stack []basics.TealValue

	// Scratch holds only the slots that are not uint 0.
	Scratch map[int]basics.TealValue

	// Globals is the global store as the program sees it, staged writes
	// included.
	Globals basics.TealKeyValue

	Err error
}

// String renders the snapshot in the walkthrough layout:
//
//	3: app_global_get
//	  stack:   ["counter", 0]
//	  scratch: {}
//	  global:  {}
func (s Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d: %s\n", s.Line, s.Source)

	stack := make([]string, len(s.Stack))
	for i := range s.Stack {
		stack[i] = s.Stack[i].String()
	}
	fmt.Fprintf(&sb, "  stack:   [%s]\n", strings.Join(stack, ", "))

	slots := make([]int, 0, len(s.Scratch))
	for slot := range s.Scratch {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	scratch := make([]string, len(slots))
	for i, slot := range slots {
		tv := s.Scratch[slot]
		scratch[i] = fmt.Sprintf("%d: %s", slot, tv.String())
	}
	fmt.Fprintf(&sb, "  scratch: {%s}\n", strings.Join(scratch, ", "))

	keys := make([]string, 0, len(s.Globals))
	for key := range s.Globals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	globals := make([]string, len(keys))
	for i, key := range keys {
		tv := s.Globals[key]
		globals[i] = fmt.Sprintf("%q: %s", key, tv.String())
	}
	fmt.Fprintf(&sb, "  global:  {%s}\n", strings.Join(globals, ", "))

	if s.Err != nil {
		fmt.Fprintf(&sb, "  error:   %v\n", s.Err)
	}
	return sb.String()
}

// SnapshotTracer records a Snapshot after every instruction.
type SnapshotTracer struct {
	NullEvalTracer

	Snapshots []Snapshot
	Verdict   bool
	Err       error
}

// BeforeProgram resets the recording.
func (st *SnapshotTracer) BeforeProgram(cx *EvalContext) {
	st.Snapshots = nil
	st.Verdict = false
	st.Err = nil
}

// AfterOpcode records the state the instruction left behind.
func (st *SnapshotTracer) AfterOpcode(cx *EvalContext, evalError error) {
	inst := cx.instruction()
	st.Snapshots = append(st.Snapshots, Snapshot{
		PC:      cx.PC(),
		Line:    inst.Line,
		Source:  inst.String(),
		Stack:   cx.StackValues(),
		Scratch: cx.ScratchValues(),
		Globals: cx.GlobalState(),
		Err:     evalError,
	})
}

// AfterProgram records the outcome.
func (st *SnapshotTracer) AfterProgram(cx *EvalContext, pass bool, evalError error) {
	st.Verdict = pass
	st.Err = evalError
}

// String renders every snapshot.
func (st *SnapshotTracer) String() string {
	var sb strings.Builder
	for _, s := range st.Snapshots {
		sb.WriteString(s.String())
	}
	return sb.String()
}
