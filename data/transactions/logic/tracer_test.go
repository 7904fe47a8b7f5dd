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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/test/partitiontest"
)

func TestCounterSnapshots(t *testing.T) {
	partitiontest.PartitionTest(t)

	counter := bytesValue("counter")
	noScratch := map[int]basics.TealValue{}
	oneScratch := map[int]basics.TealValue{0: uintValue(1)}
	noGlobals := basics.TealKeyValue{}
	oneGlobal := basics.TealKeyValue{"counter": uintValue(1)}

	want := []Snapshot{
		{PC: 0, Line: 1, Source: `byte "counter"`, Stack: []basics.TealValue{counter}, Scratch: noScratch, Globals: noGlobals},
		{PC: 1, Line: 2, Source: "dup", Stack: []basics.TealValue{counter, counter}, Scratch: noScratch, Globals: noGlobals},
		{PC: 2, Line: 3, Source: "app_global_get", Stack: []basics.TealValue{counter, uintValue(0)}, Scratch: noScratch, Globals: noGlobals},
		{PC: 3, Line: 4, Source: "int 1", Stack: []basics.TealValue{counter, uintValue(0), uintValue(1)}, Scratch: noScratch, Globals: noGlobals},
		{PC: 4, Line: 5, Source: "+", Stack: []basics.TealValue{counter, uintValue(1)}, Scratch: noScratch, Globals: noGlobals},
		{PC: 5, Line: 6, Source: "dup", Stack: []basics.TealValue{counter, uintValue(1), uintValue(1)}, Scratch: noScratch, Globals: noGlobals},
		{PC: 6, Line: 7, Source: "store 0", Stack: []basics.TealValue{counter, uintValue(1)}, Scratch: oneScratch, Globals: noGlobals},
		{PC: 7, Line: 8, Source: "app_global_put", Stack: []basics.TealValue{}, Scratch: oneScratch, Globals: oneGlobal},
		{PC: 8, Line: 9, Source: "load 0", Stack: []basics.TealValue{uintValue(1)}, Scratch: oneScratch, Globals: oneGlobal},
		{PC: 9, Line: 10, Source: "return", Stack: []basics.TealValue{uintValue(1)}, Scratch: oneScratch, Globals: oneGlobal},
	}

	var tracer SnapshotTracer
	ep := defaultEvalParams(t, nil)
	ep.Globals = basics.TealKeyValue{}
	ep.Tracer = &tracer
	res := testEval(t, counterSource, ep)
	require.Equal(t, Accepted, res.Verdict)
	require.True(t, tracer.Verdict)
	require.NoError(t, tracer.Err)

	if diff := cmp.Diff(want, tracer.Snapshots, cmpopts.IgnoreUnexported(basics.TealValue{}), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("snapshots differ (-want +got):\n%s", diff)
	}

	// the second call starts from the committed value
	tracer = SnapshotTracer{}
	res = testEval(t, counterSource, ep)
	require.Equal(t, Accepted, res.Verdict)
	require.Equal(t, uintValue(1), tracer.Snapshots[2].Stack[1])
	require.Equal(t, basics.TealKeyValue{"counter": uintValue(2)}, tracer.Snapshots[7].Globals)
}

func TestSnapshotString(t *testing.T) {
	partitiontest.PartitionTest(t)

	var tracer SnapshotTracer
	ep := defaultEvalParams(t, nil)
	ep.Globals = basics.TealKeyValue{}
	ep.Tracer = &tracer
	testEval(t, counterSource, ep)

	require.Equal(t, `7: store 0
  stack:   ["counter", 1]
  scratch: {0: 1}
  global:  {}
`, tracer.Snapshots[6].String())
	require.Equal(t, `8: app_global_put
  stack:   []
  scratch: {0: 1}
  global:  {"counter": 1}
`, tracer.Snapshots[7].String())
	require.Contains(t, tracer.String(), "10: return\n")
}

func TestSnapshotFault(t *testing.T) {
	partitiontest.PartitionTest(t)

	var tracer SnapshotTracer
	ep := defaultEvalParams(t, nil)
	ep.Tracer = &tracer
	testFaults(t, "byte \"a\"\nsha256\n+", ep, ErrStackUnderflow)

	require.Len(t, tracer.Snapshots, 3)
	last := tracer.Snapshots[2]
	require.ErrorIs(t, last.Err, ErrStackUnderflow)
	require.Len(t, last.Stack, 1)
	require.Contains(t, last.String(), "  error:   line 3 pc=2 +: stack underflow")
	require.False(t, tracer.Verdict)
	require.ErrorIs(t, tracer.Err, ErrStackUnderflow)
}

func TestNullEvalTracer(t *testing.T) {
	partitiontest.PartitionTest(t)

	ep := defaultEvalParams(t, nil)
	ep.Tracer = NullEvalTracer{}
	testAccepts(t, "int 1", ep)
}
