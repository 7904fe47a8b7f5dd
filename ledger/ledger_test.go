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

package ledger

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/data/transactions/logic"
	"github.com/algorand/go-microavm/logging"
	"github.com/algorand/go-microavm/test/partitiontest"
)

const counterSource = `#pragma version 1
byte "counter"
dup
app_global_get
int 1
+
dup
store 0
app_global_put
load 0
return`

var backends = []string{config.BackendMemory, config.BackendSQLite, config.BackendPebble}

func counterProgram(t testing.TB) *logic.Program {
	prog, err := logic.AssembleString(counterSource)
	require.NoError(t, err)
	return prog
}

func testLedger(t testing.TB, backend string, dir string) *Ledger {
	cfg := config.GetDefaultLocal()
	cfg.StateBackend = backend
	l, err := Open(context.Background(), cfg, dir)
	require.NoError(t, err)
	l.SetLogger(logging.TestingLog(t))
	return l
}

func counterValue(n uint64) basics.TealKeyValue {
	return basics.TealKeyValue{"counter": {Type: basics.TealUintType, Uint: n}}
}

func TestCounterPersists(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, backend := range backends {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			ctx := context.Background()
			l := testLedger(t, backend, "")
			defer l.Close()

			prog := counterProgram(t)
			for i := uint64(1); i <= 2; i++ {
				res, err := l.Call(ctx, AppCall{App: 7, Program: prog})
				require.NoError(t, err)
				require.Equal(t, logic.Accepted, res.Verdict)
				require.True(t, res.Committed)

				kv, err := l.Globals(ctx, 7)
				require.NoError(t, err)
				require.Equal(t, counterValue(i), kv)
			}

			// other applications are untouched
			kv, err := l.Globals(ctx, 8)
			require.NoError(t, err)
			require.Empty(t, kv)
		})
	}
}

func TestCounterPersistsAcrossOpen(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, backend := range []string{config.BackendSQLite, config.BackendPebble} {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			ctx := context.Background()
			dir := t.TempDir()
			prog := counterProgram(t)

			l := testLedger(t, backend, dir)
			_, err := l.Call(ctx, AppCall{App: 1, Program: prog})
			require.NoError(t, err)
			require.NoError(t, l.Close())

			l = testLedger(t, backend, dir)
			defer l.Close()
			res, err := l.Call(ctx, AppCall{App: 1, Program: prog})
			require.NoError(t, err)
			require.Equal(t, logic.Accepted, res.Verdict)
			require.Equal(t, uint64(2), res.Stack[0].Uint)

			kv, err := l.Globals(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, counterValue(2), kv)
		})
	}
}

func TestRejectedNotPersisted(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, backend := range backends {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			ctx := context.Background()
			l := testLedger(t, backend, "")
			defer l.Close()

			rejecting, err := logic.AssembleString("byte \"counter\"\nint 5\napp_global_put\nint 0\nreturn")
			require.NoError(t, err)
			faulting, err := logic.AssembleString("byte \"x\"\nint 5\napp_global_put\nerr")
			require.NoError(t, err)

			res, err := l.Call(ctx, AppCall{App: 3, Program: rejecting})
			require.NoError(t, err)
			require.Equal(t, logic.Rejected, res.Verdict)
			require.False(t, res.Committed)

			res, err = l.Call(ctx, AppCall{App: 3, Program: faulting})
			require.NoError(t, err)
			require.Equal(t, logic.Faulted, res.Verdict)
			require.ErrorIs(t, res.Err, logic.ErrOpcode)

			kv, err := l.Globals(ctx, 3)
			require.NoError(t, err)
			require.Empty(t, kv)
		})
	}
}

func TestDeletePersisted(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, backend := range backends {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			ctx := context.Background()
			l := testLedger(t, backend, "")
			defer l.Close()

			put, err := logic.AssembleString("byte \"a\"\nbyte \"x\"\napp_global_put\nbyte \"b\"\nint 2\napp_global_put\nint 1")
			require.NoError(t, err)
			del, err := logic.AssembleString("byte \"a\"\napp_global_del\nint 1")
			require.NoError(t, err)

			_, err = l.Call(ctx, AppCall{App: 9, Program: put})
			require.NoError(t, err)
			kv, err := l.Globals(ctx, 9)
			require.NoError(t, err)
			require.Equal(t, basics.TealKeyValue{
				"a": {Type: basics.TealBytesType, Bytes: "x"},
				"b": {Type: basics.TealUintType, Uint: 2},
			}, kv)

			_, err = l.Call(ctx, AppCall{App: 9, Program: del})
			require.NoError(t, err)
			kv, err = l.Globals(ctx, 9)
			require.NoError(t, err)
			require.Equal(t, basics.TealKeyValue{"b": {Type: basics.TealUintType, Uint: 2}}, kv)
		})
	}
}

func TestCallAppFromTxn(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	l := testLedger(t, config.BackendMemory, "")
	defer l.Close()

	prog, err := logic.AssembleString("txn ApplicationID\nint 42\n==")
	require.NoError(t, err)

	var txn transactions.SignedTxn
	txn.Txn.ApplicationID = 42
	res, err := l.Call(ctx, AppCall{Program: prog, Txn: txn})
	require.NoError(t, err)
	require.Equal(t, logic.Accepted, res.Verdict)

	// App overrides the transaction
	res, err = l.Call(ctx, AppCall{App: 5, Program: prog, Txn: txn})
	require.NoError(t, err)
	require.Equal(t, logic.Rejected, res.Verdict)

	_, err = l.Call(ctx, AppCall{Program: prog})
	require.ErrorIs(t, err, ErrNoApplication)
}

func TestCallTrace(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := testLedger(t, config.BackendMemory, "")
	defer l.Close()

	var trace strings.Builder
	var snaps logic.SnapshotTracer
	res, err := l.Call(context.Background(), AppCall{App: 1, Program: counterProgram(t), Trace: &trace, Tracer: &snaps})
	require.NoError(t, err)
	require.Equal(t, logic.Accepted, res.Verdict)
	require.Len(t, snaps.Snapshots, 10)
	require.Equal(t, 10, strings.Count(trace.String(), "\n"))
}

func TestCallGroup(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	for _, backend := range backends {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			l := testLedger(t, backend, "")
			defer l.Close()

			prog := counterProgram(t)
			var calls []AppCall
			for i := 0; i < 5; i++ {
				for app := uint64(1); app <= 3; app++ {
					calls = append(calls, AppCall{App: app, Program: prog})
				}
			}
			results, err := l.CallGroup(ctx, calls)
			require.NoError(t, err)
			require.Len(t, results, len(calls))
			for i, res := range results {
				require.Equal(t, logic.Accepted, res.Verdict)
				// calls to one app ran in submission order
				require.Equal(t, uint64(i/3+1), res.Stack[0].Uint)
			}
			for app := uint64(1); app <= 3; app++ {
				kv, err := l.Globals(ctx, app)
				require.NoError(t, err)
				require.Equal(t, counterValue(5), kv)
			}

			_, err = l.CallGroup(ctx, []AppCall{{Program: prog}})
			require.ErrorIs(t, err, ErrNoApplication)
		})
	}
}

func TestConcurrentCallsSerialized(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	l := testLedger(t, config.BackendSQLite, "")
	defer l.Close()

	prog := counterProgram(t)
	var wg sync.WaitGroup
	const callers = 8
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Call(ctx, AppCall{App: 11, Program: prog})
			require.NoError(t, err)
			require.Equal(t, logic.Accepted, res.Verdict)
		}()
	}
	wg.Wait()

	kv, err := l.Globals(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, counterValue(callers), kv)
}

func TestOpenUnknownBackend(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := config.GetDefaultLocal()
	cfg.StateBackend = "leveldb"
	_, err := Open(context.Background(), cfg, "")
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestClosed(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := testLedger(t, config.BackendMemory, "")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	_, err := l.Call(context.Background(), AppCall{App: 1, Program: counterProgram(t)})
	require.ErrorIs(t, err, ErrClosed)
	_, err = l.Globals(context.Background(), 1)
	require.ErrorIs(t, err, ErrClosed)
}

// blockingTracer holds an evaluation at its start until release is closed.
type blockingTracer struct {
	logic.NullEvalTracer
	started chan struct{}
	release chan struct{}
}

func (bt *blockingTracer) BeforeProgram(cx *logic.EvalContext) {
	close(bt.started)
	<-bt.release
}

func TestCloseWaitsForCalls(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, backend := range []string{config.BackendSQLite, config.BackendPebble} {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			ctx := context.Background()
			dir := t.TempDir()
			l := testLedger(t, backend, dir)

			bt := &blockingTracer{started: make(chan struct{}), release: make(chan struct{})}
			type outcome struct {
				res logic.Result
				err error
			}
			called := make(chan outcome, 1)
			go func() {
				res, err := l.Call(ctx, AppCall{App: 1, Program: counterProgram(t), Tracer: bt})
				called <- outcome{res, err}
			}()
			<-bt.started

			closed := make(chan error, 1)
			go func() {
				closed <- l.Close()
			}()
			select {
			case <-closed:
				t.Fatal("Close returned while a call was running")
			case <-time.After(50 * time.Millisecond):
			}

			// calls that start after Close are refused
			_, err := l.Globals(ctx, 2)
			require.ErrorIs(t, err, ErrClosed)

			close(bt.release)
			out := <-called
			require.NoError(t, out.err)
			require.Equal(t, logic.Accepted, out.res.Verdict)
			require.True(t, out.res.Committed)
			require.NoError(t, <-closed)

			l = testLedger(t, backend, dir)
			defer l.Close()
			kv, err := l.Globals(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, counterValue(1), kv)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, backend := range backends {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			partitiontest.PartitionTest(t)
			l := testLedger(t, backend, "")
			defer l.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := l.Call(ctx, AppCall{App: 1, Program: counterProgram(t)})
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}
