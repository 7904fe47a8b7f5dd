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
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/data/transactions/logic"
	"github.com/algorand/go-microavm/logging"
	"github.com/algorand/go-microavm/serr"
	"github.com/algorand/go-microavm/util/metrics"
)

// Ledger runs application calls against persisted global state. Calls to
// one application are serialized; calls to different applications may run
// concurrently.
type Ledger struct {
	cfg     config.Local
	store   StateStore
	log     logging.Logger
	metrics *metrics.EvalMetrics

	locksMu deadlock.Mutex
	locks   map[uint64]*deadlock.Mutex
	closed  bool
}

// AppCall is one invocation of an application's program.
type AppCall struct {
	// App is the application called. When 0, Txn.Txn.ApplicationID is used.
	App     uint64
	Program *logic.Program
	Txn     transactions.SignedTxn

	// Trace, when set, receives the text trace of the evaluation.
	Trace *strings.Builder

	// Tracer, when set, receives the evaluation hooks.
	Tracer logic.EvalTracer
}

func (call AppCall) app() uint64 {
	if call.App != 0 {
		return call.App
	}
	return call.Txn.Txn.ApplicationID
}

// Open opens the state store selected by cfg under dir. An empty dir keeps
// state in memory for the life of the Ledger.
func Open(ctx context.Context, cfg config.Local, dir string) (*Ledger, error) {
	store, err := openStateStore(ctx, cfg, dir)
	if err != nil {
		return nil, serr.Extend(err, "backend", cfg.StateBackend, "dir", dir)
	}
	l := &Ledger{
		cfg:   cfg,
		store: store,
		log:   logging.Base(),
		locks: make(map[uint64]*deadlock.Mutex),
	}
	if cfg.EnableMetrics {
		l.metrics, err = metrics.MakeEvalMetrics(metrics.DefaultRegistry())
		if err != nil {
			store.Close()
			return nil, err
		}
	}
	return l, nil
}

// SetLogger sets the Logger used for call records, mainly for unit test quietness
func (l *Ledger) SetLogger(log logging.Logger) {
	l.log = log
}

// Close releases the state store once the calls in progress have finished.
// Calls made afterwards fail with ErrClosed.
func (l *Ledger) Close() error {
	l.locksMu.Lock()
	if l.closed {
		l.locksMu.Unlock()
		return nil
	}
	l.closed = true
	locks := make([]*deadlock.Mutex, 0, len(l.locks))
	for _, mu := range l.locks {
		locks = append(locks, mu)
	}
	l.locksMu.Unlock()

	for _, mu := range locks {
		mu.Lock()
		defer mu.Unlock()
	}
	return l.store.Close()
}

// lockApp serializes the caller with every other call to app. The returned
// function releases the lock.
func (l *Ledger) lockApp(app uint64) (func(), error) {
	l.locksMu.Lock()
	if l.closed {
		l.locksMu.Unlock()
		return nil, ErrClosed
	}
	mu, ok := l.locks[app]
	if !ok {
		mu = &deadlock.Mutex{}
		l.locks[app] = mu
	}
	l.locksMu.Unlock()

	mu.Lock()
	// Close may have started while we waited.
	l.locksMu.Lock()
	closed := l.closed
	l.locksMu.Unlock()
	if closed {
		mu.Unlock()
		return nil, ErrClosed
	}
	return mu.Unlock, nil
}

// Globals returns a copy of the persisted global state of app.
func (l *Ledger) Globals(ctx context.Context, app uint64) (basics.TealKeyValue, error) {
	unlock, err := l.lockApp(app)
	if err != nil {
		return nil, err
	}
	defer unlock()
	kv, err := l.store.Load(ctx, app)
	if err != nil {
		l.metrics.StoreError()
		return nil, serr.Extend(err, "app", app)
	}
	return kv, nil
}

// Call evaluates call against the current globals of its application and
// persists the changes of an accepted program. A program that rejects or
// faults is not an error: its outcome is in the Result. The error reports
// only failures to reach or update the state store.
func (l *Ledger) Call(ctx context.Context, call AppCall) (logic.Result, error) {
	app := call.app()
	if app == 0 {
		return logic.Result{}, ErrNoApplication
	}
	unlock, err := l.lockApp(app)
	if err != nil {
		return logic.Result{}, err
	}
	defer unlock()

	exec := uuid.New()
	log := l.log.WithFields(logging.Fields{"exec": exec.String(), "app": app})

	globals, err := l.store.Load(ctx, app)
	if err != nil {
		l.metrics.StoreError()
		return logic.Result{}, serr.Extend(err, "app", app, "exec", exec.String())
	}

	txn := call.Txn
	txn.Txn.ApplicationID = app
	params := logic.NewEvalParams(&txn, globals)
	params.Strict = l.cfg.StrictEndOfProgram
	params.Trace = call.Trace
	params.Tracer = call.Tracer
	params.Logger = log

	start := time.Now()
	res, _ := logic.Eval(call.Program, params)
	l.metrics.Observe(res.Verdict.String(), res.Steps, time.Since(start))

	log = log.WithFields(logging.Fields{"verdict": res.Verdict.String(), "steps": res.Steps})
	if res.Err != nil {
		log.Warnf("program faulted: %v", res.Err)
	} else {
		log.Infof("program %s", res.Verdict)
	}

	if res.Committed && len(res.Delta) > 0 {
		if err := l.store.Commit(ctx, app, res.Delta); err != nil {
			l.metrics.StoreError()
			return res, serr.Extend(err, "app", app, "exec", exec.String())
		}
	}
	return res, nil
}

// CallGroup evaluates calls and returns their results in the same order.
// Calls to one application run in submission order; applications run
// concurrently, at most cfg.MaxConcurrentApps at a time.
func (l *Ledger) CallGroup(ctx context.Context, calls []AppCall) ([]logic.Result, error) {
	results := make([]logic.Result, len(calls))

	var order []uint64
	byApp := make(map[uint64][]int)
	for i, call := range calls {
		app := call.app()
		if app == 0 {
			return nil, serr.Extend(ErrNoApplication, "index", i)
		}
		if _, ok := byApp[app]; !ok {
			order = append(order, app)
		}
		byApp[app] = append(byApp[app], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	if l.cfg.MaxConcurrentApps > 0 {
		g.SetLimit(l.cfg.MaxConcurrentApps)
	}
	for _, app := range order {
		indexes := byApp[app]
		g.Go(func() error {
			for _, i := range indexes {
				res, err := l.Call(gctx, calls[i])
				results[i] = res
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
