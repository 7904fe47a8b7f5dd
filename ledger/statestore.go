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
	"fmt"
	"path/filepath"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
)

// StateStore keeps application global state between calls.
type StateStore interface {
	// Load returns the globals of app. An application that was never
	// written has an empty, non-nil store.
	Load(ctx context.Context, app uint64) (basics.TealKeyValue, error)

	// Commit applies delta to the globals of app atomically.
	Commit(ctx context.Context, app uint64, delta basics.StateDelta) error

	Close() error
}

// openStateStore opens the backend named by cfg.StateBackend under dir. An
// empty dir keeps the sqlite and pebble stores in memory.
func openStateStore(ctx context.Context, cfg config.Local, dir string) (StateStore, error) {
	inMem := dir == ""
	prefix := filepath.Join(dir, config.StateFilenamePrefix)
	switch cfg.StateBackend {
	case config.BackendMemory, "":
		return makeMemoryStore(), nil
	case config.BackendSQLite:
		return openSQLiteStore(ctx, prefix, inMem)
	case config.BackendPebble:
		return openPebbleStore(prefix, inMem)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StateBackend)
}

type memoryStore struct {
	mu   deadlock.RWMutex
	apps map[uint64]basics.TealKeyValue
}

func makeMemoryStore() *memoryStore {
	return &memoryStore{apps: make(map[uint64]basics.TealKeyValue)}
}

func (ms *memoryStore) Load(ctx context.Context, app uint64) (basics.TealKeyValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	kv := ms.apps[app].Clone()
	if kv == nil {
		kv = make(basics.TealKeyValue)
	}
	return kv, nil
}

func (ms *memoryStore) Commit(ctx context.Context, app uint64, delta basics.StateDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	kv := ms.apps[app].Clone()
	if kv == nil {
		kv = make(basics.TealKeyValue)
	}
	if err := kv.Apply(delta); err != nil {
		return err
	}
	ms.apps[app] = kv
	return nil
}

func (ms *memoryStore) Close() error {
	return nil
}
