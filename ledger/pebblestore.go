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
	"encoding/binary"
	"fmt"

	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/protocol"
	"github.com/algorand/go-microavm/util/kvstore"
)

// globalsKeyPrefix starts every key holding an application global.
// Keys are prefix | app (big endian) | global key.
const globalsKeyPrefix = 'g'

func appPrefix(app uint64) []byte {
	prefix := make([]byte, 9)
	prefix[0] = globalsKeyPrefix
	binary.BigEndian.PutUint64(prefix[1:], app)
	return prefix
}

func globalKey(app uint64, key string) []byte {
	return append(appPrefix(app), key...)
}

type pebbleStore struct {
	kvs kvstore.KVStore
}

func openPebbleStore(prefix string, inMem bool) (*pebbleStore, error) {
	kvs, err := kvstore.NewKVStore("pebble", prefix, inMem)
	if err != nil {
		return nil, err
	}
	return &pebbleStore{kvs: kvs}, nil
}

func (ps *pebbleStore) Load(ctx context.Context, app uint64) (basics.TealKeyValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := appPrefix(app)
	iter := ps.kvs.NewIterator(start, kvstore.PrefixEnd(start))
	defer iter.Close()

	kv := make(basics.TealKeyValue)
	for ; iter.Valid(); iter.Next() {
		key := iter.Key()[len(start):]
		buf, err := iter.Value()
		if err != nil {
			return nil, err
		}
		var value basics.TealValue
		if err := protocol.DecodeReflect(buf, &value); err != nil {
			return nil, fmt.Errorf("app %d key %q: %w", app, key, err)
		}
		kv[string(key)] = value
	}
	return kv, nil
}

func (ps *pebbleStore) Commit(ctx context.Context, app uint64, delta basics.StateDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := ps.kvs.NewBatch()
	for key, vd := range delta {
		if vd.Action == basics.DeleteAction {
			if err := batch.Delete(globalKey(app, key)); err != nil {
				batch.Cancel()
				return err
			}
			continue
		}
		value, ok := vd.ToTealValue()
		if !ok {
			batch.Cancel()
			return fmt.Errorf("cannot store %s for key %q", vd.Action, key)
		}
		if err := batch.Set(globalKey(app, key), protocol.EncodeReflect(&value)); err != nil {
			batch.Cancel()
			return err
		}
	}
	return batch.Commit()
}

func (ps *pebbleStore) Close() error {
	return ps.kvs.Close()
}
