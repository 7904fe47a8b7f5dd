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
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/protocol"
	"github.com/algorand/go-microavm/util/db"
)

// stateSchemaVersion is stored in the sqlite user_version pragma.
const stateSchemaVersion = 1

var stateSchema = []string{
	`CREATE TABLE IF NOT EXISTS appglobals (
		app integer NOT NULL,
		key blob NOT NULL,
		value blob NOT NULL,
		PRIMARY KEY (app, key))`,
}

type sqliteStore struct {
	accessor db.Accessor
}

func openSQLiteStore(ctx context.Context, prefix string, inMem bool) (*sqliteStore, error) {
	filename := prefix + ".sqlite"
	if inMem {
		// shared-cache memory databases are per name
		filename = fmt.Sprintf("%s-%s.sqlite", prefix, uuid.NewString())
	}
	accessor, err := db.MakeAccessor(filename, false, inMem)
	if err != nil {
		return nil, err
	}
	err = accessor.Atomic(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return initStateSchema(ctx, tx)
	})
	if err != nil {
		accessor.Close()
		return nil, err
	}
	return &sqliteStore{accessor: accessor}, nil
}

func initStateSchema(ctx context.Context, tx *sql.Tx) error {
	version, err := db.GetUserVersion(ctx, tx)
	if err != nil {
		return err
	}
	switch {
	case version == stateSchemaVersion:
		return nil
	case version > stateSchemaVersion:
		return fmt.Errorf("%w: state schema version %d is newer than %d", ErrSchemaVersion, version, stateSchemaVersion)
	}
	for _, stmt := range stateSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err = db.SetUserVersion(ctx, tx, stateSchemaVersion)
	return err
}

// App ids are stored as signed integers; ids with the high bit set wrap
// negative and stay distinct.
func (ss *sqliteStore) Load(ctx context.Context, app uint64) (kv basics.TealKeyValue, err error) {
	err = ss.accessor.Atomic(ctx, func(ctx context.Context, tx *sql.Tx) error {
		kv = make(basics.TealKeyValue)
		rows, err := tx.QueryContext(ctx, "SELECT key, value FROM appglobals WHERE app = ?", int64(app))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var key, buf []byte
			if err := rows.Scan(&key, &buf); err != nil {
				return err
			}
			var value basics.TealValue
			if err := protocol.DecodeReflect(buf, &value); err != nil {
				return fmt.Errorf("app %d key %q: %w", app, key, err)
			}
			kv[string(key)] = value
		}
		return rows.Err()
	})
	return
}

func (ss *sqliteStore) Commit(ctx context.Context, app uint64, delta basics.StateDelta) error {
	return ss.accessor.Atomic(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for key, vd := range delta {
			if vd.Action == basics.DeleteAction {
				_, err := tx.ExecContext(ctx, "DELETE FROM appglobals WHERE app = ? AND key = ?", int64(app), []byte(key))
				if err != nil {
					return err
				}
				continue
			}
			value, ok := vd.ToTealValue()
			if !ok {
				return fmt.Errorf("cannot store %s for key %q", vd.Action, key)
			}
			_, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO appglobals (app, key, value) VALUES (?, ?, ?)",
				int64(app), []byte(key), protocol.EncodeReflect(&value))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (ss *sqliteStore) Close() error {
	ss.accessor.Close()
	return nil
}
