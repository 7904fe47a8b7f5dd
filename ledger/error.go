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
	"errors"
)

// ErrUnknownBackend is returned by Open for a StateBackend it does not know.
var ErrUnknownBackend = errors.New("unknown state backend")

// ErrSchemaVersion is returned when a state database was written by a newer version.
var ErrSchemaVersion = errors.New("unsupported state schema version")

// ErrNoApplication is returned for a call that names no application.
var ErrNoApplication = errors.New("application id is 0")

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("ledger is closed")
