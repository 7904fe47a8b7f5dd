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

package basics

import (
	"encoding/hex"
	"fmt"
	"maps"
)

// DeltaAction is an enum of actions that may be performed when applying a
// delta to a TEAL key/value store
type DeltaAction uint64

const (
	// SetBytesAction indicates that a TEAL byte slice should be stored at a key
	SetBytesAction DeltaAction = 1

	// SetUintAction indicates that a Uint should be stored at a key
	SetUintAction DeltaAction = 2

	// DeleteAction indicates that the value for a particular key should be deleted
	DeleteAction DeltaAction = 3
)

func (da DeltaAction) String() string {
	switch da {
	case SetBytesAction:
		return "set-bytes"
	case SetUintAction:
		return "set-uint"
	case DeleteAction:
		return "delete"
	}
	return fmt.Sprintf("DeltaAction(%d)", uint64(da))
}

// ValueDelta links a DeltaAction with a value to be set
type ValueDelta struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Action DeltaAction `codec:"at"`
	Bytes  string      `codec:"bs"`
	Uint   uint64      `codec:"ui"`
}

// ToTealValue converts a ValueDelta into a TealValue if possible, and returns
// ok = false if the conversion is not possible.
func (vd *ValueDelta) ToTealValue() (value TealValue, ok bool) {
	switch vd.Action {
	case SetBytesAction:
		value.Type = TealBytesType
		value.Bytes = vd.Bytes
		ok = true
	case SetUintAction:
		value.Type = TealUintType
		value.Uint = vd.Uint
		ok = true
	case DeleteAction:
		ok = false
	default:
		ok = false
	}
	return value, ok
}

// StateDelta is a map from key/value store keys to ValueDeltas, indicating
// what should happen for that key
type StateDelta map[string]ValueDelta

// Equal checks whether two StateDeltas are equal. We don't check for nilness
// equality because an empty map will encode/decode as nil. So if our generated
// map is empty but not nil, we want to equal a decoded nil off the wire.
func (sd StateDelta) Equal(o StateDelta) bool {
	// Lengths should be the same
	if len(sd) != len(o) {
		return false
	}
	// All keys and deltas should be the same
	for k, v := range sd {
		// Other StateDelta must contain key
		ov, ok := o[k]
		if !ok {
			return false
		}

		// Other StateDelta must have same value for key
		if ov != v {
			return false
		}
	}
	return true
}

// Valid checks whether the keys and values in a StateDelta conform to the
// byte size limit.
func (sd StateDelta) Valid(maxSize int) error {
	for key, delta := range sd {
		if len(key) > maxSize {
			return fmt.Errorf("key too long: length was %d, maximum is %d", len(key), maxSize)
		}
		if delta.Action == SetBytesAction && len(delta.Bytes) > maxSize {
			return fmt.Errorf("cannot set value for key 0x%x, too long: length was %d, maximum is %d", key, len(delta.Bytes), maxSize)
		}
	}
	return nil
}

// TealType is an enum of the types in a TEAL program: Bytes and Uint
type TealType uint64

const (
	// TealBytesType represents the type of a byte slice in a TEAL program
	TealBytesType TealType = 1

	// TealUintType represents the type of a uint in a TEAL program
	TealUintType TealType = 2
)

func (tt TealType) String() string {
	switch tt {
	case TealBytesType:
		return "b"
	case TealUintType:
		return "u"
	}
	return "?"
}

// TealValue contains type information and a value, representing a value in a
// TEAL program
type TealValue struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type TealType `codec:"tt"`
	// We use a string instead of []byte to allow copying this struct by value
	Bytes string `codec:"tb"`
	Uint  uint64 `codec:"ui"`
}

// ToValueDelta creates ValueDelta from TealValue
func (tv *TealValue) ToValueDelta() (vd ValueDelta) {
	if tv.Type == TealUintType {
		vd.Action = SetUintAction
		vd.Uint = tv.Uint
	} else {
		vd.Action = SetBytesAction
		vd.Bytes = tv.Bytes
	}
	return
}

// String prints a uint in decimal and bytes either as a quoted string, when
// they are printable, or as hex.
func (tv *TealValue) String() string {
	if tv.Type == TealBytesType {
		if isPrintable(tv.Bytes) {
			return fmt.Sprintf("%q", tv.Bytes)
		}
		return "0x" + hex.EncodeToString([]byte(tv.Bytes))
	}
	return fmt.Sprintf("%d", tv.Uint)
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// TealKeyValue represents a key/value store for use in an application's
// global state
type TealKeyValue map[string]TealValue

// Clone returns a copy of a TealKeyValue that may be modified without
// affecting the original
func (tk TealKeyValue) Clone() TealKeyValue {
	if tk == nil {
		return nil
	}
	return maps.Clone(tk)
}

// Get returns the value at key, or the zero uint when the key is absent.
// ok reports whether the key was present.
func (tk TealKeyValue) Get(key string) (value TealValue, ok bool) {
	value, ok = tk[key]
	if !ok {
		value = TealValue{Type: TealUintType}
	}
	return
}

// Apply writes every delta into tk, in place.
func (tk TealKeyValue) Apply(sd StateDelta) error {
	for key, delta := range sd {
		if delta.Action == DeleteAction {
			delete(tk, key)
			continue
		}
		value, ok := delta.ToTealValue()
		if !ok {
			return fmt.Errorf("cannot apply %s for key %q", delta.Action, key)
		}
		tk[key] = value
	}
	return nil
}

// ToStateDelta returns the deltas that turn an empty store into tk.
func (tk TealKeyValue) ToStateDelta() StateDelta {
	if len(tk) == 0 {
		return nil
	}
	sd := make(StateDelta, len(tk))
	for key, value := range tk {
		sd[key] = value.ToValueDelta()
	}
	return sd
}
