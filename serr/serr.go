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

package serr

import (
	"errors"
	"strings"

	"golang.org/x/exp/slog"
)

// Error is a structured error object. It contains a message and an arbitrary
// set of attributes. If the message contains "%A", it will be replaced by the
// attributes (in no guaranteed order) when Error() is called.
type Error struct {
	Msg     string
	Attrs   map[string]any
	Wrapped error
}

// New creates a new structured error object using the supplied message and attributes.
func New(msg string, pairs ...any) *Error {
	attrs := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		attrs[pairs[i].(string)] = pairs[i+1]
	}
	return &Error{Msg: msg, Attrs: attrs}
}

// Error returns error message. It is either the exact supplied message, the
// serialized attributes if the supplied message was blank, or the message with
// %A replaced by the attributes.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.AttributesAsString()
	}
	if strings.Contains(e.Msg, "%A") {
		return strings.Replace(e.Msg, "%A", e.AttributesAsString(), -1)
	}
	return e.Msg
}

// AttributesAsString returns the attributes the same way that slog serializes
// attributes to text in a log message, in no guaranteed order.
func (e *Error) AttributesAsString() string {
	var buf strings.Builder
	args := make([]any, 0, 2*len(e.Attrs))
	for key, val := range e.Attrs {
		args = append(args, key)
		args = append(args, val)
	}
	l := slog.New(slog.NewTextHandler(&buf, nil))
	l.Info("", args...)
	// drop the time, level and msg prefixes
	return strings.TrimSuffix(strings.SplitN(buf.String(), " ", 4)[3], "\n")
}

// Extend adds additional attributes to an existing error. If the supplied error
// is nil, a new structured error is created with the given attributes and no
// message. If the error is not a structured error, it is wrapped in one using
// its existing message and the new attributes.
func Extend(err error, pairs ...any) error {
	if err == nil {
		return New("", pairs...)
	}
	var serr *Error
	if ok := errors.As(err, &serr); ok {
		for i := 0; i < len(pairs); i += 2 {
			serr.Attrs[pairs[i].(string)] = pairs[i+1]
		}
		return err
	}
	return wrap(err, pairs...)
}

// wrap is not exported because it always creates a new structured error. Extend
// is more appropriate from outside the package.
func wrap(err error, pairs ...any) error {
	serr := New(err.Error(), pairs...)
	serr.Wrapped = err
	return serr
}

// Unwrap returns the inner error, if it exists.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Attributes returns the attributes of a structured error, or nil.
func Attributes(err error) map[string]any {
	var se *Error
	if errors.As(err, &se) {
		return se.Attrs
	}
	return nil
}
