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
	"errors"
	"fmt"
)

// Fault kinds. Every error an evaluation ends with wraps exactly one of
// these, so callers can branch with errors.Is or Kind.
var (
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrUnknownField      = errors.New("unknown field")
	ErrDecode            = errors.New("decode error")
	ErrStepLimitExceeded = errors.New("step limit exceeded")
	ErrStackShape        = errors.New("bad final stack")
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrValueTooLarge     = errors.New("value too large")
	ErrAssertFailed      = errors.New("assert failed")
	ErrOpcode            = errors.New("illegal opcode")
)

var errorKinds = []error{
	ErrStackUnderflow,
	ErrStackOverflow,
	ErrTypeMismatch,
	ErrIndexOutOfRange,
	ErrUnknownField,
	ErrDecode,
	ErrStepLimitExceeded,
	ErrStackShape,
	ErrOverflow,
	ErrValueTooLarge,
	ErrAssertFailed,
	ErrOpcode,
}

// Kind returns the fault kind err wraps, or nil if it wraps none of them.
func Kind(err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// EvalError is the fault that stopped an evaluation, with the position of
// the failing instruction.
type EvalError struct {
	Err  error
	PC   int
	Line int
	Op   string
}

func (err *EvalError) Error() string {
	var where string
	if err.Line > 0 {
		where = fmt.Sprintf("line %d ", err.Line)
	}
	if err.Op == "" {
		return fmt.Sprintf("%spc=%d: %v", where, err.PC, err.Err)
	}
	return fmt.Sprintf("%spc=%d %s: %v", where, err.PC, err.Op, err.Err)
}

func (err *EvalError) Unwrap() error {
	return err.Err
}

// PanicError wraps a recover() catching a panic()
type PanicError struct {
	PanicValue interface{}
	StackTrace string
}

func (pe PanicError) Error() string {
	return fmt.Sprintf("panic in TEAL Eval: %v\n%s", pe.PanicValue, pe.StackTrace)
}

// SourceError is an assembly failure at a given source line.
type SourceError struct {
	Line int
	Err  error
}

func (se *SourceError) Error() string {
	return fmt.Sprintf("%d: %v", se.Line, se.Err)
}

func (se *SourceError) Unwrap() error {
	return se.Err
}

var errLogicSigNotSupported = errors.New("LogicSig not supported")
var errTooManyArgs = errors.New("LogicSig has too many arguments")
var errNoProgram = errors.New("no program to evaluate")
