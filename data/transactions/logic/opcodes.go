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
	"fmt"
	"strings"
)

// StackType describes the type of a value on the operand stack
type StackType byte

const (
	// StackNone in an OpSpec shows that the op pops or yields nothing
	StackNone StackType = iota

	// StackAny in an OpSpec shows that the op pops or yield any type
	StackAny

	// StackUint64 in an OpSpec shows that the op pops or yields a uint64
	StackUint64

	// StackBytes in an OpSpec shows that the op pops or yields a []byte
	StackBytes
)

func (st StackType) String() string {
	switch st {
	case StackNone:
		return "None"
	case StackAny:
		return "any"
	case StackUint64:
		return "uint64"
	case StackBytes:
		return "[]byte"
	}
	return "internal error, unknown type"
}

func opCompat(expected, got StackType) bool {
	if expected == StackAny {
		return true
	}
	return expected == got
}

// Proto describes the stack effect of an opcode
type Proto struct {
	Arg    []StackType // what gets popped from the stack
	Return []StackType // what gets pushed to the stack

	// Terminal ops ("x" in the signature) end or redirect the program, so
	// their stack height change is not checked.
	Terminal bool
}

func parseStackTypes(spec string) []StackType {
	if spec == "" {
		return nil
	}
	types := make([]StackType, len(spec))
	for i, letter := range spec {
		switch letter {
		case 'a':
			types[i] = StackAny
		case 'b':
			types[i] = StackBytes
		case 'i':
			types[i] = StackUint64
		default:
			panic(spec)
		}
	}
	return types
}

// proto parses a signature like "ii:i". 'i' is a uint64, 'b' is a []byte,
// 'a' is either, and an 'x' return marks a terminal op.
func proto(signature string) Proto {
	parts := strings.Split(signature, ":")
	if len(parts) != 2 {
		panic(signature)
	}
	if parts[1] == "x" {
		return Proto{Arg: parseStackTypes(parts[0]), Terminal: true}
	}
	return Proto{Arg: parseStackTypes(parts[0]), Return: parseStackTypes(parts[1])}
}

// immKind describes the immediate operand an opcode carries in a program.
type immKind byte

const (
	immNone  immKind = iota
	immByte          // small index: scratch slot or argument number
	immField         // txn field
	immInt           // uint64 literal
	immBytes         // []byte literal
)

// OpDetails records the immediate layout of an opcode
type OpDetails struct {
	Immediate immKind
	ImmName   string
}

func opDefault() OpDetails {
	return OpDetails{}
}

func immediate(name string, kind immKind) OpDetails {
	return OpDetails{Immediate: kind, ImmName: name}
}

type evalFunc func(cx *EvalContext)

// OpSpec defines an opcode
type OpSpec struct {
	Opcode byte
	Name   string
	op     evalFunc // evaluate the op
	Proto
	Version   uint64 // program version opcode introduced
	OpDetails        // immediate layout
}

// OpSpecs is the table of operations that can be assembled and evaluated.
// Opcodes are only ever added.
var OpSpecs = []OpSpec{
	{0x00, "err", opErr, proto(":x"), 1, opDefault()},
	{0x01, "sha256", opSHA256, proto("b:b"), 1, opDefault()},
	{0x02, "keccak256", opKeccak256, proto("b:b"), 1, opDefault()},
	{0x03, "sha512_256", opSHA512_256, proto("b:b"), 1, opDefault()},

	{0x08, "+", opPlus, proto("ii:i"), 1, opDefault()},
	{0x09, "-", opMinus, proto("ii:i"), 1, opDefault()},
	{0x0c, "<", opLt, proto("ii:i"), 1, opDefault()},
	{0x0d, ">", opGt, proto("ii:i"), 1, opDefault()},
	{0x0e, "<=", opLe, proto("ii:i"), 1, opDefault()},
	{0x0f, ">=", opGe, proto("ii:i"), 1, opDefault()},
	{0x10, "&&", opAnd, proto("ii:i"), 1, opDefault()},
	{0x11, "||", opOr, proto("ii:i"), 1, opDefault()},
	{0x12, "==", opEq, proto("aa:i"), 1, opDefault()},
	{0x13, "!=", opNeq, proto("aa:i"), 1, opDefault()},
	{0x14, "!", opNot, proto("i:i"), 1, opDefault()},
	{0x15, "len", opLen, proto("b:i"), 1, opDefault()},
	{0x16, "itob", opItob, proto("i:b"), 1, opDefault()},
	{0x17, "btoi", opBtoi, proto("b:i"), 1, opDefault()},

	{0x2c, "arg", opArg, proto(":b"), 1, immediate("n", immByte)},
	{0x2d, "arg_0", opArg0, proto(":b"), 1, opDefault()},
	{0x2e, "arg_1", opArg1, proto(":b"), 1, opDefault()},
	{0x2f, "arg_2", opArg2, proto(":b"), 1, opDefault()},
	{0x30, "arg_3", opArg3, proto(":b"), 1, opDefault()},
	{0x31, "txn", opTxn, proto(":a"), 1, immediate("f", immField)},
	{0x34, "load", opLoad, proto(":a"), 1, immediate("i", immByte)},
	{0x35, "store", opStore, proto("a:"), 1, immediate("i", immByte)},

	{0x43, "return", opReturn, proto("i:x"), 1, opDefault()},
	{0x44, "assert", opAssert, proto("i:"), 1, opDefault()},
	{0x48, "pop", opPop, proto("a:"), 1, opDefault()},
	{0x49, "dup", opDup, proto("a:aa"), 1, opDefault()},
	{0x4c, "swap", opSwap, proto("aa:aa"), 1, opDefault()},

	{0x64, "app_global_get", opAppGlobalGet, proto("b:a"), 1, opDefault()},
	{0x67, "app_global_put", opAppGlobalPut, proto("ba:"), 1, opDefault()},
	{0x69, "app_global_del", opAppGlobalDel, proto("b:"), 1, opDefault()},

	{0x80, "pushbytes", opPushBytes, proto(":b"), 1, immediate("bytes", immBytes)},
	{0x81, "pushint", opPushInt, proto(":i"), 1, immediate("uint", immInt)},
}

// opsByOpcode is the lookup table used by the interpreter.
var opsByOpcode [256]OpSpec

// OpsByName map for each version, mapping opcode name to OpSpec
var OpsByName map[string]OpSpec

// assembler pseudo-ops: the name on the left assembles to the op on the right
var pseudoOps = map[string]string{
	"int":  "pushint",
	"byte": "pushbytes",
	"addr": "pushbytes",
}

// OpSpecByName returns the spec for an op or pseudo-op name.
func OpSpecByName(name string) (OpSpec, bool) {
	if actual, ok := pseudoOps[name]; ok {
		name = actual
	}
	spec, ok := OpsByName[name]
	return spec, ok
}

func init() {
	OpsByName = make(map[string]OpSpec, len(OpSpecs))
	for _, oi := range OpSpecs {
		if opsByOpcode[oi.Opcode].op != nil {
			panic(fmt.Sprintf("duplicate opcode 0x%02x", oi.Opcode))
		}
		if _, dup := OpsByName[oi.Name]; dup {
			panic(fmt.Sprintf("duplicate opcode name %s", oi.Name))
		}
		opsByOpcode[oi.Opcode] = oi
		OpsByName[oi.Name] = oi
	}
}
