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

type stringString struct {
	a string
	b string
}

func stringStringListToMap(they []stringString) map[string]string {
	out := make(map[string]string, len(they))
	for _, v := range they {
		out[v.a] = v.b
	}
	return out
}

// short description of every op
var opDocList = []stringString{
	{"err", "Fail immediately."},
	{"sha256", "SHA256 hash of value X, yields [32]byte"},
	{"keccak256", "Keccak256 hash of value X, yields [32]byte"},
	{"sha512_256", "SHA512_256 hash of value X, yields [32]byte"},
	{"+", "A plus B. Fail on overflow."},
	{"-", "A minus B. Fail if B > A."},
	{"<", "A less than B => {0 or 1}"},
	{">", "A greater than B => {0 or 1}"},
	{"<=", "A less than or equal to B => {0 or 1}"},
	{">=", "A greater than or equal to B => {0 or 1}"},
	{"&&", "A is not zero and B is not zero => {0 or 1}"},
	{"||", "A is not zero or B is not zero => {0 or 1}"},
	{"==", "A is equal to B => {0 or 1}. A and B must be the same type."},
	{"!=", "A is not equal to B => {0 or 1}. A and B must be the same type."},
	{"!", "X == 0 yields 1; else 0"},
	{"len", "yields length of byte value X"},
	{"itob", "converts uint64 X to big endian bytes"},
	{"btoi", "converts bytes X as big endian to uint64. Fail if X is longer than 8 bytes."},
	{"arg", "push Args[N] value to stack by index"},
	{"arg_0", "push Args[0] to stack"},
	{"arg_1", "push Args[1] to stack"},
	{"arg_2", "push Args[2] to stack"},
	{"arg_3", "push Args[3] to stack"},
	{"txn", "push field F of current transaction to stack"},
	{"load", "copy a value from scratch space to the stack"},
	{"store", "pop a value from the stack and store to scratch space"},
	{"return", "use last value on stack as success value; end"},
	{"assert", "immediately fail unless value X is a non-zero number"},
	{"pop", "discard value X from stack"},
	{"dup", "duplicate last value on stack"},
	{"swap", "swaps two last values on stack: A, B -> B, A"},
	{"app_global_get", "read key A from global state of the current application => value. A missing key yields 0."},
	{"app_global_put", "write value B to key A in the global state of the current application"},
	{"app_global_del", "delete key A from the global state of the current application"},
	{"pushbytes", "push the following program bytes to the stack"},
	{"pushint", "push immediate UINT to the stack as an integer"},
}

var opDocByName = stringStringListToMap(opDocList)

// OpDoc returns a description of the op
func OpDoc(opName string) string {
	return opDocByName[opName]
}

// OpImmediateNote returns a short string about immediate data which follows the op byte
func OpImmediateNote(opName string) string {
	spec, ok := OpsByName[opName]
	if !ok || spec.Immediate == immNone {
		return ""
	}
	switch spec.Immediate {
	case immByte:
		return fmt.Sprintf("{uint8 %s}", spec.ImmName)
	case immField:
		return "{uint8 transaction field index}"
	case immInt:
		return "{varuint int}"
	case immBytes:
		return "{varuint length} {bytes}"
	}
	return ""
}

// OpSignature renders the stack effect of the op, e.g. "uint64, uint64 -> uint64".
func OpSignature(opName string) string {
	spec, ok := OpsByName[opName]
	if !ok {
		return ""
	}
	args := make([]string, len(spec.Arg))
	for i, t := range spec.Arg {
		args[i] = t.String()
	}
	rets := make([]string, len(spec.Return))
	for i, t := range spec.Return {
		rets[i] = t.String()
	}
	if spec.Terminal {
		rets = []string{"(end)"}
	}
	return fmt.Sprintf("%s -> %s", strings.Join(args, ", "), strings.Join(rets, ", "))
}

// TxnFieldDocs are notes on fields available by `txn`
func TxnFieldDocs() map[string]string {
	out := make(map[string]string, len(txnFieldSpecs))
	for _, fs := range txnFieldSpecs {
		out[fs.name] = fs.doc
	}
	return out
}
