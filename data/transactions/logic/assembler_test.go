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
	"encoding/base32"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/test/partitiontest"
)

func TestAssembleByteLiterals(t *testing.T) {
	partitiontest.PartitionTest(t)

	b32 := base32.StdEncoding.EncodeToString([]byte("hello"))
	tests := []struct {
		source string
		want   string
	}{
		{`byte "hello"`, "hello"},
		{`pushbytes "hello"`, "hello"},
		{`byte "a b  c"`, "a b  c"},
		{`byte "tab\there"`, "tab\there"},
		{`byte "nl\n\r"`, "nl\n\r"},
		{`byte "q\"uote\\"`, "q\"uote\\"},
		{`byte "\x01\x7f"`, "\x01\x7f"},
		{`byte "// not a comment"`, "// not a comment"},
		{`byte ""`, ""},
		{"byte base64 aGVsbG8=", "hello"},
		{"byte b64 aGVsbG8=", "hello"},
		{"byte base64(aGVsbG8=)", "hello"},
		{"byte b64(aGVsbG8=)", "hello"},
		{"byte base32 " + b32, "hello"},
		{"byte b32 " + b32, "hello"},
		{"byte base32(" + b32 + ")", "hello"},
		{"byte b32(" + b32 + ")", "hello"},
		{"byte 0x68656c6c6f", "hello"},
		{"byte 0x", ""},
		{"byte base64 aGVsbG8= // trailing comment", "hello"},
		{"byte b64 //8=", "\xff\xff"},
	}
	for _, test := range tests {
		prog, err := AssembleString(test.source)
		require.NoError(t, err, test.source)
		require.Len(t, prog.Instructions, 1)
		inst := prog.Instructions[0]
		require.Equal(t, byte(0x80), inst.Opcode, test.source)
		require.NotNil(t, inst.Bytes, test.source)
		require.Equal(t, test.want, string(inst.Bytes), test.source)
	}
}

func TestAssembleAddr(t *testing.T) {
	partitiontest.PartitionTest(t)

	addr := basics.Address{0xaa, 0xbb}
	prog, err := AssembleString("addr " + addr.String())
	require.NoError(t, err)
	require.Equal(t, addr[:], prog.Instructions[0].Bytes)

	_, err = AssembleString("addr NOTANADDRESS")
	require.ErrorIs(t, err, ErrDecode)
}

func TestAssembleInts(t *testing.T) {
	partitiontest.PartitionTest(t)

	tests := map[string]uint64{
		"int 0":                        0,
		"int 10000":                    10000,
		"int 0x10":                     16,
		"int 010":                      8,
		"pushint 18446744073709551615": 18446744073709551615,
		"int pay":                      1,
		"int appl":                     6,
		"int NoOp":                     0,
		"int DeleteApplication":        5,
	}
	for source, want := range tests {
		prog, err := AssembleString(source)
		require.NoError(t, err, source)
		require.Equal(t, byte(0x81), prog.Instructions[0].Opcode)
		require.Equal(t, want, prog.Instructions[0].Uint, source)
	}
}

func TestAssembleErrors(t *testing.T) {
	partitiontest.PartitionTest(t)

	tests := []struct {
		source string
		line   int
		kind   error
	}{
		{"int 1\nbyte \"unterminated\\x4\"", 2, ErrDecode},
		{"byte \"bad \\q escape\"", 1, ErrDecode},
		{"byte base64 !!!", 1, ErrDecode},
		{"byte base64", 1, ErrDecode},
		{"byte 0xabc", 1, ErrDecode},
		{"byte b32(MZXW6", 1, ErrDecode},
		{"byte", 1, ErrDecode},
		{"byte hello", 1, ErrDecode},
		{"byte 0x00 0x01", 1, ErrDecode},
		{"int", 1, ErrDecode},
		{"int -1", 1, ErrDecode},
		{"int 18446744073709551616", 1, ErrDecode},
		{"int one", 1, ErrDecode},
		{"dup 1", 1, ErrDecode},
		{"int 1\n\ntxn Bogus", 3, ErrUnknownField},
		{"txn", 1, ErrDecode},
		{"store 256", 1, ErrIndexOutOfRange},
		{"load 1000", 1, ErrIndexOutOfRange},
		{"arg 256", 1, ErrIndexOutOfRange},
		{"store x", 1, ErrDecode},
		{"int 1\nfrobnicate", 2, ErrOpcode},
		{"#pragma version 2", 1, ErrDecode},
		{"#pragma version 0", 1, ErrDecode},
		{"#pragma version", 1, ErrDecode},
		{"#pragma verzion 1", 1, ErrDecode},
		{"#pragma version 1\n#pragma version 1", 2, ErrDecode},
		{"int 1\n#pragma version 1", 2, ErrDecode},
	}
	for _, test := range tests {
		_, err := AssembleString(test.source)
		require.ErrorIs(t, err, test.kind, test.source)
		var se *SourceError
		require.True(t, errors.As(err, &se), test.source)
		require.Equal(t, test.line, se.Line, test.source)
	}
}

func TestAssemblePragmaAndComments(t *testing.T) {
	partitiontest.PartitionTest(t)

	source := `// leading comment
#pragma version 1

int 1 // one
	dup
&&`
	prog, err := AssembleString(source)
	require.NoError(t, err)
	require.Equal(t, uint64(1), prog.Version)
	require.Len(t, prog.Instructions, 3)
	require.Equal(t, Instruction{Opcode: 0x81, Uint: 1, Line: 4, Text: "int 1"}, prog.Instructions[0])
	require.Equal(t, 5, prog.Instructions[1].Line)
	require.Equal(t, "dup", prog.Instructions[1].Text)
	require.Equal(t, "&&", prog.Instructions[2].Text)
}

func TestAssembleTxnFields(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, name := range TxnFieldNames {
		prog, err := AssembleString("txn " + name)
		require.NoError(t, err, name)
		field, err := TxnFieldByName(name)
		require.NoError(t, err)
		require.Equal(t, uint64(field), prog.Instructions[0].Uint)
		require.Equal(t, name, field.String())
		_, ok := TxnFieldType(field)
		require.True(t, ok)
	}
	require.Equal(t, "TxnField(3)", TxnField(3).String())
}

func TestDisassembleRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, source := range []string{counterSource, passphraseSource, `byte 0x00ff
byte "with \"quotes\""
byte "plain text"
byte ""
txn Receiver
arg 2
arg_1
int 0x7fffffffffffffff
app_global_del
keccak256
sha512_256
return`} {
		prog := testProg(t, source)
		text := Disassemble(prog)
		again, err := AssembleString(text)
		require.NoError(t, err, text)
		require.Equal(t, prog.Version, again.Version)
		require.Len(t, again.Instructions, len(prog.Instructions))
		for i := range prog.Instructions {
			require.Equal(t, prog.Instructions[i].Opcode, again.Instructions[i].Opcode)
			require.Equal(t, prog.Instructions[i].Uint, again.Instructions[i].Uint)
			require.Equal(t, prog.Instructions[i].Bytes, again.Instructions[i].Bytes)
		}
	}

	text := Disassemble(testProg(t, counterSource))
	require.Equal(t, `#pragma version 1
pushbytes "counter"
dup
app_global_get
pushint 1
+
dup
store 0
app_global_put
load 0
return
`, text)
}

func TestProgramBytesRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, source := range []string{counterSource, passphraseSource, "int 300\ntxn TypeEnum\narg 0\nbyte \"\"\nerr"} {
		prog := testProg(t, source)
		code, err := prog.Bytes()
		require.NoError(t, err)
		decoded, err := DecodeProgram(code)
		require.NoError(t, err)
		require.Equal(t, Disassemble(prog), Disassemble(decoded))
	}

	code, err := testProg(t, "int 300\nstore 2").Bytes()
	require.NoError(t, err)
	// version 1, pushint uvarint(300), store 2
	require.Equal(t, []byte{0x01, 0x81, 0xac, 0x02, 0x35, 0x02}, code)
}

func TestDecodeProgramErrors(t *testing.T) {
	partitiontest.PartitionTest(t)

	tests := []struct {
		code []byte
		kind error
	}{
		{nil, ErrDecode},
		{[]byte{0x01, 0xff}, ErrOpcode},
		{[]byte{0x01, 0x35}, ErrDecode},
		{[]byte{0x01, 0x31, 0x03}, ErrUnknownField},
		{[]byte{0x01, 0x81}, ErrDecode},
		{[]byte{0x01, 0x80, 0x05, 'a'}, ErrDecode},
	}
	for _, test := range tests {
		_, err := DecodeProgram(test.code)
		require.ErrorIs(t, err, test.kind, "%x", test.code)
	}

	bad := &Program{Version: 1, Instructions: []Instruction{{Opcode: 0x35, Uint: 256}}}
	_, err := bad.Bytes()
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	bad = &Program{Version: 1, Instructions: []Instruction{{Opcode: 0xfe}}}
	_, err = bad.Bytes()
	require.ErrorIs(t, err, ErrOpcode)
}

func TestOpSpecTable(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, spec := range OpSpecs {
		require.NotEmpty(t, OpDoc(spec.Name), spec.Name)
		require.NotEmpty(t, OpSignature(spec.Name), spec.Name)
		byName, ok := OpSpecByName(spec.Name)
		require.True(t, ok)
		require.Equal(t, spec.Opcode, byName.Opcode)
	}
	for pseudo, name := range pseudoOps {
		spec, ok := OpSpecByName(pseudo)
		require.True(t, ok, pseudo)
		require.Equal(t, name, spec.Name)
	}
	require.Equal(t, "uint64, uint64 -> uint64", OpSignature("+"))
	require.Equal(t, "uint64 -> (end)", OpSignature("return"))
	require.Equal(t, "{uint8 i}", OpImmediateNote("store"))
	require.Equal(t, "", OpImmediateNote("dup"))
	require.Contains(t, TxnFieldDocs(), "Fee")
}
