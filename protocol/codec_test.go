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

package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/test/partitiontest"
)

type testValue struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type  uint8  `codec:"tt"`
	Bytes string `codec:"tb"`
	Uint  uint64 `codec:"ui"`
}

type testDoc struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Source string               `codec:"source"`
	Args   [][]byte             `codec:"args"`
	Global map[string]testValue `codec:"global"`
}

func TestOmitEmpty(t *testing.T) {
	partitiontest.PartitionTest(t)

	var x testValue
	enc := EncodeReflect(&x)
	require.Equal(t, 1, len(enc))
}

func TestEncodeOrder(t *testing.T) {
	partitiontest.PartitionTest(t)

	var c struct {
		A int    `codec:"x"`
		B string `codec:"y"`
	}
	c.A = 1
	c.B = "foo"

	var d struct {
		A string `codec:"y"`
		B int    `codec:"x"`
	}
	d.B = 1
	d.A = "foo"

	require.Equal(t, EncodeReflect(&c), EncodeReflect(&d))
}

func TestMsgpackRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	in := testValue{Type: 2, Uint: 7}
	var out testValue
	require.NoError(t, DecodeReflect(EncodeReflect(&in), &out))
	require.Equal(t, in, out)

	in = testValue{Type: 1, Bytes: "counter"}
	out = testValue{}
	require.NoError(t, DecodeReflect(EncodeReflect(&in), &out))
	require.Equal(t, in, out)
}

func TestJSONRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	in := testDoc{
		Source: "int 1",
		Args:   [][]byte{[]byte("hello")},
		Global: map[string]testValue{"counter": {Type: 2, Uint: 1}},
	}
	enc := EncodeJSON(&in)
	a.Contains(string(enc), `"source": "int 1"`)
	// byte slices are base64 in JSON
	a.Contains(string(enc), `"aGVsbG8="`)

	var out testDoc
	a.NoError(DecodeJSON(enc, &out))
	a.Equal(in, out)

	var streamed testDoc
	a.NoError(NewJSONDecoder(bytes.NewReader(enc)).Decode(&streamed))
	a.Equal(in, streamed)
}

func TestJSONUnknownField(t *testing.T) {
	partitiontest.PartitionTest(t)

	var out testDoc
	err := DecodeJSON([]byte(`{"source": "int 1", "bogus": 3}`), &out)
	require.Error(t, err)
}
