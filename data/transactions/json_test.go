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

package transactions_test

import (
	"crypto/sha512"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/protocol"
	"github.com/algorand/go-microavm/test/partitiontest"
)

func compact(data []byte) string {
	return strings.ReplaceAll(strings.ReplaceAll(string(data), " ", ""), "\n", "")
}

// TestTxnJson checks the short field names used in dry-run documents.
func TestTxnJson(t *testing.T) {
	partitiontest.PartitionTest(t)

	stxn := transactions.SignedTxn{
		Txn: transactions.Transaction{
			Type:   protocol.PaymentTx,
			Header: transactions.Header{Sender: basics.Address{0x01, 0x02, 0x03}, Fee: 9999},
		},
		Lsig: transactions.LogicSig{Args: [][]byte{[]byte("joe")}},
	}
	marshal := compact(transactions.EncodeSignedTxnJSON(stxn))
	require.Contains(t, marshal, `"snd":"AEBA`)
	require.Contains(t, marshal, `"fee":9999`)
	require.Contains(t, marshal, `"arg":["am9l"]`)
	require.Contains(t, marshal, `"type":"pay"`)
	require.NotContains(t, marshal, `"rcv"`)
}

func TestDecodeSignedTxnJSON(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	stxn, err := transactions.DecodeSignedTxnJSON([]byte(`{
		"lsig": {"arg": ["aGVsbG8="]},
		"txn": {"type": "pay", "fee": 9999, "fv": 1, "lv": 1000, "amt": 5}
	}`))
	a.NoError(err)
	a.Equal(uint64(9999), stxn.Txn.Fee)
	a.Equal(uint64(5), stxn.Txn.Amount)
	a.Equal(protocol.PaymentTx, stxn.Txn.Type)
	a.Equal([][]byte{[]byte("hello")}, stxn.Lsig.Args)

	// a bare transaction is accepted too
	stxn, err = transactions.DecodeSignedTxnJSON([]byte(`{"type": "appl", "apid": 7, "fee": 1000}`))
	a.NoError(err)
	a.Equal(uint64(7), stxn.Txn.ApplicationID)
	a.Equal(protocol.ApplicationCallTx, stxn.Txn.Type)
	a.True(stxn.Lsig.Blank())

	_, err = transactions.DecodeSignedTxnJSON([]byte(`{"txn": {"fee": "lots"}}`))
	a.Error(err)
	_, err = transactions.DecodeSignedTxnJSON([]byte(`not json`))
	a.Error(err)
}

func TestAddressJSONRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	rcv := basics.Address(sha512.Sum512_256([]byte("receiver")))
	in := transactions.SignedTxn{Txn: transactions.Transaction{
		Type:             protocol.PaymentTx,
		PaymentTxnFields: transactions.PaymentTxnFields{Receiver: rcv, Amount: 10},
	}}
	out, err := transactions.DecodeSignedTxnJSON(transactions.EncodeSignedTxnJSON(in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestWellFormed(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)
	proto := config.CurrentParams()

	good := transactions.SignedTxn{Txn: transactions.Transaction{
		Type:   protocol.PaymentTx,
		Header: transactions.Header{FirstValid: 1, LastValid: 10},
	}}
	a.NoError(good.WellFormed(proto))

	bad := good
	bad.Txn.LastValid = 0
	a.ErrorContains(bad.WellFormed(proto), "invalid range")

	bad = good
	bad.Txn.ApplicationID = 3
	a.ErrorContains(bad.WellFormed(proto), "non-zero fields")

	bad = good
	bad.Txn.Type = "mystery"
	a.ErrorContains(bad.WellFormed(proto), "unknown tx type")

	bad = good
	bad.Lsig.Args = make([][]byte, proto.EvalMaxArgs+1)
	a.ErrorContains(bad.WellFormed(proto), "too many logic args")

	bad = good
	bad.Lsig.Args = [][]byte{make([]byte, proto.MaxStringSize+1)}
	a.ErrorContains(bad.WellFormed(proto), "too long")

	app := transactions.SignedTxn{Txn: transactions.Transaction{
		Type:                     protocol.ApplicationCallTx,
		ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{ApplicationID: 1, OnCompletion: 9},
	}}
	a.ErrorContains(app.WellFormed(proto), "OnCompletion")
	app.Txn.OnCompletion = transactions.OptInOC
	a.NoError(app.WellFormed(proto))
	a.Equal("OptIn", app.Txn.OnCompletion.String())
}
