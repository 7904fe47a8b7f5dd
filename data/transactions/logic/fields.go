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

	"github.com/algorand/go-microavm/protocol"
)

// TxnField is an enum type for `txn`. The numbering matches the chain's
// field encoding, so it has gaps where fields are not supported here.
type TxnField int

const (
	// Sender Transaction.Sender
	Sender TxnField = 0
	// Fee Transaction.Fee
	Fee TxnField = 1
	// FirstValid Transaction.FirstValid
	FirstValid TxnField = 2
	// LastValid Transaction.LastValid
	LastValid TxnField = 4
	// Note Transaction.Note
	Note TxnField = 5
	// Receiver Transaction.Receiver
	Receiver TxnField = 7
	// Amount Transaction.Amount
	Amount TxnField = 8
	// CloseRemainderTo Transaction.CloseRemainderTo
	CloseRemainderTo TxnField = 9
	// Type Transaction.Type
	Type TxnField = 15
	// TypeEnum int(Transaction.Type)
	TypeEnum TxnField = 16
	// GroupIndex i for txngroup[i] == Txn
	GroupIndex TxnField = 22
	// ApplicationID Transaction.ApplicationID
	ApplicationID TxnField = 24
	// OnCompletion Transaction.OnCompletion
	OnCompletion TxnField = 25
	// NumAppArgs len(ApplicationArgs)
	NumAppArgs TxnField = 27
	// RekeyTo Transaction.RekeyTo
	RekeyTo TxnField = 32

	invalidTxnField TxnField = 33
)

type txnFieldSpec struct {
	field TxnField
	name  string
	ftype StackType
	doc   string
}

var txnFieldSpecs = []txnFieldSpec{
	{Sender, "Sender", StackBytes, "32 byte address"},
	{Fee, "Fee", StackUint64, "microalgos"},
	{FirstValid, "FirstValid", StackUint64, "round number"},
	{LastValid, "LastValid", StackUint64, "round number"},
	{Note, "Note", StackBytes, "any data up to 1024 bytes"},
	{Receiver, "Receiver", StackBytes, "32 byte address"},
	{Amount, "Amount", StackUint64, "microalgos"},
	{CloseRemainderTo, "CloseRemainderTo", StackBytes, "32 byte address"},
	{Type, "Type", StackBytes, "transaction type as bytes"},
	{TypeEnum, "TypeEnum", StackUint64, "transaction type as integer"},
	{GroupIndex, "GroupIndex", StackUint64, "position of this transaction within its group"},
	{ApplicationID, "ApplicationID", StackUint64, "ApplicationID from ApplicationCall transaction"},
	{OnCompletion, "OnCompletion", StackUint64, "ApplicationCall transaction on completion action"},
	{NumAppArgs, "NumAppArgs", StackUint64, "number of ApplicationArgs"},
	{RekeyTo, "RekeyTo", StackBytes, "32 byte Sender's new AuthAddr"},
}

var txnFieldSpecByField map[TxnField]txnFieldSpec
var txnFieldSpecByName map[string]txnFieldSpec

// TxnFieldNames are arguments to the 'txn' opcode, in enum order
var TxnFieldNames []string

func (tf TxnField) String() string {
	if fs, ok := txnFieldSpecByField[tf]; ok {
		return fs.name
	}
	return fmt.Sprintf("TxnField(%d)", int(tf))
}

// TxnFieldByName looks up a txn field by its assembler name.
func TxnFieldByName(name string) (TxnField, error) {
	fs, ok := txnFieldSpecByName[name]
	if !ok {
		return invalidTxnField, fmt.Errorf("%w: txn %s", ErrUnknownField, name)
	}
	return fs.field, nil
}

// TxnFieldType returns the stack type a txn field produces.
func TxnFieldType(tf TxnField) (StackType, bool) {
	fs, ok := txnFieldSpecByField[tf]
	return fs.ftype, ok
}

// txnTypeIndexes maps a transaction type to its TypeEnum value. Unknown
// types are 0.
var txnTypeIndexes map[protocol.TxType]uint64

// namedIntConstants are the symbolic names `int` accepts.
var namedIntConstants map[string]uint64

var onCompletionNames = []string{"NoOp", "OptIn", "CloseOut", "ClearState", "UpdateApplication", "DeleteApplication"}

func init() {
	txnFieldSpecByField = make(map[TxnField]txnFieldSpec, len(txnFieldSpecs))
	txnFieldSpecByName = make(map[string]txnFieldSpec, len(txnFieldSpecs))
	for _, s := range txnFieldSpecs {
		if s.field >= invalidTxnField {
			panic(fmt.Sprintf("txn field %s out of range", s.name))
		}
		txnFieldSpecByField[s.field] = s
		txnFieldSpecByName[s.name] = s
		TxnFieldNames = append(TxnFieldNames, s.name)
	}

	txnTypeIndexes = make(map[protocol.TxType]uint64, len(protocol.TxnTypes))
	namedIntConstants = make(map[string]uint64, len(protocol.TxnTypes)+len(onCompletionNames))
	for i, tt := range protocol.TxnTypes {
		txnTypeIndexes[tt] = uint64(i + 1)
		namedIntConstants[string(tt)] = uint64(i + 1)
	}
	for i, oc := range onCompletionNames {
		namedIntConstants[oc] = uint64(i)
	}
}
