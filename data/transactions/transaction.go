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

package transactions

import (
	"fmt"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/protocol"
)

// Header captures the fields common to every transaction type.
type Header struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Sender     basics.Address `codec:"snd"`
	Fee        uint64         `codec:"fee"`
	FirstValid uint64         `codec:"fv"`
	LastValid  uint64         `codec:"lv"`
	Note       []byte         `codec:"note"` // Uniqueness or app-level data about txn

	// RekeyTo, if nonzero, sets the sender's AuthAddr to the given address
	RekeyTo basics.Address `codec:"rekey"`
}

// PaymentTxnFields captures the fields used by payment transactions.
type PaymentTxnFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Receiver basics.Address `codec:"rcv"`
	Amount   uint64         `codec:"amt"`

	// When CloseRemainderTo is set, it indicates that the
	// transaction is requesting that the account should be
	// closed, and all remaining funds be transferred to this
	// address.
	CloseRemainderTo basics.Address `codec:"close"`
}

// OnCompletion is an enum representing some layer 1 side effect that an
// ApplicationCall transaction will have if it is included in a block.
type OnCompletion uint64

const (
	// NoOpOC indicates that an application transaction will simply call its
	// ApprovalProgram
	NoOpOC OnCompletion = 0

	// OptInOC indicates that an application transaction will allocate some
	// LocalState for the application in the sender's account
	OptInOC OnCompletion = 1

	// CloseOutOC indicates that an application transaction will deallocate
	// some LocalState for the application from the user's account
	CloseOutOC OnCompletion = 2

	// ClearStateOC is similar to CloseOutOC, but may never fail.
	ClearStateOC OnCompletion = 3

	// UpdateApplicationOC indicates that an application transaction will
	// update the ApprovalProgram and ClearStateProgram for the application
	UpdateApplicationOC OnCompletion = 4

	// DeleteApplicationOC indicates that an application transaction will
	// delete the AppParams for the application from the creator's balance
	// record
	DeleteApplicationOC OnCompletion = 5
)

func (oc OnCompletion) String() string {
	switch oc {
	case NoOpOC:
		return "NoOp"
	case OptInOC:
		return "OptIn"
	case CloseOutOC:
		return "CloseOut"
	case ClearStateOC:
		return "ClearState"
	case UpdateApplicationOC:
		return "UpdateApplication"
	case DeleteApplicationOC:
		return "DeleteApplication"
	}
	return fmt.Sprintf("OnCompletion(%d)", uint64(oc))
}

// ApplicationCallTxnFields captures the transaction fields used for all
// interactions with applications
type ApplicationCallTxnFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// ApplicationID is 0 when creating an application, and nonzero when
	// calling an existing application.
	ApplicationID uint64 `codec:"apid"`

	// OnCompletion specifies an optional side-effect that this transaction
	// will have on the balance record of the sender or the application's
	// creator.
	OnCompletion OnCompletion `codec:"apan"`

	// ApplicationArgs are arguments accessible to the executing
	// ApprovalProgram or ClearStateProgram.
	ApplicationArgs [][]byte `codec:"apaa"`
}

// Transaction describes a transaction that can appear in a block.
type Transaction struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Type of transaction
	Type protocol.TxType `codec:"type"`

	// Common fields for all types of transactions
	Header

	// Fields for different types of transactions
	PaymentTxnFields
	ApplicationCallTxnFields
}

// WellFormed checks that the transaction looks reasonable on its own (but not necessarily valid against the actual ledger). It does not check signatures.
func (tx Transaction) WellFormed(proto config.ConsensusParams) error {
	switch tx.Type {
	case protocol.PaymentTx, protocol.ApplicationCallTx, "":
	default:
		return fmt.Errorf("unknown tx type %v", tx.Type)
	}

	if tx.Type != protocol.ApplicationCallTx {
		if tx.ApplicationID != 0 || tx.OnCompletion != NoOpOC || len(tx.ApplicationArgs) != 0 {
			return fmt.Errorf("transaction of type %v has non-zero fields for type %v", tx.Type, protocol.ApplicationCallTx)
		}
	} else if tx.OnCompletion > DeleteApplicationOC {
		return fmt.Errorf("invalid application OnCompletion %d", uint64(tx.OnCompletion))
	}

	if tx.LastValid < tx.FirstValid {
		return fmt.Errorf("transaction invalid range (%d--%d)", tx.FirstValid, tx.LastValid)
	}
	if len(tx.ApplicationArgs) > proto.EvalMaxArgs {
		return fmt.Errorf("too many application args, max %d", proto.EvalMaxArgs)
	}
	return nil
}

// SignedTxn wraps a transaction and the logic that authorizes it.
type SignedTxn struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Lsig LogicSig    `codec:"lsig"`
	Txn  Transaction `codec:"txn"`
}

// WellFormed checks the transaction and its logic arguments.
func (s SignedTxn) WellFormed(proto config.ConsensusParams) error {
	if err := s.Txn.WellFormed(proto); err != nil {
		return err
	}
	if len(s.Lsig.Args) > proto.EvalMaxArgs {
		return fmt.Errorf("too many logic args: %d > %d", len(s.Lsig.Args), proto.EvalMaxArgs)
	}
	for i, arg := range s.Lsig.Args {
		if len(arg) > proto.MaxStringSize {
			return fmt.Errorf("logic arg %d too long: %d > %d", i, len(arg), proto.MaxStringSize)
		}
	}
	return nil
}
