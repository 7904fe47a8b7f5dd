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

	"github.com/algorand/go-microavm/protocol"
)

// DecodeSignedTxnJSON reads the JSON shape used by dry-run requests. A document
// with a top level "txn" key is a SignedTxn; anything else is decoded as a
// bare Transaction.
func DecodeSignedTxnJSON(data []byte) (SignedTxn, error) {
	var probe map[string]interface{}
	if err := protocol.DecodeJSON(data, &probe); err != nil {
		return SignedTxn{}, fmt.Errorf("transaction json: %w", err)
	}

	var stxn SignedTxn
	if _, ok := probe["txn"]; ok {
		if err := protocol.DecodeJSON(data, &stxn); err != nil {
			return SignedTxn{}, fmt.Errorf("signed transaction json: %w", err)
		}
		return stxn, nil
	}
	if err := protocol.DecodeJSON(data, &stxn.Txn); err != nil {
		return SignedTxn{}, fmt.Errorf("transaction json: %w", err)
	}
	return stxn, nil
}

// EncodeSignedTxnJSON is the inverse of DecodeSignedTxnJSON.
func EncodeSignedTxnJSON(stxn SignedTxn) []byte {
	return protocol.EncodeJSON(&stxn)
}
