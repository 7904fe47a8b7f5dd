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

package basics

import (
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/test/partitiontest"
)

func testAddress(seed string) Address {
	return Address(sha512.Sum512_256([]byte(seed)))
}

func TestChecksumAddress_Unmarshal(t *testing.T) {
	partitiontest.PartitionTest(t)

	shortAddress := testAddress("randomString")

	addr, err := UnmarshalChecksumAddress(shortAddress.String())
	require.NoError(t, err)
	require.Equal(t, addr, shortAddress)
	require.Len(t, shortAddress.String(), 58)
}

func TestAddressChecksumMalformed(t *testing.T) {
	partitiontest.PartitionTest(t)

	shortAddress := testAddress("randomString")

	for _, bad := range []string{
		"",
		shortAddress.String() + "r",
		shortAddress.String() + " ",
		"4" + shortAddress.String(),
		" " + shortAddress.String(),
	} {
		_, err := UnmarshalChecksumAddress(bad)
		require.Error(t, err, bad)
	}
}

func TestAddressMarshalText(t *testing.T) {
	partitiontest.PartitionTest(t)

	addr := testAddress("receiver")
	text, err := addr.MarshalText()
	require.NoError(t, err)

	var back Address
	require.NoError(t, back.UnmarshalText(text))
	require.Equal(t, addr, back)
	require.Error(t, back.UnmarshalText([]byte("nope")))

	require.True(t, Address{}.IsZero())
	require.False(t, addr.IsZero())
}
