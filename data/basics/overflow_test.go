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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/test/partitiontest"
)

func TestOverflow(t *testing.T) {
	partitiontest.PartitionTest(t)

	u := uint64(math.MaxUint64)
	res, overflowed := OAdd(u, 0)
	require.False(t, overflowed)
	require.Equal(t, u, res)

	_, overflowed = OAdd(u, 1)
	require.True(t, overflowed)

	res, overflowed = OSub(uint64(5), 5)
	require.False(t, overflowed)
	require.Zero(t, res)

	_, overflowed = OSub(uint64(0), 1)
	require.True(t, overflowed)
}
