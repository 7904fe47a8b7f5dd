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

// ConsensusVersion is a string that identifies a version of the
// evaluation parameters.
type ConsensusVersion string

// ConsensusV1 is the first set of evaluation limits: 1000 stack slots,
// 20000 steps, 4096-byte values and 255 program arguments.
const ConsensusV1 = ConsensusVersion("microavm-v1")

// ConsensusFuture is a placeholder for the parameters under development.
const ConsensusFuture = ConsensusVersion("future")

// ConsensusCurrentVersion is the latest version and should be used
// when a specific version is not provided.
const ConsensusCurrentVersion = ConsensusV1
