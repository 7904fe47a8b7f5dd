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

package api

var (
	errFailedParsingAppIdx   = "failed to parse app index"
	errFailedParsingRequest  = "failed to parse dryrun request"
	errFailedAssembling      = "failed to assemble program"
	errFailedDecodingProgram = "failed to decode program"
	errNoProgram             = "request carries no program: set source, program or txn.lsig.l"
	errFailedLookingUpState  = "failed to retrieve application state"
	errFailedEvaluating      = "failed to run application call"
	errInvalidTransaction    = "transaction is not well formed"
)
