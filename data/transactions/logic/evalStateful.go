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

func opAppGlobalGet(cx *EvalContext) {
	last := len(cx.stack) - 1 // key

	key := string(cx.stack[last].Bytes)
	tv, ok := cx.globals.read(key)
	if !ok {
		// missing keys read as uint 0
		cx.stack[last] = stackValue{}
		return
	}
	value, err := stackValueFromTealValue(&tv)
	if err != nil {
		cx.err = err
		return
	}
	cx.stack[last] = value
}

func opAppGlobalPut(cx *EvalContext) {
	last := len(cx.stack) - 1 // value
	prev := last - 1          // key

	key := string(cx.stack[prev].Bytes)
	sv := cx.stack[last]
	cx.globals.write(key, sv.toTealValue())
	cx.stack = cx.stack[:prev]
}

func opAppGlobalDel(cx *EvalContext) {
	last := len(cx.stack) - 1 // key

	key := string(cx.stack[last].Bytes)
	cx.globals.del(key)
	cx.stack = cx.stack[:last]
}
