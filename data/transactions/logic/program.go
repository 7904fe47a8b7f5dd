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
	"encoding/binary"
	"fmt"
	"strconv"
)

// Instruction is one decoded opcode with its immediate, if any.
type Instruction struct {
	Opcode byte

	// Uint holds an int literal, a scratch or arg index, or a TxnField.
	Uint uint64

	// Bytes holds a byte literal.
	Bytes []byte

	// Line is the 1-based source line, 0 when decoded from bytecode.
	Line int

	// Text is the source text the instruction was assembled from.
	Text string
}

// Program is a decoded program. It is never modified by evaluation.
type Program struct {
	Version      uint64
	Instructions []Instruction
}

// String returns the source text when known, otherwise the canonical form.
func (inst *Instruction) String() string {
	if inst.Text != "" {
		return inst.Text
	}
	return inst.canonical()
}

func (inst *Instruction) canonical() string {
	spec := &opsByOpcode[inst.Opcode]
	if spec.op == nil {
		return fmt.Sprintf("unknown(0x%02x)", inst.Opcode)
	}
	switch spec.Immediate {
	case immByte:
		return spec.Name + " " + strconv.FormatUint(inst.Uint, 10)
	case immField:
		return spec.Name + " " + TxnField(inst.Uint).String()
	case immInt:
		return spec.Name + " " + strconv.FormatUint(inst.Uint, 10)
	case immBytes:
		return spec.Name + " " + bytesLiteral(inst.Bytes)
	}
	return spec.Name
}

// Bytes encodes p: the version as a uvarint, then each opcode followed by
// its immediate. Indexes and fields take one byte, ints a uvarint, and byte
// literals a uvarint length and the data.
func (p *Program) Bytes() ([]byte, error) {
	out := binary.AppendUvarint(nil, p.Version)
	for i := range p.Instructions {
		inst := &p.Instructions[i]
		spec := &opsByOpcode[inst.Opcode]
		if spec.op == nil {
			return nil, fmt.Errorf("instruction %d: %w 0x%02x", i, ErrOpcode, inst.Opcode)
		}
		out = append(out, inst.Opcode)
		switch spec.Immediate {
		case immByte, immField:
			if inst.Uint > 255 {
				return nil, fmt.Errorf("instruction %d: %s %w: %d", i, spec.Name, ErrIndexOutOfRange, inst.Uint)
			}
			out = append(out, byte(inst.Uint))
		case immInt:
			out = binary.AppendUvarint(out, inst.Uint)
		case immBytes:
			out = binary.AppendUvarint(out, uint64(len(inst.Bytes)))
			out = append(out, inst.Bytes...)
		}
	}
	return out, nil
}

// DecodeProgram is the inverse of Program.Bytes.
func DecodeProgram(program []byte) (*Program, error) {
	version, vlen := binary.Uvarint(program)
	if vlen <= 0 {
		return nil, fmt.Errorf("%w: invalid version", ErrDecode)
	}
	p := &Program{Version: version}
	pc := vlen
	for pc < len(program) {
		start := pc
		inst := Instruction{Opcode: program[pc]}
		spec := &opsByOpcode[inst.Opcode]
		if spec.op == nil {
			return nil, fmt.Errorf("%d: %w 0x%02x", start, ErrOpcode, inst.Opcode)
		}
		pc++
		switch spec.Immediate {
		case immByte, immField:
			if pc >= len(program) {
				return nil, fmt.Errorf("%d: %w: %s program ends short of immediate values", start, ErrDecode, spec.Name)
			}
			inst.Uint = uint64(program[pc])
			pc++
			if spec.Immediate == immField {
				if _, ok := txnFieldSpecByField[TxnField(inst.Uint)]; !ok {
					return nil, fmt.Errorf("%d: %w: txn field %d", start, ErrUnknownField, inst.Uint)
				}
			}
		case immInt:
			val, n := binary.Uvarint(program[pc:])
			if n <= 0 {
				return nil, fmt.Errorf("%d: %w: could not decode int", start, ErrDecode)
			}
			inst.Uint = val
			pc += n
		case immBytes:
			length, n := binary.Uvarint(program[pc:])
			if n <= 0 {
				return nil, fmt.Errorf("%d: %w: could not decode length", start, ErrDecode)
			}
			pc += n
			if length > uint64(len(program)-pc) {
				return nil, fmt.Errorf("%d: %w: %s literal exceeds program", start, ErrDecode, spec.Name)
			}
			end := pc + int(length)
			inst.Bytes = append(make([]byte, 0, length), program[pc:end]...)
			pc = end
		}
		p.Instructions = append(p.Instructions, inst)
	}
	return p, nil
}
