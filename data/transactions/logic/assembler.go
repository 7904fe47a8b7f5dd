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
	"bufio"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/algorand/go-microavm/data/basics"
)

// AssemblerMaxVersion is the highest version the assembler accepts.
const AssemblerMaxVersion = 1

// AssemblerDefaultVersion is used when a program has no #pragma version.
const AssemblerDefaultVersion = 1

// OpStream accumulates the instructions of a program being assembled.
type OpStream struct {
	Version uint64

	program    []Instruction
	sourceLine int
	pragmaSeen bool
}

type asmFunc func(*OpStream, *OpSpec, []string) (Instruction, error)

// asmFuncs maps op names to the assembly of their immediates. Ops without
// an entry take no immediates.
var asmFuncs map[string]asmFunc

func init() {
	asmFuncs = map[string]asmFunc{
		"int":       asmInt,
		"pushint":   asmInt,
		"byte":      asmByte,
		"pushbytes": asmByte,
		"addr":      asmAddr,
		"arg":       asmIndex,
		"load":      asmIndex,
		"store":     asmIndex,
		"txn":       asmTxn,
	}
}

func (ops *OpStream) errorf(sentinel error, format string, a ...interface{}) error {
	return &SourceError{Line: ops.sourceLine, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, a...))}
}

func asmNone(ops *OpStream, spec *OpSpec, args []string) (Instruction, error) {
	if len(args) != 0 {
		return Instruction{}, ops.errorf(ErrDecode, "%s expects 0 immediate arguments", spec.Name)
	}
	return Instruction{Opcode: spec.Opcode}, nil
}

func asmInt(ops *OpStream, spec *OpSpec, args []string) (Instruction, error) {
	if len(args) != 1 {
		return Instruction{}, ops.errorf(ErrDecode, "%s needs one immediate argument, was given %d", spec.Name, len(args))
	}
	val, ok := namedIntConstants[args[0]]
	if !ok {
		var err error
		val, err = strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return Instruction{}, ops.errorf(ErrDecode, "unable to parse %#v as integer", args[0])
		}
	}
	return Instruction{Opcode: spec.Opcode, Uint: val}, nil
}

func asmByte(ops *OpStream, spec *OpSpec, args []string) (Instruction, error) {
	if len(args) == 0 {
		return Instruction{}, ops.errorf(ErrDecode, "%s operation needs byte literal argument", spec.Name)
	}
	val, consumed, err := parseBinaryArgs(args)
	if err != nil {
		return Instruction{}, ops.errorf(ErrDecode, "%v", err)
	}
	if consumed != len(args) {
		return Instruction{}, ops.errorf(ErrDecode, "%s with extraneous argument", spec.Name)
	}
	return Instruction{Opcode: spec.Opcode, Bytes: val}, nil
}

func asmAddr(ops *OpStream, spec *OpSpec, args []string) (Instruction, error) {
	if len(args) != 1 {
		return Instruction{}, ops.errorf(ErrDecode, "addr operation needs one immediate argument, was given %d", len(args))
	}
	addr, err := basics.UnmarshalChecksumAddress(args[0])
	if err != nil {
		return Instruction{}, ops.errorf(ErrDecode, "%v", err)
	}
	return Instruction{Opcode: spec.Opcode, Bytes: append([]byte{}, addr[:]...)}, nil
}

func asmIndex(ops *OpStream, spec *OpSpec, args []string) (Instruction, error) {
	if len(args) != 1 {
		return Instruction{}, ops.errorf(ErrDecode, "%s needs one immediate argument, was given %d", spec.Name, len(args))
	}
	val, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return Instruction{}, ops.errorf(ErrDecode, "unable to parse %#v as integer", args[0])
	}
	if val > 255 {
		return Instruction{}, ops.errorf(ErrIndexOutOfRange, "%s outside 0..255: %d", spec.Name, val)
	}
	return Instruction{Opcode: spec.Opcode, Uint: val}, nil
}

func asmTxn(ops *OpStream, spec *OpSpec, args []string) (Instruction, error) {
	if len(args) != 1 {
		return Instruction{}, ops.errorf(ErrDecode, "%s expects one argument", spec.Name)
	}
	field, err := TxnFieldByName(args[0])
	if err != nil {
		return Instruction{}, &SourceError{Line: ops.sourceLine, Err: err}
	}
	return Instruction{Opcode: spec.Opcode, Uint: uint64(field)}, nil
}

// parseBinaryArgs parses a byte literal from the front of args and reports
// how many of them it used.
//
// byte {base64,b64,base32,b32}(...)
// byte {base64,b64,base32,b32} ...
// byte 0x....
// byte "this is a string\n"
func parseBinaryArgs(args []string) (val []byte, consumed int, err error) {
	arg := args[0]
	if strings.HasPrefix(arg, "base32(") || strings.HasPrefix(arg, "b32(") {
		open := strings.IndexRune(arg, '(')
		close := strings.IndexRune(arg, ')')
		if close == -1 {
			err = fmt.Errorf("byte base32 arg lacks close paren")
			return
		}
		val, err = base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(arg[open+1:close], "="))
		if err != nil {
			return
		}
		consumed = 1
	} else if strings.HasPrefix(arg, "base64(") || strings.HasPrefix(arg, "b64(") {
		open := strings.IndexRune(arg, '(')
		close := strings.IndexRune(arg, ')')
		if close == -1 {
			err = fmt.Errorf("byte base64 arg lacks close paren")
			return
		}
		val, err = base64.StdEncoding.DecodeString(arg[open+1 : close])
		if err != nil {
			return
		}
		consumed = 1
	} else if strings.HasPrefix(arg, "0x") {
		val, err = hex.DecodeString(arg[2:])
		if err != nil {
			return
		}
		consumed = 1
	} else if arg == "base32" || arg == "b32" {
		if len(args) < 2 {
			err = fmt.Errorf("need literal after 'byte %s'", arg)
			return
		}
		val, err = base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(args[1], "="))
		if err != nil {
			return
		}
		consumed = 2
	} else if arg == "base64" || arg == "b64" {
		if len(args) < 2 {
			err = fmt.Errorf("need literal after 'byte %s'", arg)
			return
		}
		val, err = base64.StdEncoding.DecodeString(args[1])
		if err != nil {
			return
		}
		consumed = 2
	} else if len(arg) > 1 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		val, err = parseStringLiteral(arg)
		if err != nil {
			return
		}
		consumed = 1
	} else {
		err = fmt.Errorf("byte arg did not parse: %v", arg)
		return
	}
	// a decoded literal is never nil, so it stays a byte value on the stack
	if val == nil {
		val = []byte{}
	}
	return
}

func parseStringLiteral(input string) (result []byte, err error) {
	start := 0
	end := len(input) - 1
	if input[start] != '"' || input[end] != '"' {
		return nil, fmt.Errorf("no quotes")
	}
	start++

	escapeSeq := false
	hexSeq := false
	result = make([]byte, 0, end-start+1)

	// skip first and last quotes
	pos := start
	for pos < end {
		char := input[pos]
		if char == '\\' && !escapeSeq {
			if hexSeq {
				return nil, fmt.Errorf("escape seq inside hex number")
			}
			escapeSeq = true
			pos++
			continue
		}
		if escapeSeq {
			escapeSeq = false
			switch char {
			case 'n':
				char = '\n'
			case 'r':
				char = '\r'
			case 't':
				char = '\t'
			case '\\':
				char = '\\'
			case '"':
				char = '"'
			case 'x':
				hexSeq = true
				pos++
				continue
			default:
				return nil, fmt.Errorf("invalid escape seq \\%c", char)
			}
		}
		if hexSeq {
			hexSeq = false
			if pos >= len(input)-2 { // count a closing quote
				return nil, fmt.Errorf("non-terminated hex seq")
			}
			num, err := strconv.ParseUint(input[pos:pos+2], 16, 8)
			if err != nil {
				return nil, err
			}
			char = uint8(num)
			pos++
		}

		result = append(result, char)
		pos++
	}
	if escapeSeq || hexSeq {
		return nil, fmt.Errorf("non-terminated escape seq")
	}

	return
}

// fieldsFromLine splits a line into tokens. Quoted strings stay one token
// and a // outside quotes ends the line.
func fieldsFromLine(line string) []string {
	var fields []string

	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}

	start := i
	inString := false
	inBase64 := false
	for i < len(line) {
		if !isSpace(line[i]) { // if not space
			switch line[i] {
			case '"': // is a string literal?
				if !inString {
					if i == 0 || i > 0 && isSpace(line[i-1]) {
						inString = true
					}
				} else {
					if line[i-1] != '\\' { // if not escape symbol
						inString = false
					}
				}
			case '/': // is a comment?
				if i < len(line)-1 && line[i+1] == '/' && !inBase64 && !inString {
					if start != i { // if a comment without whitespace
						fields = append(fields, line[start:i])
					}
					return fields
				}
			case '(': // is base64( seq?
				prefix := line[start:i]
				if prefix == "base64" || prefix == "b64" {
					inBase64 = true
				}
			case ')': // is ) as base64( completion
				if inBase64 {
					inBase64 = false
				}
			default:
			}
			i++
			continue
		}
		if !inString {
			field := line[start:i]
			fields = append(fields, field)
			if field == "base64" || field == "b64" {
				inBase64 = true
			} else if inBase64 {
				inBase64 = false
			}
		}
		i++

		if !inString {
			for i < len(line) && isSpace(line[i]) {
				i++
			}
			start = i
		}
	}
	if start < len(line) {
		fields = append(fields, line[start:])
	}

	return fields
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func (ops *OpStream) pragma(fields []string) error {
	if len(fields) < 2 || fields[0] != "#pragma" {
		return ops.errorf(ErrDecode, "invalid syntax: %s", strings.Join(fields, " "))
	}
	if fields[1] != "version" {
		return ops.errorf(ErrDecode, "unsupported pragma directive: %#v", fields[1])
	}
	if len(fields) != 3 {
		return ops.errorf(ErrDecode, "no version value")
	}
	if len(ops.program) > 0 {
		return ops.errorf(ErrDecode, "#pragma version is only allowed before instructions")
	}
	if ops.pragmaSeen {
		return ops.errorf(ErrDecode, "#pragma version redefined")
	}
	ver, err := strconv.ParseUint(fields[2], 0, 64)
	if err != nil {
		return ops.errorf(ErrDecode, "bad #pragma version: %#v", fields[2])
	}
	if ver < 1 || ver > AssemblerMaxVersion {
		return ops.errorf(ErrDecode, "unsupported version: %d", ver)
	}
	ops.Version = ver
	ops.pragmaSeen = true
	return nil
}

// assemble reads text from an input and accumulates the program
func (ops *OpStream) assemble(fin io.Reader) error {
	scanner := bufio.NewScanner(fin)
	for scanner.Scan() {
		ops.sourceLine++
		fields := fieldsFromLine(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if strings.HasPrefix(fields[0], "#") {
			if err := ops.pragma(fields); err != nil {
				return err
			}
			continue
		}
		opstring := fields[0]
		spec, ok := OpSpecByName(opstring)
		if !ok {
			return ops.errorf(ErrOpcode, "unknown opcode: %s", opstring)
		}
		asm, ok := asmFuncs[opstring]
		if !ok {
			asm = asmNone
		}
		inst, err := asm(ops, &spec, fields[1:])
		if err != nil {
			return err
		}
		inst.Line = ops.sourceLine
		inst.Text = strings.Join(fields, " ")
		ops.program = append(ops.program, inst)
	}
	if err := scanner.Err(); err != nil {
		return ops.errorf(ErrDecode, "%v", err)
	}
	return nil
}

// AssembleString takes an entire program in a string and assembles it.
func AssembleString(text string) (*Program, error) {
	ops := OpStream{Version: AssemblerDefaultVersion}
	if err := ops.assemble(strings.NewReader(text)); err != nil {
		return nil, err
	}
	return &Program{Version: ops.Version, Instructions: ops.program}, nil
}

// bytesLiteral renders b so that parseBinaryArgs reads it back: a quoted
// string when every byte is printable and needs no escape, hex otherwise.
func bytesLiteral(b []byte) string {
	for _, c := range b {
		if c < 0x20 || c > 0x7e || c == '"' || c == '\\' {
			return "0x" + hex.EncodeToString(b)
		}
	}
	return `"` + string(b) + `"`
}

// Disassemble renders p in the canonical text form. Assembling the result
// gives back the same instructions.
func Disassemble(p *Program) string {
	var out strings.Builder
	fmt.Fprintf(&out, "#pragma version %d\n", p.Version)
	for i := range p.Instructions {
		out.WriteString(p.Instructions[i].canonical())
		out.WriteByte('\n')
	}
	return out.String()
}
