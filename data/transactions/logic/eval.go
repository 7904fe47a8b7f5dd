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
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/logging"
)

// stackValue is the type for the operand stack.
// Each stackValue is either a valid []byte value or a uint64 value.
// If (.Bytes != nil) the stackValue is a []byte value, otherwise uint64 value.
type stackValue struct {
	Uint  uint64
	Bytes []byte
}

func (sv *stackValue) argType() StackType {
	if sv.Bytes != nil {
		return StackBytes
	}
	return StackUint64
}

func (sv *stackValue) typeName() string {
	if sv.Bytes != nil {
		return "[]byte"
	}
	return "uint64"
}

func (sv *stackValue) String() string {
	if sv.Bytes != nil {
		return hex.EncodeToString(sv.Bytes)
	}
	return fmt.Sprintf("%d 0x%x", sv.Uint, sv.Uint)
}

func (sv *stackValue) toTealValue() (tv basics.TealValue) {
	if sv.argType() == StackBytes {
		return basics.TealValue{Type: basics.TealBytesType, Bytes: string(sv.Bytes)}
	}
	return basics.TealValue{Type: basics.TealUintType, Uint: sv.Uint}
}

func stackValueFromTealValue(tv *basics.TealValue) (sv stackValue, err error) {
	switch tv.Type {
	case basics.TealBytesType:
		sv.Bytes = append(make([]byte, 0, len(tv.Bytes)), tv.Bytes...)
	case basics.TealUintType:
		sv.Uint = tv.Uint
	default:
		err = fmt.Errorf("%w: invalid TealValue type: %d", ErrTypeMismatch, tv.Type)
	}
	return
}

// nonNil keeps empty byte strings in the bytes variant.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Verdict is the outcome of an evaluation.
type Verdict int

const (
	// Running is the state of an evaluation that has not finished.
	Running Verdict = iota
	// Accepted programs approve the transaction.
	Accepted
	// Rejected programs finished cleanly without approving.
	Rejected
	// Faulted programs stopped on an error.
	Faulted
)

func (v Verdict) String() string {
	switch v {
	case Running:
		return "running"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// EvalParams contains data that comes into condition evaluation.
type EvalParams struct {
	Proto *config.ConsensusParams

	Txn *transactions.SignedTxn

	// GroupIndex is the position of Txn in its group
	GroupIndex int

	// Globals is the application's global state. Accepted programs write
	// their changes into it. A nil map makes the program run against an
	// empty store and nothing is committed.
	Globals basics.TealKeyValue

	// Strict makes a program that falls off the end with anything other
	// than a single uint on the stack fault instead of rejecting.
	Strict bool

	// optional debug trace of each step
	Trace *strings.Builder

	// optional tracer hooks
	Tracer EvalTracer

	// Logger receives recovered panics. Defaults to logging.Base().
	Logger logging.Logger
}

// NewEvalParams returns params for txn at the current consensus version,
// evaluated strictly.
func NewEvalParams(txn *transactions.SignedTxn, globals basics.TealKeyValue) *EvalParams {
	proto := config.CurrentParams()
	return &EvalParams{
		Proto:   &proto,
		Txn:     txn,
		Globals: globals,
		Strict:  true,
	}
}

func (ep *EvalParams) log() logging.Logger {
	if ep.Logger != nil {
		return ep.Logger
	}
	return logging.Base()
}

// Result is what an evaluation produced.
type Result struct {
	Verdict Verdict
	Err     error

	// Stack and Scratch as they were when the program stopped, bottom first.
	Stack   []basics.TealValue
	Scratch []basics.TealValue

	// Delta is the staged change to the global store. Committed says
	// whether it was written into EvalParams.Globals.
	Delta     basics.StateDelta
	Committed bool

	Steps int
}

// EvalContext is the execution context of AVM bytecode.  It contains the full
// state of the running program, and tracks some of the things that the program
// has done, like the staged global writes.
type EvalContext struct {
	*EvalParams

	program *Program
	version uint64

	stack   []stackValue
	scratch []stackValue
	globals *keyValueCow

	pc     int
	nextpc int
	steps  int
	err    error
}

// Eval runs program against params. The returned error is non-nil exactly
// when the verdict is Faulted, and is the same as Result.Err.
func Eval(program *Program, params *EvalParams) (Result, error) {
	var ep EvalParams
	if params != nil {
		ep = *params
	}
	cx := EvalContext{EvalParams: &ep}
	return eval(program, &cx)
}

func eval(program *Program, cx *EvalContext) (res Result, err error) {
	defer func() {
		if x := recover(); x != nil {
			buf := make([]byte, 16*1024)
			stlen := runtime.Stack(buf, false)
			errstr := string(buf[:stlen])
			if cx.Trace != nil {
				errstr += cx.Trace.String()
			}
			err = PanicError{x, errstr}
			cx.log().Errorf("recovered panic in Eval: %v", err)
			cx.err = err
			res = cx.result(Faulted, false)
		}
	}()

	if err = cx.begin(program); err != nil {
		return Result{Verdict: Faulted, Err: err}, err
	}

	if cx.Tracer != nil {
		cx.Tracer.BeforeProgram(cx)
	}

	for cx.err == nil && cx.pc < len(cx.program.Instructions) {
		cx.step()
	}

	verdict := cx.finish()
	if cx.err != nil && cx.Trace != nil {
		fmt.Fprintf(cx.Trace, "%3d %s\n", cx.pc, cx.err)
	}

	committed := false
	if verdict == Accepted && cx.Globals != nil {
		if aerr := cx.Globals.Apply(cx.globals.delta); aerr != nil {
			cx.err = cx.evalError(aerr)
			verdict = Faulted
		} else {
			committed = true
		}
	}

	if cx.Tracer != nil {
		cx.Tracer.AfterProgram(cx, verdict == Accepted, cx.err)
	}
	return cx.result(verdict, committed), cx.err
}

// begin checks the preconditions of an evaluation. Failures are faults at
// pc 0 of kind ErrDecode, or ErrIndexOutOfRange for the argument count.
func (cx *EvalContext) begin(program *Program) error {
	if cx.Proto == nil {
		proto := config.CurrentParams()
		cx.Proto = &proto
	}
	if cx.Proto.LogicSigVersion == 0 {
		return &EvalError{Err: fmt.Errorf("%w: %w", ErrDecode, errLogicSigNotSupported)}
	}
	if program == nil {
		return &EvalError{Err: fmt.Errorf("%w: %w", ErrDecode, errNoProgram)}
	}
	if cx.Txn == nil {
		cx.Txn = &transactions.SignedTxn{}
	}
	if len(cx.Txn.Lsig.Args) > cx.Proto.EvalMaxArgs {
		return &EvalError{Err: fmt.Errorf("%w: %w: %d > %d", ErrIndexOutOfRange, errTooManyArgs, len(cx.Txn.Lsig.Args), cx.Proto.EvalMaxArgs)}
	}
	if program.Version == 0 || program.Version > cx.Proto.LogicSigVersion {
		return &EvalError{Err: fmt.Errorf("%w: program version %d not in supported range 1..%d", ErrDecode, program.Version, cx.Proto.LogicSigVersion)}
	}

	cx.program = program
	cx.version = program.Version
	cx.stack = make([]stackValue, 0, 10)
	cx.scratch = make([]stackValue, cx.Proto.MaxScratchSlots)
	cx.globals = makeKeyValueCow(cx.Globals, basics.StateDelta{})
	cx.pc = 0
	return nil
}

// finish decides the verdict once the loop has stopped.
func (cx *EvalContext) finish() Verdict {
	if cx.err != nil {
		return Faulted
	}
	if len(cx.stack) == 1 && cx.stack[0].Bytes == nil {
		if cx.stack[0].Uint != 0 {
			return Accepted
		}
		return Rejected
	}
	if cx.Trace != nil {
		fmt.Fprintf(cx.Trace, "end stack:\n")
		for i, sv := range cx.stack {
			fmt.Fprintf(cx.Trace, "[%d] %s\n", i, sv.String())
		}
	}
	if !cx.Strict {
		return Rejected
	}
	if len(cx.stack) != 1 {
		cx.err = cx.evalError(fmt.Errorf("%w: stack len is %d instead of 1", ErrStackShape, len(cx.stack)))
	} else {
		cx.err = cx.evalError(fmt.Errorf("%w: stack finished with bytes not int", ErrStackShape))
	}
	return Faulted
}

func (cx *EvalContext) result(verdict Verdict, committed bool) Result {
	res := Result{
		Verdict:   verdict,
		Err:       cx.err,
		Committed: committed,
		Steps:     cx.steps,
	}
	res.Stack = make([]basics.TealValue, len(cx.stack))
	for i := range cx.stack {
		res.Stack[i] = cx.stack[i].toTealValue()
	}
	res.Scratch = make([]basics.TealValue, len(cx.scratch))
	for i := range cx.scratch {
		res.Scratch[i] = cx.scratch[i].toTealValue()
	}
	if cx.globals != nil {
		res.Delta = cx.GlobalDelta()
	}
	return res
}

// evalError attaches the current position to err.
func (cx *EvalContext) evalError(err error) error {
	ee := &EvalError{Err: err, PC: cx.pc}
	if cx.program != nil && cx.pc < len(cx.program.Instructions) {
		inst := &cx.program.Instructions[cx.pc]
		ee.Line = inst.Line
		ee.Op = opsByOpcode[inst.Opcode].Name
	}
	return ee
}

func (cx *EvalContext) step() {
	if cx.steps >= cx.Proto.MaxEvalSteps {
		cx.err = cx.evalError(fmt.Errorf("%w: more than %d instructions", ErrStepLimitExceeded, cx.Proto.MaxEvalSteps))
		return
	}
	cx.steps++

	if cx.Tracer != nil {
		cx.Tracer.BeforeOpcode(cx)
	}

	inst := &cx.program.Instructions[cx.pc]
	spec := &opsByOpcode[inst.Opcode]
	cx.execute(spec)
	if cx.err != nil {
		cx.err = cx.evalError(cx.err)
	}

	if cx.Trace != nil && cx.err == nil {
		var stackString string
		if len(cx.stack) == 0 {
			stackString = "<empty stack>"
		} else {
			num := 1
			if len(spec.Return) > 1 {
				num = len(spec.Return)
			}
			if num > len(cx.stack) {
				num = len(cx.stack)
			}
			for i := 1; i <= num; i++ {
				stackString += fmt.Sprintf("(%s) ", cx.stack[len(cx.stack)-i].String())
			}
		}
		fmt.Fprintf(cx.Trace, "%3d %s => %s\n", cx.pc, inst.String(), stackString)
	}

	if cx.Tracer != nil {
		cx.Tracer.AfterOpcode(cx, cx.err)
	}
	if cx.err != nil {
		return
	}
	cx.pc = cx.nextpc
}

// execute checks the stack against spec, runs the handler and checks what
// it produced. It reports failure in cx.err.
func (cx *EvalContext) execute(spec *OpSpec) {
	// this check also rejects opcodes that decode but are not in the table
	if spec.op == nil {
		cx.err = fmt.Errorf("%w 0x%02x", ErrOpcode, cx.program.Instructions[cx.pc].Opcode)
		return
	}
	if spec.Version > cx.version {
		cx.err = fmt.Errorf("%w: %s needs version %d", ErrOpcode, spec.Name, spec.Version)
		return
	}

	// check args for stack underflow and types
	if len(cx.stack) < len(spec.Arg) {
		cx.err = fmt.Errorf("%w in %s: needs %d, have %d", ErrStackUnderflow, spec.Name, len(spec.Arg), len(cx.stack))
		return
	}
	first := len(cx.stack) - len(spec.Arg)
	for i, argType := range spec.Arg {
		if !opCompat(argType, cx.stack[first+i].argType()) {
			cx.err = fmt.Errorf("%w: %s arg %d wanted %s but got %s", ErrTypeMismatch, spec.Name, i, argType.String(), cx.stack[first+i].typeName())
			return
		}
	}
	if len(cx.stack)-len(spec.Arg)+len(spec.Return) > cx.Proto.MaxStackDepth {
		cx.err = fmt.Errorf("%w: %s would exceed depth %d", ErrStackOverflow, spec.Name, cx.Proto.MaxStackDepth)
		return
	}

	cx.nextpc = cx.pc + 1
	preheight := len(cx.stack)
	spec.op(cx)
	if cx.err != nil {
		return
	}

	postheight := len(cx.stack)
	if !spec.Terminal && postheight-preheight != len(spec.Return)-len(spec.Arg) {
		cx.err = fmt.Errorf("%s changed stack height improperly %d != %d",
			spec.Name, postheight-preheight, len(spec.Return)-len(spec.Arg))
		return
	}
	first = postheight - len(spec.Return)
	for i, argType := range spec.Return {
		stackType := cx.stack[first+i].argType()
		if !opCompat(argType, stackType) {
			cx.err = fmt.Errorf("%w: %s produced %s but intended %s", ErrTypeMismatch, spec.Name, cx.stack[first+i].typeName(), argType.String())
			return
		}
		if stackType == StackBytes && len(cx.stack[first+i].Bytes) > cx.Proto.MaxStringSize {
			cx.err = fmt.Errorf("%w: %s produced a too big (%d) byte-array", ErrValueTooLarge, spec.Name, len(cx.stack[first+i].Bytes))
			return
		}
	}
}

func (cx *EvalContext) instruction() *Instruction {
	return &cx.program.Instructions[cx.pc]
}

// push appends sv to the operand stack.
func (cx *EvalContext) push(sv stackValue) error {
	if len(cx.stack) >= cx.Proto.MaxStackDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, cx.Proto.MaxStackDepth)
	}
	cx.stack = append(cx.stack, sv)
	return nil
}

// pop removes and returns the top of the operand stack.
func (cx *EvalContext) pop() (stackValue, error) {
	if len(cx.stack) == 0 {
		return stackValue{}, fmt.Errorf("%w: pop from empty stack", ErrStackUnderflow)
	}
	last := len(cx.stack) - 1
	sv := cx.stack[last]
	cx.stack = cx.stack[:last]
	return sv, nil
}

// peek returns the value n places below the top, 0 being the top.
func (cx *EvalContext) peek(n int) (stackValue, error) {
	if n < 0 || n >= len(cx.stack) {
		return stackValue{}, fmt.Errorf("%w: peek %d with %d on the stack", ErrStackUnderflow, n, len(cx.stack))
	}
	return cx.stack[len(cx.stack)-1-n], nil
}

// PC is the index of the instruction about to run, or that just ran.
func (cx *EvalContext) PC() int {
	return cx.pc
}

// Program returns the program being evaluated.
func (cx *EvalContext) Program() *Program {
	return cx.program
}

// Steps is the number of instructions started so far.
func (cx *EvalContext) Steps() int {
	return cx.steps
}

// StackValues returns a copy of the operand stack, bottom first.
func (cx *EvalContext) StackValues() []basics.TealValue {
	values := make([]basics.TealValue, len(cx.stack))
	for i := range cx.stack {
		values[i] = cx.stack[i].toTealValue()
	}
	return values
}

// ScratchValues returns the scratch slots that hold something other than
// uint 0.
func (cx *EvalContext) ScratchValues() map[int]basics.TealValue {
	values := make(map[int]basics.TealValue)
	for i := range cx.scratch {
		if cx.scratch[i].Bytes != nil || cx.scratch[i].Uint != 0 {
			values[i] = cx.scratch[i].toTealValue()
		}
	}
	return values
}

// GlobalDelta returns a copy of the staged global changes.
func (cx *EvalContext) GlobalDelta() basics.StateDelta {
	delta := make(basics.StateDelta, len(cx.globals.delta))
	for k, v := range cx.globals.delta {
		delta[k] = v
	}
	return delta
}

// GlobalState returns the global store as the program currently sees it,
// staged changes included.
func (cx *EvalContext) GlobalState() basics.TealKeyValue {
	return cx.globals.view()
}

func opErr(cx *EvalContext) {
	cx.err = fmt.Errorf("%w: err opcode executed", ErrOpcode)
}

func opReturn(cx *EvalContext) {
	// Achieve the end condition:
	// Take the last element on the stack and make it the return value (only element on the stack)
	// Move the pc to the end of the program
	last := len(cx.stack) - 1
	cx.stack[0] = cx.stack[last]
	cx.stack = cx.stack[:1]
	cx.nextpc = len(cx.program.Instructions)
}

func opAssert(cx *EvalContext) {
	last := len(cx.stack) - 1
	if cx.stack[last].Uint != 0 {
		cx.stack = cx.stack[:last]
		return
	}
	cx.err = fmt.Errorf("%w: assert failed pc=%d", ErrAssertFailed, cx.pc)
}

func opSHA256(cx *EvalContext) {
	last := len(cx.stack) - 1
	hash := sha256.Sum256(cx.stack[last].Bytes)
	cx.stack[last].Bytes = hash[:]
}

// The Keccak256 variant of SHA-3 is implemented for compatibility with Ethereum
func opKeccak256(cx *EvalContext) {
	last := len(cx.stack) - 1
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(cx.stack[last].Bytes)
	hv := make([]byte, 0, hasher.Size())
	hv = hasher.Sum(hv)
	cx.stack[last].Bytes = hv
}

// This is the hash commonly used in Algorand in crypto/util.go Hash()
//
// It is explicitly implemented here in terms of the specific hash for
// stability and portability in case the rest of Algorand ever moves
// to a different default hash.
func opSHA512_256(cx *EvalContext) {
	last := len(cx.stack) - 1
	hash := sha512.Sum512_256(cx.stack[last].Bytes)
	cx.stack[last].Bytes = hash[:]
}

func opPlus(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	sum, overflowed := basics.OAdd(cx.stack[prev].Uint, cx.stack[last].Uint)
	if overflowed {
		cx.err = fmt.Errorf("%w: + overflowed", ErrOverflow)
		return
	}
	cx.stack[prev].Uint = sum
	cx.stack = cx.stack[:last]
}

func opMinus(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	diff, overflowed := basics.OSub(cx.stack[prev].Uint, cx.stack[last].Uint)
	if overflowed {
		cx.err = fmt.Errorf("%w: - would result negative", ErrOverflow)
		return
	}
	cx.stack[prev].Uint = diff
	cx.stack = cx.stack[:last]
}

func boolToUint(x bool) uint64 {
	if x {
		return 1
	}
	return 0
}

func opLt(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cond := cx.stack[prev].Uint < cx.stack[last].Uint
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

// opSwap, opLt, and opNot always succeed (as checked). So ops that use them
// can do so safely.

func opGt(cx *EvalContext) {
	opSwap(cx)
	opLt(cx)
}

func opLe(cx *EvalContext) {
	opGt(cx)
	opNot(cx)
}

func opGe(cx *EvalContext) {
	opLt(cx)
	opNot(cx)
}

func opAnd(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cond := (cx.stack[prev].Uint != 0) && (cx.stack[last].Uint != 0)
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

func opOr(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cond := (cx.stack[prev].Uint != 0) || (cx.stack[last].Uint != 0)
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

func opEq(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	ta := cx.stack[prev].argType()
	tb := cx.stack[last].argType()
	if ta != tb {
		cx.err = fmt.Errorf("%w: cannot compare (%s to %s)", ErrTypeMismatch, cx.stack[prev].typeName(), cx.stack[last].typeName())
		return
	}
	var cond bool
	if ta == StackBytes {
		cond = bytes.Equal(cx.stack[prev].Bytes, cx.stack[last].Bytes)
	} else {
		cond = cx.stack[prev].Uint == cx.stack[last].Uint
	}
	cx.stack[prev].Bytes = nil
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

func opNeq(cx *EvalContext) {
	opEq(cx)
	if cx.err != nil {
		return
	}
	opNot(cx)
}

func opNot(cx *EvalContext) {
	last := len(cx.stack) - 1
	cx.stack[last].Uint = boolToUint(cx.stack[last].Uint == 0)
}

func opLen(cx *EvalContext) {
	last := len(cx.stack) - 1
	cx.stack[last].Uint = uint64(len(cx.stack[last].Bytes))
	cx.stack[last].Bytes = nil
}

func opItob(cx *EvalContext) {
	last := len(cx.stack) - 1
	ibytes := make([]byte, 8)
	binary.BigEndian.PutUint64(ibytes, cx.stack[last].Uint)
	// cx.stack[last].Uint is not cleared out as optimization
	// stackValue.argType() checks Bytes field first
	cx.stack[last].Bytes = ibytes
}

func opBtoi(cx *EvalContext) {
	last := len(cx.stack) - 1
	ibytes := cx.stack[last].Bytes
	if len(ibytes) > 8 {
		cx.err = fmt.Errorf("%w: btoi arg too long, got [%d]bytes", ErrValueTooLarge, len(ibytes))
		return
	}
	value := uint64(0)
	for _, b := range ibytes {
		value = value << 8
		value = value | (uint64(b) & 0x0ff)
	}
	cx.stack[last].Uint = value
	cx.stack[last].Bytes = nil
}

func opPushInt(cx *EvalContext) {
	cx.err = cx.push(stackValue{Uint: cx.instruction().Uint})
}

func opPushBytes(cx *EvalContext) {
	// copy, so the program is never aliased by the stack
	literal := cx.instruction().Bytes
	cx.err = cx.push(stackValue{Bytes: append(make([]byte, 0, len(literal)), literal...)})
}

func opPop(cx *EvalContext) {
	_, cx.err = cx.pop()
}

func opDup(cx *EvalContext) {
	top, err := cx.peek(0)
	if err != nil {
		cx.err = err
		return
	}
	cx.err = cx.push(top)
}

func opSwap(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cx.stack[last], cx.stack[prev] = cx.stack[prev], cx.stack[last]
}

func (cx *EvalContext) scratchIndex() (int, error) {
	n := cx.instruction().Uint
	if n >= uint64(len(cx.scratch)) {
		return 0, fmt.Errorf("%w: scratch slot %d, have %d", ErrIndexOutOfRange, n, len(cx.scratch))
	}
	return int(n), nil
}

func opLoad(cx *EvalContext) {
	n, err := cx.scratchIndex()
	if err != nil {
		cx.err = err
		return
	}
	cx.err = cx.push(cx.scratch[n])
}

func opStore(cx *EvalContext) {
	n, err := cx.scratchIndex()
	if err != nil {
		cx.err = err
		return
	}
	sv, err := cx.pop()
	if err != nil {
		cx.err = err
		return
	}
	cx.scratch[n] = sv
}

func opArgN(cx *EvalContext, n uint64) {
	if n >= uint64(len(cx.Txn.Lsig.Args)) {
		cx.err = fmt.Errorf("%w: cannot load arg[%d] of %d", ErrIndexOutOfRange, n, len(cx.Txn.Lsig.Args))
		return
	}
	val := nonNil(cx.Txn.Lsig.Args[n])
	cx.err = cx.push(stackValue{Bytes: val})
}

func opArg(cx *EvalContext) {
	opArgN(cx, cx.instruction().Uint)
}
func opArg0(cx *EvalContext) {
	opArgN(cx, 0)
}
func opArg1(cx *EvalContext) {
	opArgN(cx, 1)
}
func opArg2(cx *EvalContext) {
	opArgN(cx, 2)
}
func opArg3(cx *EvalContext) {
	opArgN(cx, 3)
}

func (cx *EvalContext) txnFieldToStack(field TxnField) (sv stackValue, err error) {
	txn := &cx.Txn.Txn
	switch field {
	case Sender:
		sv.Bytes = txn.Sender[:]
	case Fee:
		sv.Uint = txn.Fee
	case FirstValid:
		sv.Uint = txn.FirstValid
	case LastValid:
		sv.Uint = txn.LastValid
	case Note:
		sv.Bytes = nonNil(txn.Note)
	case Receiver:
		sv.Bytes = txn.Receiver[:]
	case Amount:
		sv.Uint = txn.Amount
	case CloseRemainderTo:
		sv.Bytes = txn.CloseRemainderTo[:]
	case Type:
		sv.Bytes = append([]byte{}, string(txn.Type)...)
	case TypeEnum:
		sv.Uint = txnTypeIndexes[txn.Type]
	case GroupIndex:
		sv.Uint = uint64(cx.GroupIndex)
	case ApplicationID:
		sv.Uint = txn.ApplicationID
	case OnCompletion:
		sv.Uint = uint64(txn.OnCompletion)
	case NumAppArgs:
		sv.Uint = uint64(len(txn.ApplicationArgs))
	case RekeyTo:
		sv.Bytes = txn.RekeyTo[:]
	default:
		err = fmt.Errorf("%w: invalid txn field %d", ErrUnknownField, field)
	}
	return
}

func opTxn(cx *EvalContext) {
	field := TxnField(cx.instruction().Uint)
	sv, err := cx.txnFieldToStack(field)
	if err != nil {
		cx.err = err
		return
	}
	cx.err = cx.push(sv)
}
