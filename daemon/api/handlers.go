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

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/data/transactions/logic"
	"github.com/algorand/go-microavm/ledger"
	"github.com/algorand/go-microavm/logging"
	"github.com/algorand/go-microavm/protocol"
)

// maxRequestBytes bounds a dryrun request body.
const maxRequestBytes = 1 << 20

// DryrunRequest is the body of POST /v1/apps/{app}/dryrun. The program is
// taken from Source, else Program, else Txn.Lsig.Logic.
type DryrunRequest struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Source  string                 `codec:"source"`
	Program []byte                 `codec:"program"`
	Txn     transactions.SignedTxn `codec:"txn"`
	Trace   bool                   `codec:"trace"`
}

// DryrunResponse reports the outcome of one evaluation.
type DryrunResponse struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Verdict   string            `codec:"verdict"`
	Error     string            `codec:"error"`
	Stack     []string          `codec:"stack"`
	Scratch   map[string]string `codec:"scratch"`
	Global    map[string]string `codec:"global"`
	Steps     int               `codec:"steps"`
	Committed bool              `codec:"committed"`
	Trace     string            `codec:"trace"`
}

// StateResponse is the body returned by GET /v1/apps/{app}/state.
type StateResponse struct {
	App    uint64            `codec:"app"`
	Global map[string]string `codec:"global"`
}

// OpResponse describes one opcode.
type OpResponse struct {
	Opcode    byte   `codec:"opcode"`
	Name      string `codec:"name"`
	Immediate string `codec:"immediate"`
	Signature string `codec:"signature"`
	Doc       string `codec:"doc"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Message string `codec:"message"`
}

// errorResponse writes external to the client and logs internal.
func errorResponse(w http.ResponseWriter, status int, internal error, external string, log logging.Logger) {
	log.Infof("%s: %v", external, internal)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	msg := external
	if internal != nil {
		msg = fmt.Sprintf("%s: %v", external, internal)
	}
	w.Write(protocol.EncodeJSON(ErrorResponse{Message: msg}))
}

// SendJSON writes obj as the JSON body of a 200 response.
func SendJSON(obj interface{}, w http.ResponseWriter, log logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(protocol.EncodeJSON(obj)); err != nil {
		log.Warnf("failed to write response: %v", err)
	}
}

func parseApp(r *http.Request) (uint64, error) {
	app, err := strconv.ParseUint(mux.Vars(r)["app"], 10, 64)
	if err == nil && app == 0 {
		err = ledger.ErrNoApplication
	}
	return app, err
}

func renderGlobals(kv basics.TealKeyValue) map[string]string {
	out := make(map[string]string, len(kv))
	for key, value := range kv {
		out[key] = value.String()
	}
	return out
}

// requestProgram picks the program a dryrun request carries.
func requestProgram(req DryrunRequest) (*logic.Program, string, error) {
	switch {
	case req.Source != "":
		prog, err := logic.AssembleString(req.Source)
		return prog, errFailedAssembling, err
	case len(req.Program) > 0:
		prog, err := logic.DecodeProgram(req.Program)
		return prog, errFailedDecodingProgram, err
	case !req.Txn.Lsig.Blank():
		prog, err := logic.DecodeProgram(req.Txn.Lsig.Logic)
		return prog, errFailedDecodingProgram, err
	}
	return nil, errNoProgram, nil
}

// Dryrun is an httpHandler for route POST /v1/apps/{app}/dryrun
//
// The program runs against the persisted globals of {app}; an accepted
// program's writes are persisted like any other call.
func Dryrun(ctx ReqContext, w http.ResponseWriter, r *http.Request) {
	app, err := parseApp(r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err, errFailedParsingAppIdx, ctx.Log)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err, errFailedParsingRequest, ctx.Log)
		return
	}
	var req DryrunRequest
	if err := protocol.DecodeJSON(body, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err, errFailedParsingRequest, ctx.Log)
		return
	}
	if err := req.Txn.WellFormed(config.CurrentParams()); err != nil {
		errorResponse(w, http.StatusBadRequest, err, errInvalidTransaction, ctx.Log)
		return
	}

	prog, msg, err := requestProgram(req)
	if err != nil || prog == nil {
		errorResponse(w, http.StatusBadRequest, err, msg, ctx.Log)
		return
	}

	call := ledger.AppCall{App: app, Program: prog, Txn: req.Txn}
	var trace strings.Builder
	if req.Trace {
		call.Trace = &trace
	}
	res, err := ctx.Ledger.Call(r.Context(), call)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err, errFailedEvaluating, ctx.Log)
		return
	}
	globals, err := ctx.Ledger.Globals(r.Context(), app)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpState, ctx.Log)
		return
	}

	response := DryrunResponse{
		Verdict:   res.Verdict.String(),
		Stack:     make([]string, len(res.Stack)),
		Scratch:   make(map[string]string),
		Global:    renderGlobals(globals),
		Steps:     res.Steps,
		Committed: res.Committed,
		Trace:     trace.String(),
	}
	if res.Err != nil {
		response.Error = res.Err.Error()
	}
	for i := range res.Stack {
		response.Stack[i] = res.Stack[i].String()
	}
	for i := range res.Scratch {
		if res.Scratch[i] != (basics.TealValue{Type: basics.TealUintType}) {
			response.Scratch[strconv.Itoa(i)] = res.Scratch[i].String()
		}
	}
	SendJSON(response, w, ctx.Log)
}

// AppState is an httpHandler for route GET /v1/apps/{app}/state
func AppState(ctx ReqContext, w http.ResponseWriter, r *http.Request) {
	app, err := parseApp(r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err, errFailedParsingAppIdx, ctx.Log)
		return
	}
	globals, err := ctx.Ledger.Globals(r.Context(), app)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpState, ctx.Log)
		return
	}
	SendJSON(StateResponse{App: app, Global: renderGlobals(globals)}, w, ctx.Log)
}

// Ops is an httpHandler for route GET /v1/ops
func Ops(ctx ReqContext, w http.ResponseWriter, r *http.Request) {
	ops := make([]OpResponse, 0, len(logic.OpSpecs))
	for _, spec := range logic.OpSpecs {
		ops = append(ops, OpResponse{
			Opcode:    spec.Opcode,
			Name:      spec.Name,
			Immediate: logic.OpImmediateNote(spec.Name),
			Signature: logic.OpSignature(spec.Name),
			Doc:       logic.OpDoc(spec.Name),
		})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Opcode < ops[j].Opcode })
	SendJSON(ops, w, ctx.Log)
}
