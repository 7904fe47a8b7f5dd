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

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/algorand/go-microavm/data/basics"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/data/transactions/logic"
	"github.com/algorand/go-microavm/ledger"
)

type dryrunOptions struct {
	txnFile   string
	args      []string
	argsB64   []string
	fee       uint64
	app       uint64
	trace     bool
	snapshots bool
	binary    bool
}

var dryrunOpts dryrunOptions

var dryrunCmd = &cobra.Command{
	Use:   "dryrun program.teal",
	Short: "Run a program as an application call",
	Long: `Run a program against the global state of an application. Accepted
programs persist their global writes to the data directory`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDryrun(cmd.Context(), cmd.OutOrStdout(), dataDir, args[0], dryrunOpts)
	},
}

func init() {
	dryrunCmd.Flags().StringVarP(&dryrunOpts.txnFile, "txn", "t", "", "Transaction to evaluate the program on, in json")
	dryrunCmd.Flags().StringArrayVar(&dryrunOpts.args, "arg", nil, "Logic argument, as a string. May be repeated")
	dryrunCmd.Flags().StringArrayVar(&dryrunOpts.argsB64, "arg-b64", nil, "Logic argument, base64 encoded. May be repeated")
	dryrunCmd.Flags().Uint64Var(&dryrunOpts.fee, "fee", 0, "Transaction fee, overriding the one in --txn")
	dryrunCmd.Flags().Uint64Var(&dryrunOpts.app, "app", 1, "Application id whose globals the program runs against")
	dryrunCmd.Flags().BoolVar(&dryrunOpts.trace, "trace", false, "Print each executed instruction and the top of the stack")
	dryrunCmd.Flags().BoolVar(&dryrunOpts.snapshots, "snapshots", false, "Print stack, scratch and globals after each instruction")
	dryrunCmd.Flags().BoolVar(&dryrunOpts.binary, "binary", false, "The program file holds assembled bytecode")
}

// readProgram assembles or decodes the program in filename.
func readProgram(filename string, binary bool) (*logic.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if binary {
		prog, err := logic.DecodeProgram(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return prog, nil
	}
	prog, err := logic.AssembleString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return prog, nil
}

// dryrunTxn builds the transaction from the --txn file and the flags.
func dryrunTxn(opts dryrunOptions) (txn transactions.SignedTxn, err error) {
	if opts.txnFile != "" {
		data, err := os.ReadFile(opts.txnFile)
		if err != nil {
			return txn, err
		}
		txn, err = transactions.DecodeSignedTxnJSON(data)
		if err != nil {
			return txn, fmt.Errorf("%s: %w", opts.txnFile, err)
		}
	}
	if opts.fee != 0 {
		txn.Txn.Fee = opts.fee
	}
	for _, arg := range opts.args {
		txn.Lsig.Args = append(txn.Lsig.Args, []byte(arg))
	}
	for _, arg := range opts.argsB64 {
		decoded, err := base64.StdEncoding.DecodeString(arg)
		if err != nil {
			return txn, fmt.Errorf("--arg-b64 %q: %w", arg, err)
		}
		txn.Lsig.Args = append(txn.Lsig.Args, decoded)
	}
	return txn, nil
}

var verdictColors = map[logic.Verdict]color.Attribute{
	logic.Accepted: color.FgGreen,
	logic.Rejected: color.FgYellow,
	logic.Faulted:  color.FgRed,
}

func formatValues(values []basics.TealValue) string {
	parts := make([]string, len(values))
	for i := range values {
		parts[i] = values[i].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatGlobals(kv basics.TealKeyValue) string {
	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		value := kv[key]
		parts[i] = fmt.Sprintf("%q: %s", key, value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func runDryrun(ctx context.Context, out io.Writer, dir string, filename string, opts dryrunOptions) error {
	prog, err := readProgram(filename, opts.binary)
	if err != nil {
		return err
	}
	txn, err := dryrunTxn(opts)
	if err != nil {
		return err
	}

	dl, err := openDataLedger(ctx, dir)
	if err != nil {
		return err
	}
	defer dl.Close()

	call := ledger.AppCall{App: opts.app, Program: prog, Txn: txn}
	var trace strings.Builder
	if opts.trace {
		call.Trace = &trace
	}
	var snapshots logic.SnapshotTracer
	if opts.snapshots {
		call.Tracer = &snapshots
	}

	res, err := dl.Call(ctx, call)
	if err != nil {
		return err
	}
	globals, err := dl.Globals(ctx, call.App)
	if err != nil {
		return err
	}

	if opts.trace {
		fmt.Fprint(out, trace.String())
	}
	if opts.snapshots {
		fmt.Fprint(out, snapshots.String())
	}
	color.New(verdictColors[res.Verdict]).Fprintf(out, "verdict: %s\n", res.Verdict)
	if res.Err != nil {
		fmt.Fprintf(out, "error:   %v\n", res.Err)
	}
	fmt.Fprintf(out, "stack:   %s\n", formatValues(res.Stack))
	fmt.Fprintf(out, "global:  %s\n", formatGlobals(globals))
	fmt.Fprintf(out, "steps:   %d\n", res.Steps)

	if res.Verdict != logic.Accepted {
		return fmt.Errorf("program %s", res.Verdict)
	}
	return nil
}
