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
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/algorand/go-microavm/data/transactions/logic"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the opcodes and txn fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOps(cmd.OutOrStdout())
	},
}

func runOps(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPCODE\tNAME\tIMMEDIATE\tSTACK\tDESCRIPTION")
	for _, spec := range logic.OpSpecs {
		fmt.Fprintf(tw, "0x%02x\t%s\t%s\t%s\t%s\n",
			spec.Opcode, spec.Name, logic.OpImmediateNote(spec.Name), logic.OpSignature(spec.Name), logic.OpDoc(spec.Name))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTYPE\tDESCRIPTION")
	docs := logic.TxnFieldDocs()
	for _, name := range logic.TxnFieldNames {
		field, err := logic.TxnFieldByName(name)
		if err != nil {
			return err
		}
		ftype, _ := logic.TxnFieldType(field)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, ftype, docs[name])
	}
	return tw.Flush()
}
