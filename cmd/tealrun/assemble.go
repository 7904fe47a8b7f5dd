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
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/algorand/go-microavm/data/transactions/logic"
)

var (
	assembleOut    string
	assembleHex    bool
	assembleDisasm bool
	assembleBinary bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble program.teal",
	Short: "Assemble a program and print its instructions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssemble(cmd.OutOrStdout(), args[0], assembleOut, assembleHex, assembleDisasm, assembleBinary)
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOut, "output", "o", "", "Write the assembled bytecode to this file")
	assembleCmd.Flags().BoolVar(&assembleHex, "hex", false, "Print the assembled bytecode in hex")
	assembleCmd.Flags().BoolVar(&assembleDisasm, "disassemble", false, "Print the canonical source instead of the listing")
	assembleCmd.Flags().BoolVar(&assembleBinary, "binary", false, "The program file holds assembled bytecode")
}

func runAssemble(out io.Writer, filename string, output string, printHex bool, disassemble bool, binary bool) error {
	prog, err := readProgram(filename, binary)
	if err != nil {
		return err
	}

	if disassemble {
		fmt.Fprint(out, logic.Disassemble(prog))
	} else {
		fmt.Fprintf(out, "#pragma version %d\n", prog.Version)
		for pc := range prog.Instructions {
			inst := &prog.Instructions[pc]
			fmt.Fprintf(out, "%3d line %-3d 0x%02x %s\n", pc, inst.Line, inst.Opcode, inst.String())
		}
	}

	if output == "" && !printHex {
		return nil
	}
	code, err := prog.Bytes()
	if err != nil {
		return err
	}
	if printHex {
		fmt.Fprintln(out, hex.EncodeToString(code))
	}
	if output != "" {
		return os.WriteFile(output, code, 0644)
	}
	return nil
}
