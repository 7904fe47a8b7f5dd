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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var stateApp uint64

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the persisted global state of an application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runState(cmd.Context(), cmd.OutOrStdout(), dataDir, stateApp)
	},
}

func init() {
	stateCmd.Flags().Uint64Var(&stateApp, "app", 1, "Application id")
}

func runState(ctx context.Context, out io.Writer, dir string, app uint64) error {
	if dir == "" {
		return errors.New("state needs a data directory, set --datadir")
	}
	dl, err := openDataLedger(ctx, dir)
	if err != nil {
		return err
	}
	defer dl.Close()

	globals, err := dl.Globals(ctx, app)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "app %d global: %s\n", app, formatGlobals(globals))
	return nil
}
