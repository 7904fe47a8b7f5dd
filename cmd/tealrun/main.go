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
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/ledger"
	"github.com/algorand/go-microavm/logging"
)

var dataDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tealrun",
	Short: "Run micro AVM programs",
	Long: `Assemble and run micro AVM programs against application global state
kept in a data directory, or serve dry runs over HTTP`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", os.Getenv("TEALRUN_DATA"), "Data directory holding config.json and application state. Empty keeps state in memory")

	rootCmd.AddCommand(dryrunCmd)
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(opsCmd)
}

// dataLedger is a Ledger opened on a data directory, holding the
// directory's lock until Close.
type dataLedger struct {
	*ledger.Ledger
	cfg       config.Local
	lock      *flock.Flock
	logWriter *logging.CyclicFileWriter
}

func (dl *dataLedger) Close() error {
	err := dl.Ledger.Close()
	if dl.logWriter != nil {
		logging.Base().SetOutput(os.Stderr)
		dl.logWriter.Close()
	}
	if dl.lock != nil {
		if uerr := dl.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// openDataLedger loads the config of dir and opens its state. An empty dir
// runs on the default config with state in memory.
func openDataLedger(ctx context.Context, dir string) (*dataLedger, error) {
	if dir == "" {
		cfg := config.GetDefaultLocal()
		cfg.StateBackend = config.BackendMemory
		l, err := ledger.Open(ctx, cfg, "")
		if err != nil {
			return nil, err
		}
		return &dataLedger{Ledger: l, cfg: cfg}, nil
	}

	absolutePath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absolutePath, 0700); err != nil {
		return nil, fmt.Errorf("cannot create data directory %s: %w", absolutePath, err)
	}

	// the state backends are single writer, so is this tool
	fileLock := flock.New(filepath.Join(absolutePath, config.LockFilename))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("unexpected failure in establishing %s: %w", config.LockFilename, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock %s; is another tealrun using data directory %s?", config.LockFilename, absolutePath)
	}

	cfg, err := config.LoadConfigOrDefault(absolutePath)
	if err != nil {
		fileLock.Unlock()
		return nil, fmt.Errorf("cannot load config from %s: %w", absolutePath, err)
	}
	logging.Base().SetLevel(logging.Level(cfg.BaseLoggerDebugLevel))

	var logWriter *logging.CyclicFileWriter
	if cfg.LogSizeLimit > 0 {
		logWriter, err = logging.MakeCyclicFileWriter(
			filepath.Join(absolutePath, config.LogFilename),
			filepath.Join(absolutePath, config.LogArchiveFilename),
			cfg.LogSizeLimit)
		if err != nil {
			fileLock.Unlock()
			return nil, err
		}
		logging.Base().SetOutput(logWriter)
	}

	l, err := ledger.Open(ctx, cfg, absolutePath)
	if err != nil {
		if logWriter != nil {
			logging.Base().SetOutput(os.Stderr)
			logWriter.Close()
		}
		fileLock.Unlock()
		return nil, err
	}
	return &dataLedger{Ledger: l, cfg: cfg, lock: fileLock, logWriter: logWriter}, nil
}
