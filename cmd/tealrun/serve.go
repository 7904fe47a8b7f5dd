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
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/algorand/go-microavm/daemon/api"
	"github.com/algorand/go-microavm/logging"
	"github.com/algorand/go-microavm/util/metrics"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dry runs over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, dataDir, serveListen, nil)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Address to listen on. Defaults to the APIEndpoint of the config")
}

// shutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// runServe serves until ctx is done. When ready is set, it receives the
// bound address once the listener is up.
func runServe(ctx context.Context, dir string, listen string, ready chan<- string) error {
	dl, err := openDataLedger(ctx, dir)
	if err != nil {
		return err
	}
	defer dl.Close()

	if listen == "" {
		listen = dl.cfg.APIEndpoint
	}
	var reg *metrics.Registry
	if dl.cfg.EnableMetrics {
		reg = metrics.DefaultRegistry()
	}

	log := logging.Base()
	listener, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", listen, err)
	}
	server := &http.Server{
		Handler:           api.Handler(dl.Ledger, reg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	log.Infof("serving dry runs on %s", listener.Addr())
	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = server.Shutdown(shutdownCtx)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
