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
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-microavm/config"
	"github.com/algorand/go-microavm/data/transactions"
	"github.com/algorand/go-microavm/test/partitiontest"
)

const counterSource = `#pragma version 1
// increment the counter global
byte "counter"
dup
app_global_get
int 1
+
dup
store 0
app_global_put
load 0
return
`

const passphrase = "weather comfort erupt verb pet range endorse exhibit tree brush crane man"

const passphraseSource = `txn Fee
int 10000
<=
arg 0
len
int 73
==
&&
arg 0
sha256
byte base64 30AT2gOReDBdJmLBO/DgvjC6hIXgACecTpFDcP1bJHU=
==
&&
`

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDryrunCounterPersists(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	prog := writeFile(t, "counter.teal", counterSource)

	var out strings.Builder
	a.NoError(runDryrun(ctx, &out, dir, prog, dryrunOptions{app: 1}))
	a.Contains(out.String(), "verdict: accepted\n")
	a.Contains(out.String(), "stack:   [1]\n")
	a.Contains(out.String(), `global:  {"counter": 1}`)
	a.Contains(out.String(), "steps:   10\n")

	out.Reset()
	a.NoError(runDryrun(ctx, &out, dir, prog, dryrunOptions{app: 1}))
	a.Contains(out.String(), `global:  {"counter": 2}`)

	out.Reset()
	a.NoError(runState(ctx, &out, dir, 1))
	a.Equal("app 1 global: {\"counter\": 2}\n", out.String())

	out.Reset()
	a.NoError(runState(ctx, &out, dir, 2))
	a.Equal("app 2 global: {}\n", out.String())

	// without a data directory nothing persists
	for i := 0; i < 2; i++ {
		out.Reset()
		a.NoError(runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1}))
		a.Contains(out.String(), `global:  {"counter": 1}`)
	}
	a.Error(runState(ctx, &out, "", 1))
}

func TestDryrunConfigBackend(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	dir := t.TempDir()
	cfg := config.GetDefaultLocal()
	cfg.StateBackend = config.BackendPebble
	require.NoError(t, cfg.SaveToDisk(dir))

	prog := writeFile(t, "counter.teal", counterSource)
	var out strings.Builder
	require.NoError(t, runDryrun(ctx, &out, dir, prog, dryrunOptions{app: 5}))
	require.NoError(t, runDryrun(ctx, &out, dir, prog, dryrunOptions{app: 5}))

	out.Reset()
	require.NoError(t, runState(ctx, &out, dir, 5))
	require.Contains(t, out.String(), `{"counter": 2}`)

	matches, err := filepath.Glob(filepath.Join(dir, config.StateFilenamePrefix+".pebbledb"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestDryrunPassphrase(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	prog := writeFile(t, "passphrase.teal", passphraseSource)

	var out strings.Builder
	require.NoError(t, runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, fee: 9999, args: []string{passphrase}}))
	require.Contains(t, out.String(), "verdict: accepted")

	out.Reset()
	b64 := base64.StdEncoding.EncodeToString([]byte(passphrase))
	require.NoError(t, runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, fee: 1000, argsB64: []string{b64}}))

	out.Reset()
	err := runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, fee: 10001, args: []string{passphrase}})
	require.EqualError(t, err, "program rejected")
	require.Contains(t, out.String(), "verdict: rejected")

	out.Reset()
	err = runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, fee: 9999, args: []string{passphrase[:70]}})
	require.EqualError(t, err, "program rejected")

	out.Reset()
	err = runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, fee: 9999})
	require.EqualError(t, err, "program faulted")
	require.Contains(t, out.String(), "error:")

	err = runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, argsB64: []string{"***"}})
	require.Error(t, err)
}

func TestDryrunTxnFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	var stxn transactions.SignedTxn
	stxn.Txn.Fee = 9999
	stxn.Lsig.Args = [][]byte{[]byte(passphrase)}
	txnFile := writeFile(t, "txn.json", string(transactions.EncodeSignedTxnJSON(stxn)))
	prog := writeFile(t, "passphrase.teal", passphraseSource)

	var out strings.Builder
	require.NoError(t, runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, txnFile: txnFile}))

	// --fee overrides the file
	err := runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, txnFile: txnFile, fee: 20000})
	require.EqualError(t, err, "program rejected")

	err = runDryrun(ctx, &out, "", prog, dryrunOptions{app: 1, txnFile: writeFile(t, "bad.json", "{")})
	require.Error(t, err)
}

func TestDryrunTraceAndSnapshots(t *testing.T) {
	partitiontest.PartitionTest(t)

	prog := writeFile(t, "counter.teal", counterSource)
	var out strings.Builder
	require.NoError(t, runDryrun(context.Background(), &out, "", prog, dryrunOptions{app: 1, trace: true, snapshots: true}))
	require.Contains(t, out.String(), `  0 byte "counter" => (636f756e746572) `)
	require.Contains(t, out.String(), "  global:  {\"counter\": 1}\n")
}

func TestAssemble(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	src := writeFile(t, "counter.teal", counterSource)
	bin := filepath.Join(t.TempDir(), "counter.tok")

	var out strings.Builder
	a.NoError(runAssemble(&out, src, bin, true, false, false))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	a.Equal("#pragma version 1", lines[0])
	a.Equal(`  0 line 3   0x80 byte "counter"`, lines[1])
	a.Equal("  9 line 12  0x43 return", lines[10])
	a.Len(lines, 12)

	code, err := os.ReadFile(bin)
	a.NoError(err)
	a.Equal(fmt.Sprintf("%x", code), lines[11])

	// the bytecode runs like the source
	out.Reset()
	a.NoError(runDryrun(context.Background(), &out, "", bin, dryrunOptions{app: 1, binary: true}))
	a.Contains(out.String(), "verdict: accepted")

	out.Reset()
	a.NoError(runAssemble(&out, bin, "", false, true, true))
	a.True(strings.HasPrefix(out.String(), "#pragma version 1\npushbytes \"counter\"\ndup\n"), out.String())

	bad := writeFile(t, "bad.teal", "int 1\nfrobnicate\n")
	err = runAssemble(&out, bad, "", false, false, false)
	a.ErrorContains(err, "bad.teal")
	a.ErrorContains(err, "2")
}

func TestDataDirLog(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	prog := writeFile(t, "fault.teal", "int 1\nerr\n")
	var out strings.Builder
	err := runDryrun(context.Background(), &out, dir, prog, dryrunOptions{app: 3})
	require.EqualError(t, err, "program faulted")

	data, err := os.ReadFile(filepath.Join(dir, config.LogFilename))
	require.NoError(t, err)
	require.Contains(t, string(data), "program faulted")
	require.Contains(t, string(data), "app=3")
}

func TestOps(t *testing.T) {
	partitiontest.PartitionTest(t)

	var out strings.Builder
	require.NoError(t, runOps(&out))
	require.Contains(t, out.String(), "app_global_put")
	require.Contains(t, out.String(), "ApplicationID")
}

func TestDataDirLocked(t *testing.T) {
	partitiontest.PartitionTest(t)
	ctx := context.Background()

	dir := t.TempDir()
	dl, err := openDataLedger(ctx, dir)
	require.NoError(t, err)

	_, err = openDataLedger(ctx, dir)
	require.ErrorContains(t, err, "failed to lock")

	require.NoError(t, dl.Close())
	dl, err = openDataLedger(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, dl.Close())
}

func TestServe(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, t.TempDir(), "127.0.0.1:0", ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not start")
	}

	body := strings.NewReader(`{"source": "int 1"}`)
	resp, err := http.Post("http://"+addr+"/v1/apps/1/dryrun", "application/json", body)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(data), `"verdict": "accepted"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
