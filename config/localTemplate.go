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

package config

import (
	"os"
	"path/filepath"

	"github.com/algorand/go-microavm/util/codecs"
)

// Local holds the per-installation settings of the evaluator tools.
//
// !!! WARNING !!!
//
// These versioned struct tags need to be maintained CAREFULLY and treated
// like UNIVERSAL CONSTANTS - they should not be modified once committed.
//
// New fields may be added to the Local struct, along with a version tag
// denoting a new version.
//
// !!! WARNING !!!
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new
	// This is specifically important whenever we decide to change the default value
	// for an existing parameter. This field tag must be updated any time we add a new version.
	Version uint32 `version[0]:"0" version[1]:"1"`

	// BaseLoggerDebugLevel specifies the logging level. The levels range from 0 (critical error / silent) to 5 (debug / verbose).
	BaseLoggerDebugLevel uint32 `version[0]:"4" version[1]:"3"`

	// StateBackend selects where application globals are kept between calls: memory, sqlite or pebble.
	StateBackend string `version[0]:"memory" version[1]:"sqlite"`

	// StrictEndOfProgram makes a program that falls off its end with anything other than a single uint on the stack fault instead of reject.
	StrictEndOfProgram bool `version[0]:"true"`

	// EnableMetrics registers evaluation counters with the prometheus default registry.
	EnableMetrics bool `version[0]:"false"`

	// APIEndpoint is the address the dry-run HTTP API listens on.
	APIEndpoint string `version[1]:"127.0.0.1:8980"`

	// MaxConcurrentApps bounds the number of applications a call group evaluates at once. 0 means no bound.
	MaxConcurrentApps int `version[1]:"4"`

	// LogSizeLimit is the size in bytes of the tools' log file in the data directory before it is archived. 0 logs to stderr only.
	LogSizeLimit uint64 `version[1]:"1048576"`
}

// SaveToDisk writes the non-default Local settings into a root/ConfigFilename file
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveAllToDisk writes the all Local settings into a root/ConfigFilename file
func (cfg Local) SaveAllToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return codecs.SaveObjectToFile(filename, cfg)
}
