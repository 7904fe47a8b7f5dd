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
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/algorand/go-microavm/protocol"
	"github.com/algorand/go-microavm/util/codecs"
)

// ConfigFilename is the name of the config.json file where we store per-datadir settings
const ConfigFilename = "config.json"

// StateFilenamePrefix is the prefix of the files holding persisted application state
const StateFilenamePrefix = "state"

// LockFilename is the file locked by processes working on a data directory
const LockFilename = "tealrun.lock"

// LogFilename is the live log file kept in a data directory
const LogFilename = "tealrun.log"

// LogArchiveFilename receives LogFilename once it reaches LogSizeLimit
const LogArchiveFilename = "tealrun.archive.log"

// Supported StateBackend values
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

var defaultLocal = GetVersionedDefaultLocalConfig(getLatestConfigVersion())

// LoadConfigFromDisk returns a Local config structure based on merging the defaults
// with settings loaded from the config file from the custom dir. If the custom file
// cannot be loaded, the default config is returned (with the error from loading the
// custom file).
func LoadConfigFromDisk(custom string) (c Local, err error) {
	return loadConfigFromFile(filepath.Join(custom, ConfigFilename))
}

func loadConfigFromFile(configFile string) (c Local, err error) {
	c = defaultLocal
	c.Version = 0 // Reset to 0 so we get the version from the loaded file.
	c, err = mergeConfigFromFile(configFile, c)
	if err != nil {
		return
	}

	// Migrate in case defaults were changed
	// If a config file does not have version, it is assumed to be zero.
	// All fields listed in migrate() might be changed if an actual value matches to default value from a previous version.
	c, _, err = migrate(c)
	return
}

// LoadConfigOrDefault behaves like LoadConfigFromDisk but treats a missing
// config file as "use the defaults".
func LoadConfigOrDefault(custom string) (Local, error) {
	c, err := LoadConfigFromDisk(custom)
	if errors.Is(err, fs.ErrNotExist) {
		return GetDefaultLocal(), nil
	}
	return c, err
}

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

func mergeConfigFromFile(configpath string, source Local) (Local, error) {
	f, err := os.Open(configpath)
	if err != nil {
		return source, err
	}
	defer f.Close()

	err = loadConfig(f, &source)
	return source, err
}

func loadConfig(reader io.Reader, config *Local) error {
	dec := protocol.NewJSONDecoder(reader)
	return dec.Decode(config)
}

// SaveToFile saves the config to a specific filename, omitting the values
// that match the defaults.
func (cfg Local) SaveToFile(filename string) error {
	var alwaysInclude []string
	alwaysInclude = append(alwaysInclude, "Version")
	return codecs.SaveNonDefaultValuesToFile(filename, cfg, defaultLocal, alwaysInclude)
}
