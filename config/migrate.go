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
	"fmt"
	"reflect"
	"strconv"
)

// MigrationResult represents a single field migration from one version to another
type MigrationResult struct {
	FieldName              string
	OldVersion, NewVersion uint32
	OldValue, NewValue     any
}

// migrate walks cfg forward one version at a time. A field whose value still
// equals the previous version's default picks up the new default.
func migrate(cfg Local) (newCfg Local, migrations []MigrationResult, err error) {
	newCfg = cfg
	originalVersion := cfg.Version
	latestConfigVersion := getLatestConfigVersion()

	if cfg.Version > latestConfigVersion {
		err = fmt.Errorf("unexpected config version: %d", cfg.Version)
		return
	}

	// Track which fields were migrated during this entire process
	migrationResults := make(map[string]MigrationResult)

	localType := reflect.TypeFor[Local]()
	for newCfg.Version < latestConfigVersion {
		defaultCurrentConfig := GetVersionedDefaultLocalConfig(newCfg.Version)
		nextVersion := newCfg.Version + 1
		for fieldNum := 0; fieldNum < localType.NumField(); fieldNum++ {
			field := localType.Field(fieldNum)
			nextVersionDefaultValue, hasTag := field.Tag.Lookup(fmt.Sprintf("version[%d]", nextVersion))
			if !hasTag {
				continue
			}
			current := reflect.ValueOf(&newCfg).Elem().Field(fieldNum)
			oldDefault := reflect.ValueOf(&defaultCurrentConfig).Elem().Field(fieldNum)
			if field.Name != "Version" && !reflect.DeepEqual(current.Interface(), oldDefault.Interface()) {
				// the operator changed this one; leave it alone
				continue
			}
			if err = setFieldFromTag(current, field.Name, nextVersionDefaultValue); err != nil {
				return
			}
			if m, exists := migrationResults[field.Name]; exists {
				m.NewValue = current.Interface()
				m.NewVersion = nextVersion
				migrationResults[field.Name] = m
			} else {
				migrationResults[field.Name] = MigrationResult{FieldName: field.Name, OldVersion: originalVersion, NewVersion: nextVersion, OldValue: oldDefault.Interface(), NewValue: current.Interface()}
			}
		}
	}

	// Only return migrations where the value actually changed
	for _, m := range migrationResults {
		if m.FieldName != "Version" && m.OldValue != m.NewValue {
			migrations = append(migrations, m)
		}
	}
	return
}

func getLatestConfigVersion() uint32 {
	versionField, found := reflect.TypeFor[Local]().FieldByName("Version")
	if !found {
		return 0
	}
	version := uint32(0)
	for {
		_, hasTag := versionField.Tag.Lookup(fmt.Sprintf("version[%d]", version+1))
		if !hasTag {
			return version
		}
		version++
	}
}

// GetVersionedDefaultLocalConfig returns the default config for the given version.
func GetVersionedDefaultLocalConfig(version uint32) (local Local) {
	if version > 0 {
		local = GetVersionedDefaultLocalConfig(version - 1)
	}
	// apply version specific changes.
	localType := reflect.TypeFor[Local]()
	for fieldNum := 0; fieldNum < localType.NumField(); fieldNum++ {
		field := localType.Field(fieldNum)
		versionDefaultValue, hasTag := field.Tag.Lookup(fmt.Sprintf("version[%d]", version))
		if !hasTag {
			continue
		}
		if err := setFieldFromTag(reflect.ValueOf(&local).Elem().Field(fieldNum), field.Name, versionDefaultValue); err != nil {
			panic(err)
		}
	}
	return
}

func setFieldFromTag(v reflect.Value, name, tagValue string) error {
	switch v.Kind() {
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(tagValue)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		v.SetBool(boolVal)
	case reflect.Int, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(tagValue, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		v.SetInt(intVal)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		uintVal, err := strconv.ParseUint(tagValue, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		v.SetUint(uintVal)
	case reflect.String:
		v.SetString(tagValue)
	default:
		return fmt.Errorf("unsupported data type (%s) encountered when reflecting on config.Local datatype %s", v.Kind(), name)
	}
	return nil
}

// GetNonDefaultConfigValues takes a provided cfg and list of field names, and returns a map of all values in cfg
// that are not set to the default for the latest version.
func GetNonDefaultConfigValues(cfg Local, fieldNames []string) map[string]interface{} {
	defCfg := GetDefaultLocal()
	ret := make(map[string]interface{})

	for _, fieldName := range fieldNames {
		defField := reflect.ValueOf(defCfg).FieldByName(fieldName)
		if !defField.IsValid() {
			continue
		}
		cfgField := reflect.ValueOf(cfg).FieldByName(fieldName)
		if !cfgField.IsValid() {
			continue
		}
		if !reflect.DeepEqual(defField.Interface(), cfgField.Interface()) {
			ret[fieldName] = cfgField.Interface()
		}
	}
	return ret
}
