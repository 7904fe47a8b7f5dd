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

package codecs

import (
	"fmt"
	"os"
	"reflect"

	"github.com/algorand/go-microavm/protocol"
)

// LoadObjectFromFile implements the common pattern for loading an instance
// of an object from a json file.
func LoadObjectFromFile(filename string, object interface{}) (err error) {
	f, err := os.Open(filename)
	if err != nil {
		return
	}
	defer f.Close()
	return protocol.NewJSONDecoder(f).Decode(object)
}

// SaveObjectToFile implements the common pattern for saving an object to a file as json
func SaveObjectToFile(filename string, object interface{}) error {
	return os.WriteFile(filename, protocol.EncodeJSON(object), 0644)
}

// SaveNonDefaultValuesToFile saves an object to a file as json, but only fields that are not
// currently set to be the default value.
// Optionally, you can specify an array of field names to always include.
func SaveNonDefaultValuesToFile(filename string, object, defaultObject interface{}, ignore []string) error {
	objectValues, err := createValueMap(object)
	if err != nil {
		return err
	}
	defaultValues, err := createValueMap(defaultObject)
	if err != nil {
		return err
	}

	out := make(map[string]interface{}, len(objectValues))
	for name, val := range objectValues {
		if inStringArray(name, ignore) || !isDefaultValue(name, objectValues, defaultValues) {
			out[name] = val
		}
	}
	// canonical encoding sorts the keys, so the file is stable across saves
	return os.WriteFile(filename, protocol.EncodeJSON(out), 0644)
}

func inStringArray(item string, set []string) bool {
	for _, s := range set {
		if item == s {
			return true
		}
	}
	return false
}

func createValueMap(object interface{}) (map[string]interface{}, error) {
	valueMap := make(map[string]interface{})

	val := reflect.Indirect(reflect.ValueOf(object))
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot save %T: not a struct", object)
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		if val.Field(i).Kind() == reflect.Struct {
			return nil, fmt.Errorf("error processing serialized object - we don't support nested types: %s", field.Name)
		}
		valueMap[field.Name] = val.Field(i).Interface()
	}
	return valueMap, nil
}

func isDefaultValue(name string, values, defaults map[string]interface{}) bool {
	val, hasVal := values[name]
	def, hasDef := defaults[name]
	if hasVal != hasDef {
		return false
	}

	return reflect.DeepEqual(val, def)
}
