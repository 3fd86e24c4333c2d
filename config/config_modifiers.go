// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"encoding/json"
	"github.com/pkg/errors"
	"io/ioutil"
	"os"
	"strings"
	"time"
)

func (c *config) Modify(newValues ...NodeConfigKeyValue) mutableNodeConfig {
	for _, kv := range newValues {
		c.kv[kv.Key] = kv.Value
	}
	return c
}

func (c *config) MergeWithFileConfig(source string) (mutableNodeConfig, error) {
	if err := modifyFromJson(c, source); err != nil {
		return nil, err
	}
	return c, nil
}

func modifyFromJson(cfg mutableNodeConfig, source string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(source), &data); err != nil {
		return errors.Wrapf(err, "config is not valid json")
	}

	return populateConfig(cfg, data)
}

func convertKeyName(key string) string {
	return strings.ToUpper(strings.Replace(key, "-", "_", -1))
}

func populateConfig(cfg mutableNodeConfig, data map[string]interface{}) error {
	for key, value := range data {
		switch v := value.(type) {
		case bool:
			cfg.SetBool(convertKeyName(key), v)
		case float64:
			if v < 0 || v != float64(uint32(v)) {
				return errors.Errorf("could not decode value for config key %s: %v is not an unsigned integer", key, v)
			}
			cfg.SetUint32(convertKeyName(key), uint32(v))
		case string:
			if duration, decodeError := time.ParseDuration(v); decodeError != nil {
				cfg.SetString(convertKeyName(key), v)
			} else {
				cfg.SetDuration(convertKeyName(key), duration)
			}
		default:
			return errors.Errorf("could not decode value for config key %s: unsupported type %T", key, value)
		}
	}

	return nil
}

// For main reading several files into one config

type FilesPaths []string

func (i *FilesPaths) String() string {
	return strings.Join(*i, ",")
}

func (i *FilesPaths) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func (i *FilesPaths) Type() string {
	return "stringSlice"
}

// GetConfigFromFiles merges files in order on top of the given preset, later files win
func GetConfigFromFiles(base mutableNodeConfig, configFiles FilesPaths) (mutableNodeConfig, error) {
	cfg := base.Clone()

	for _, configFile := range configFiles {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, errors.Errorf("could not open config file: %s", err)
		}

		contents, err := ioutil.ReadFile(configFile)
		if err != nil {
			return nil, err
		}

		if err := modifyFromJson(cfg, string(contents)); err != nil {
			return nil, errors.Wrapf(err, "failed reading %s", configFile)
		}
	}

	return cfg, nil
}
