// Package config loads router tunables the way the teacher's pkg/util does
// (viper.SetConfigName/AddConfigPath), generalized from "read a fixed
// config.yaml" to "start from model.DefaultConfig() and let a config file
// override individual fields".
package config

import (
	"fmt"

	"github.com/lintang-b-s/olrmatch/pkg/model"
	"github.com/spf13/viper"
)

// Load reads configName from configPath (both matching viper.SetConfigName/
// AddConfigPath's arguments) and applies any fields it sets on top of
// model.DefaultConfig(). A missing config file is not an error -- callers
// get the stock defaults, same as running without a ./data/config.yaml did
// for the teacher's own ReadConfig.
func Load(configPath, configName string) (model.Config, error) {
	cfg := model.DefaultConfig()

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return cfg, nil
		}
		return cfg, fmt.Errorf("fatal error config file: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("fatal error decoding config file: %w", err)
	}
	return cfg, nil
}
