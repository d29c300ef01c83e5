// Package config registers every setting with its default and loads the
// user's configuration file and environment through viper.
package config

import (
	"errors"
	"strings"

	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/filesystem"
	"github.com/cinewatch/cinewatch/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps configuration keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment bindings and the config file, if any.
func Setup() error {
	viper.SetConfigName(constant.Cinewatch)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Cinewatch)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}
