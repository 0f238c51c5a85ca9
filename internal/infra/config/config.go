// Package config loads service configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ilyakaznacheev/cleanenv"
)

// ErrInvalidConfig is returned when the provided config is not a pointer to a struct.
var ErrInvalidConfig = errors.New("config must be a pointer to a struct")

// Load fills cfg from the YAML file at path, if path is not empty, and then from
// environment variables, which take precedence. Fields use `env`, `env-default`,
// `env-prefix` and `yaml` tags.
func Load(cfg any, path string) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidConfig
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}

		return nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}

	return nil
}

// Usage returns a description of all environment variables understood by cfg.
func Usage(cfg any) string {
	text, err := cleanenv.GetDescription(cfg, nil)
	if err != nil {
		return err.Error()
	}

	return text
}
