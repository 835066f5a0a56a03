package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. TYPECRICKET_WORD_COUNT.
const EnvPrefix = "TYPECRICKET_"

// Load builds a Config by layering, lowest precedence first:
//  1. Default()
//  2. a YAML file: path, else $TYPECRICKET_CONFIG, else ~/.typecricket/config.yaml if present
//  3. TYPECRICKET_* environment variables
//
// An explicitly named file that does not exist is an error; the implicit
// home-directory file is optional.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := true
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path == "" {
		explicit = false
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		resolved, err := ExpandHome(path)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(resolved)
		if explicit || !errors.Is(statErr, fs.ErrNotExist) {
			if err := k.Load(file.Provider(resolved), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", resolved, err)
			}
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
