package config

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"os"
	"strings"
)

const (
	DefaultServer   = "some_server"
	DefaultLogLevel = "warn"
)

type Config struct {
	// Server is the LCI host name, optionally with a port.
	Server   string `toml:"server" validate:"required,excludesall=/?#"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		Server:   DefaultServer,
		LogLevel: DefaultLogLevel,
	}
}

// Load layers the defaults, the TOML file at path (skipped when path is empty)
// and then the LCI_SERVER and LCI_LOG_LEVEL environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.WithStack(err)
		}

		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parsing %s", path)
		}
	}

	if v := os.Getenv("LCI_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("LCI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.Server = strings.TrimSpace(cfg.Server)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	return errors.Wrap(validate.Struct(c), "invalid configuration")
}

func (c Config) BaseUrl() string {
	return fmt.Sprintf("http://%s/lci", c.Server)
}
