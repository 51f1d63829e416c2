package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/junction/pkg/errors"
	"github.com/matzehuels/junction/pkg/render"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the on-disk configuration. Command-line flags take precedence.
//
//	workers = 8
//	cache = true
//	cache_ttl = "72h"
//
//	[render]
//	format = "png"
//	detailed = true
type Config struct {
	Workers  int          `toml:"workers"`
	Cache    bool         `toml:"cache"`
	CacheTTL duration     `toml:"cache_ttl"`
	Render   RenderConfig `toml:"render"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	Format   string `toml:"format"`
	Detailed bool   `toml:"detailed"`
}

// duration decodes TOML strings such as "36h" into a time.Duration.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// readConfig parses the config file at path. A missing file yields the zero
// Config unless required is set.
func readConfig(path string, required bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate(path)
}

func (cfg Config) validate(path string) error {
	if cfg.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: workers must not be negative", path)
	}
	if cfg.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: cache_ttl must not be negative", path)
	}
	if cfg.Render.Format != "" {
		if err := render.ValidateFormat(cfg.Render.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
		}
	}
	return nil
}

// loadConfig reads the config file and fills in persistent flags the user
// did not set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	path, required := c.configPath, c.configPath != ""
	if !required {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
	}

	cfg, err := readConfig(path, required)
	if err != nil {
		return err
	}
	c.config = cfg

	flags := cmd.Flags()
	if !flags.Changed("workers") && cfg.Workers > 0 {
		c.workers = cfg.Workers
	}
	if !flags.Changed("cache") && cfg.Cache {
		c.useCache = true
	}
	return nil
}
