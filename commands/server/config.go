package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/swapvault/errors"
)

// ConfigFile is the name of the node configuration inside the home directory.
const ConfigFile = "swapvault.toml"

// Config is the node configuration. Values absent from the file keep their
// defaults.
type Config struct {
	Bind        string `toml:"bind"`
	ChainID     string `toml:"chain_id"`
	DBDir       string `toml:"db_dir"`
	LogLevel    string `toml:"log_level"`
	MetricsBind string `toml:"metrics_bind"`
	Debug       bool   `toml:"debug"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		DBDir:    filepath.Join(home, "swapvault.db"),
		LogLevel: "info",
	}
}

// LoadConfig overlays the file found in home on top of DefaultConfig. A
// missing file is not an error.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig(home)
	path := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "load %s: %s", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "unknown configuration key %q", keys[0].String())
	}
	if meta.IsDefined("bind") {
		conf.Bind = strings.TrimSpace(raw.Bind)
	}
	if meta.IsDefined("chain_id") {
		conf.ChainID = strings.TrimSpace(raw.ChainID)
	}
	if meta.IsDefined("db_dir") {
		conf.DBDir = raw.DBDir
		if conf.DBDir != "" && !filepath.IsAbs(conf.DBDir) {
			conf.DBDir = filepath.Join(home, conf.DBDir)
		}
	}
	if meta.IsDefined("log_level") {
		conf.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_bind") {
		conf.MetricsBind = strings.TrimSpace(raw.MetricsBind)
	}
	if meta.IsDefined("debug") {
		conf.Debug = raw.Debug
	}
	return conf, nil
}

// SaveConfig writes the configuration into home.
func SaveConfig(home string, conf Config) error {
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(err, "create home")
	}
	f, err := os.Create(filepath.Join(home, ConfigFile))
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}
