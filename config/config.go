package config

import (
	"os"
	"path/filepath"

	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/matching"
	"code.vegaprotocol.io/bigbook/metrics"
	"code.vegaprotocol.io/bigbook/snapshot"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// FileName is the name of the configuration file in the home directory.
	FileName = "config.toml"
	// SnapshotsDirName is the default location of the snapshot database in
	// the home directory.
	SnapshotsDirName = "snapshots"
)

// ErrConfigAlreadyExists is returned when initialising a home that already
// holds a configuration.
var ErrConfigAlreadyExists = errors.New("configuration file already exists")

// Config ties together all other application configuration types.
type Config struct {
	Logging  logging.Config  `group:"Logging"  namespace:"logging"`
	Matching matching.Config `group:"Matching" namespace:"matching"`
	Metrics  metrics.Config  `group:"Metrics"  namespace:"metrics"`
	Snapshot snapshot.Config `group:"Snapshot" namespace:"snapshot"`
}

// NewDefaultConfig returns the default configuration of every package. The
// snapshot database is placed under home unless home is empty.
func NewDefaultConfig(home string) Config {
	snapshotCfg := snapshot.NewDefaultConfig()
	if home != "" {
		snapshotCfg.Path = filepath.Join(home, SnapshotsDirName)
	}
	return Config{
		Logging:  logging.NewDefaultConfig(),
		Matching: matching.NewDefaultConfig(),
		Metrics:  metrics.NewDefaultConfig(),
		Snapshot: snapshotCfg,
	}
}

// Path returns the location of the configuration file in home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Validate reports the first invalid package configuration.
func (c Config) Validate() error {
	if err := c.Matching.Validate(); err != nil {
		return errors.Wrap(err, "invalid matching configuration")
	}
	return nil
}

// Read loads the configuration file of home over the defaults, so missing
// keys keep their default value.
func Read(home string) (*Config, error) {
	cfg := NewDefaultConfig(home)
	if _, err := toml.DecodeFile(Path(home), &cfg); err != nil {
		return nil, errors.Wrapf(err, "couldn't read configuration file at %s", Path(home))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves the configuration in home, creating the directory if needed.
// An existing file is only replaced when overwrite is set.
func Write(home string, cfg *Config, overwrite bool) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return errors.Wrapf(err, "couldn't create home directory %s", home)
	}

	path := Path(home)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return ErrConfigAlreadyExists
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "couldn't create configuration file at %s", path)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(err, "couldn't encode configuration")
	}
	return nil
}
