package metrics

import "code.vegaprotocol.io/bigbook/config/encoding"

// Config represents the configuration of the metrics package.
type Config struct {
	Port    int           `description:"Port on which the prometheus endpoint is served" long:"port"`
	Path    string        `description:"HTTP path of the prometheus endpoint"            long:"path"`
	Enabled encoding.Bool `choice:"true" choice:"false" description:"Start the prometheus endpoint" long:"enabled"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Port:    2112,
		Path:    "/metrics",
		Enabled: false,
	}
}
