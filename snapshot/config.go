package snapshot

import (
	"code.vegaprotocol.io/bigbook/config/encoding"
	"code.vegaprotocol.io/bigbook/logging"
)

const namedLogger = "snapshot"

// Config represent the configuration of the snapshot store.
type Config struct {
	Level encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`
	// Path of the leveldb directory, the store is kept in memory when empty.
	Path string `long:"path" description:"path of the snapshot database"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
