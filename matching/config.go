package matching

import (
	"code.vegaprotocol.io/bigbook/config/encoding"
	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/logging"

	"github.com/pkg/errors"
)

const namedLogger = "matching"

// ErrPriceDecimalPrecisionTooLarge is returned when the price precision
// exceeds num.MaxPriceDecimals.
var ErrPriceDecimalPrecisionTooLarge = errors.New("price decimal precision too large")

// Config represents the configuration of the matching engine.
type Config struct {
	Level encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`

	MinPartialTakeSize    uint64 `description:"Smallest size an incoming bid may take from a resting ask without filling it" long:"min-partial-take-size"`
	MinPartialTakeValue   uint64 `description:"Smallest value an incoming ask may take from a resting bid without filling it" long:"min-partial-take-value"`
	PriceDecimalPrecision uint32 `description:"Number of decimal places prices are rounded to"                                 long:"price-decimal-precision"`

	LogPriceLevelsDebug   bool `long:"log-price-levels-debug"`
	LogRemovedOrdersDebug bool `long:"log-removed-orders-debug"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:                 encoding.LogLevel{Level: logging.InfoLevel},
		MinPartialTakeSize:    0,
		MinPartialTakeValue:   0,
		PriceDecimalPrecision: num.DefaultPriceDecimals,
		LogPriceLevelsDebug:   false,
		LogRemovedOrdersDebug: false,
	}
}

// Validate checks the configuration can be used to create an order book.
func (c Config) Validate() error {
	if c.PriceDecimalPrecision > num.MaxPriceDecimals {
		return errors.Wrapf(ErrPriceDecimalPrecisionTooLarge, "%d, the maximum is %d",
			c.PriceDecimalPrecision, num.MaxPriceDecimals)
	}
	return nil
}
