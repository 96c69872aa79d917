package logging

import (
	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/types"

	"go.uber.org/zap"
)

// Error constructs a field that carries an error.
func Error(err error) zap.Field {
	return zap.Error(err)
}

func String(key, value string) zap.Field {
	return zap.String(key, value)
}

func Strings(key string, value []string) zap.Field {
	return zap.Strings(key, value)
}

func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func Int64(key string, value int64) zap.Field {
	return zap.Int64(key, value)
}

func Uint64(key string, value uint64) zap.Field {
	return zap.Uint64(key, value)
}

func Uint32(key string, value uint32) zap.Field {
	return zap.Uint32(key, value)
}

func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// BigUint logs a 256 bits unsigned integer as its base 10 string.
func BigUint(key string, value *num.Uint) zap.Field {
	if value == nil {
		return zap.Skip()
	}
	return zap.String(key, value.String())
}

func Decimal(key string, value num.Decimal) zap.Field {
	return zap.String(key, value.String())
}

func OrderID(id string) zap.Field {
	return zap.String("order-id", id)
}

func MarketID(id string) zap.Field {
	return zap.String("market-id", id)
}

func Side(side types.Side) zap.Field {
	return zap.String("side", side.String())
}

// Order logs the full state of an order.
func Order(o *types.Order) zap.Field {
	if o == nil {
		return zap.Skip()
	}
	return zap.String("order", o.String())
}

func PriceLevel(l *types.PriceLevel) zap.Field {
	return zap.String("price-level", l.String())
}
