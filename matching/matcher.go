package matching

import (
	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/types"
)

// matcher applies one incoming order to one resting order, converting
// between size and value at the resting order price.
type matcher struct {
	precision           num.PricePrecision
	minPartialTakeSize  *num.Uint
	minPartialTakeValue *num.Uint
}

func newMatcher(cfg Config) *matcher {
	return &matcher{
		precision:           num.NewPricePrecision(cfg.PriceDecimalPrecision),
		minPartialTakeSize:  num.NewUint(cfg.MinPartialTakeSize),
		minPartialTakeValue: num.NewUint(cfg.MinPartialTakeValue),
	}
}

// sellToBid matches an incoming ask against a resting bid.
// full is true when the bid has nothing left and must leave the book,
// recorded is true when anything was taken from it.
// When the ask cannot fill the bid it is exhausted against it: the bid
// takes its value only if it reaches the minimum partial take value,
// otherwise the residual is dropped.
func (m *matcher) sellToBid(ask, bid *types.Order, level *PriceLevel) (full, recorded bool) {
	askValueRemaining := m.precision.SizeToValue(ask.SizeRemaining, bid.Price)

	if askValueRemaining.GTE(bid.ValueRemaining) {
		sizeTaken := m.precision.ValueToSize(bid.ValueRemaining, bid.Price)
		ask.SizeRemaining.Sub(ask.SizeRemaining, sizeTaken)
		bid.LastSizeTaken = sizeTaken
		bid.LastValueTaken = bid.ValueRemaining
		bid.ValueRemaining = num.UintZero()
		level.reduceRemaining(bid.LastValueTaken)
		return true, true
	}

	if !askValueRemaining.IsZero() && askValueRemaining.GTE(m.minPartialTakeValue) {
		bid.LastSizeTaken = ask.SizeRemaining.Clone()
		bid.LastValueTaken = askValueRemaining
		bid.ValueRemaining.Sub(bid.ValueRemaining, askValueRemaining)
		level.reduceRemaining(askValueRemaining)
		recorded = true
	}
	ask.SizeRemaining = num.UintZero()
	return false, recorded
}

// buyFromAsk matches an incoming bid against a resting ask, see sellToBid
// with size and value swapped.
func (m *matcher) buyFromAsk(bid, ask *types.Order, level *PriceLevel) (full, recorded bool) {
	bidSizeRemaining := m.precision.ValueToSize(bid.ValueRemaining, ask.Price)

	if bidSizeRemaining.GTE(ask.SizeRemaining) {
		valueTaken := m.precision.SizeToValue(ask.SizeRemaining, ask.Price)
		bid.ValueRemaining.Sub(bid.ValueRemaining, valueTaken)
		ask.LastSizeTaken = ask.SizeRemaining
		ask.LastValueTaken = valueTaken
		ask.SizeRemaining = num.UintZero()
		level.reduceRemaining(ask.LastSizeTaken)
		return true, true
	}

	if !bidSizeRemaining.IsZero() && bidSizeRemaining.GTE(m.minPartialTakeSize) {
		ask.LastSizeTaken = bidSizeRemaining
		ask.LastValueTaken = m.precision.SizeToValue(bidSizeRemaining, ask.Price)
		ask.SizeRemaining.Sub(ask.SizeRemaining, bidSizeRemaining)
		level.reduceRemaining(bidSizeRemaining)
		recorded = true
	}
	bid.ValueRemaining = num.UintZero()
	return false, recorded
}
