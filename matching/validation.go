package matching

import (
	"code.vegaprotocol.io/bigbook/types"
)

// validateOrder checks the order can be submitted to the book. It never
// modifies the order nor the book.
func (b *OrderBook) validateOrder(o *types.Order) error {
	switch o.Side {
	case types.SideAsk:
		if o.Value != nil {
			return types.ErrSchemaMismatch
		}
		if o.Size == nil {
			return types.ErrMissingQuantity
		}
	case types.SideBid:
		if o.Size != nil {
			return types.ErrSchemaMismatch
		}
		if o.Value == nil {
			return types.ErrMissingQuantity
		}
	default:
		return types.ErrInvalidSide
	}

	if _, ok := b.ordersByID[o.ID]; ok {
		return types.ErrDuplicateOrderID
	}

	switch o.Type {
	case types.OrderTypeLimit:
		// a price rounding to zero would make it impossible to convert a
		// value to a size
		if !o.Price.IsPositive() || !b.matcher.precision.Normalise(o.Price).IsPositive() {
			return types.ErrInvalidPrice
		}
	case types.OrderTypeMarket:
		if o.HasPrice() {
			return types.ErrInvalidPrice
		}
	default:
		return types.ErrInvalidType
	}

	return nil
}
