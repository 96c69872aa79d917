package matching

import (
	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/pkg/errors"
)

var (
	// ErrBookNotEmpty is returned when restoring a state into a book that
	// already holds orders.
	ErrBookNotEmpty = errors.New("orderbook is not empty")
	// ErrPrecisionMismatch is returned when a state was taken with another
	// price precision than the one of the book.
	ErrPrecisionMismatch = errors.New("price decimal precision mismatch")
	// ErrMarketMismatch is returned when restoring the state of another market.
	ErrMarketMismatch = errors.New("market ID mismatch")
)

// GetState returns a copy of every resting order, in price-time priority.
func (b *OrderBook) GetState() *types.BookState {
	return &types.BookState{
		MarketID:              b.marketID,
		PriceDecimalPrecision: b.matcher.precision.Decimals(),
		Asks:                  b.copyOrders(b.asks),
		Bids:                  b.copyOrders(b.bids),
	}
}

func (b *OrderBook) copyOrders(obs *OrderBookSide) types.Orders {
	orders := make(types.Orders, 0, obs.getOrderCount())
	for o := range flatten(obs.fromBest()) {
		orders = append(orders, o.Clone())
	}
	return orders
}

// LoadState rests the orders of the state in the book without matching
// them, keeping their remaining and last taken quantities. The book must be
// empty, and is left empty if any order is rejected.
func (b *OrderBook) LoadState(state *types.BookState) error {
	if len(b.ordersByID) > 0 {
		return ErrBookNotEmpty
	}
	if state.MarketID != b.marketID {
		return errors.Wrapf(ErrMarketMismatch, "expected %s, got %s", b.marketID, state.MarketID)
	}
	if state.PriceDecimalPrecision != b.matcher.precision.Decimals() {
		return errors.Wrapf(ErrPrecisionMismatch, "expected %d, got %d",
			b.matcher.precision.Decimals(), state.PriceDecimalPrecision)
	}

	for _, orders := range []types.Orders{state.Asks, state.Bids} {
		for _, o := range orders {
			if err := b.restoreOrder(o); err != nil {
				b.Clear()
				return errors.Wrapf(err, "could not restore order %s", o.ID)
			}
		}
	}

	b.log.Info("orderbook state restored",
		logging.MarketID(b.marketID),
		logging.Uint64("asks", b.asks.getOrderCount()),
		logging.Uint64("bids", b.bids.getOrderCount()),
	)
	b.updateRestingGauges()
	return nil
}

func (b *OrderBook) restoreOrder(o *types.Order) error {
	if err := b.validateOrder(o); err != nil {
		return err
	}
	if !o.IsLimit() {
		return types.ErrInvalidType
	}
	order := o.Clone()
	b.normalise(order)
	if order.Remaining().IsZero() {
		return nil
	}
	b.ordersByID[order.ID] = b.getSide(order.Side).addOrder(order)
	return nil
}
