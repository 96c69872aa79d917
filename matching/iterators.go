package matching

import (
	"iter"

	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/types"
)

// OrderIterators walks the orders of one side away from a starting price,
// in both directions. Both include the starting price.
type OrderIterators struct {
	Asc  iter.Seq[*types.Order]
	Desc iter.Seq[*types.Order]
}

// flatten yields the orders of each level, oldest first within a level.
func flatten(levels iter.Seq[*PriceLevel]) iter.Seq[*types.Order] {
	return func(yield func(*types.Order) bool) {
		for l := range levels {
			for o := range l.orders() {
				if !yield(o) {
					return
				}
			}
		}
	}
}

func aggregates(levels iter.Seq[*PriceLevel]) iter.Seq[*types.PriceLevel] {
	return func(yield func(*types.PriceLevel) bool) {
		for l := range levels {
			if !yield(l.toType()) {
				return
			}
		}
	}
}

func (b *OrderBook) find(s *OrderBookSide, price num.Decimal) OrderIterators {
	price = b.matcher.precision.Normalise(price)
	return OrderIterators{
		Asc:  flatten(s.ascendFrom(price)),
		Desc: flatten(s.descendFrom(price)),
	}
}

// FindAsks iterates over the asks from the given price.
func (b *OrderBook) FindAsks(price num.Decimal) OrderIterators {
	return b.find(b.asks, price)
}

// FindBids iterates over the bids from the given price.
func (b *OrderBook) FindBids(price num.Decimal) OrderIterators {
	return b.find(b.bids, price)
}

func (b *OrderBook) AskIteratorFromMin() iter.Seq[*types.Order] {
	return flatten(b.asks.ascend())
}

func (b *OrderBook) AskIteratorFromMax() iter.Seq[*types.Order] {
	return flatten(b.asks.descend())
}

func (b *OrderBook) BidIteratorFromMin() iter.Seq[*types.Order] {
	return flatten(b.bids.ascend())
}

func (b *OrderBook) BidIteratorFromMax() iter.Seq[*types.Order] {
	return flatten(b.bids.descend())
}

// AskLevelIteratorFromMin yields the ask levels with their aggregate size
// remaining, lowest price first.
func (b *OrderBook) AskLevelIteratorFromMin() iter.Seq[*types.PriceLevel] {
	return aggregates(b.asks.ascend())
}

func (b *OrderBook) AskLevelIteratorFromMax() iter.Seq[*types.PriceLevel] {
	return aggregates(b.asks.descend())
}

// BidLevelIteratorFromMin yields the bid levels with their aggregate value
// remaining, lowest price first.
func (b *OrderBook) BidLevelIteratorFromMin() iter.Seq[*types.PriceLevel] {
	return aggregates(b.bids.ascend())
}

func (b *OrderBook) BidLevelIteratorFromMax() iter.Seq[*types.PriceLevel] {
	return aggregates(b.bids.descend())
}
