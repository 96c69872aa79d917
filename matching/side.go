package matching

import (
	"iter"

	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/metrics"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/google/btree"
)

const levelsDegree = 32

// OrderBookSide represent a side of the book, either ask or bid.
// Levels are indexed by ascending price whatever the side, the best ask is
// the minimum and the best bid the maximum.
type OrderBookSide struct {
	log      *logging.Logger
	marketID string
	side     types.Side
	levels   *btree.BTreeG[*PriceLevel]
	count    uint64
}

func newOrderBookSide(log *logging.Logger, marketID string, side types.Side) *OrderBookSide {
	return &OrderBookSide{
		log:      log,
		marketID: marketID,
		side:     side,
		levels:   btree.NewG(levelsDegree, lessPrice),
	}
}

func lessPrice(a, b *PriceLevel) bool {
	return a.price.LessThan(b.price)
}

func pivot(price num.Decimal) *PriceLevel {
	return &PriceLevel{price: price}
}

func (s *OrderBookSide) getPriceLevelIfExists(price num.Decimal) *PriceLevel {
	level, _ := s.levels.Get(pivot(price))
	return level
}

// getPriceLevel returns the level at price, creating it if needed.
func (s *OrderBookSide) getPriceLevel(price num.Decimal) *PriceLevel {
	if level, ok := s.levels.Get(pivot(price)); ok {
		return level
	}
	level := NewPriceLevel(price)
	s.levels.ReplaceOrInsert(level)
	return level
}

func (s *OrderBookSide) deleteLevel(price num.Decimal) {
	s.levels.Delete(pivot(price))
}

// deleteRange removes every level priced within [min, max].
func (s *OrderBookSide) deleteRange(min, max num.Decimal) {
	var prices []num.Decimal
	s.levels.AscendGreaterOrEqual(pivot(min), func(l *PriceLevel) bool {
		if l.price.GreaterThan(max) {
			return false
		}
		prices = append(prices, l.price)
		return true
	})
	for _, p := range prices {
		s.deleteLevel(p)
	}
	if s.log.IsDebug() && len(prices) > 0 {
		s.log.Debug("price levels removed",
			logging.Side(s.side),
			logging.Decimal("min", min),
			logging.Decimal("max", max),
			logging.Int("count", len(prices)),
		)
	}
}

func (s *OrderBookSide) minLevel() *PriceLevel {
	l, _ := s.levels.Min()
	return l
}

func (s *OrderBookSide) maxLevel() *PriceLevel {
	l, _ := s.levels.Max()
	return l
}

func (s *OrderBookSide) bestLevel() *PriceLevel {
	if s.side == types.SideAsk {
		return s.minLevel()
	}
	return s.maxLevel()
}

func (s *OrderBookSide) ascend() iter.Seq[*PriceLevel] {
	return func(yield func(*PriceLevel) bool) {
		s.levels.Ascend(yield)
	}
}

func (s *OrderBookSide) descend() iter.Seq[*PriceLevel] {
	return func(yield func(*PriceLevel) bool) {
		s.levels.Descend(yield)
	}
}

func (s *OrderBookSide) ascendFrom(price num.Decimal) iter.Seq[*PriceLevel] {
	return func(yield func(*PriceLevel) bool) {
		s.levels.AscendGreaterOrEqual(pivot(price), yield)
	}
}

func (s *OrderBookSide) descendFrom(price num.Decimal) iter.Seq[*PriceLevel] {
	return func(yield func(*PriceLevel) bool) {
		s.levels.DescendLessOrEqual(pivot(price), yield)
	}
}

// fromBest walks the levels in price priority.
func (s *OrderBookSide) fromBest() iter.Seq[*PriceLevel] {
	if s.side == types.SideAsk {
		return s.ascend()
	}
	return s.descend()
}

func (s *OrderBookSide) addOrder(o *types.Order) *orderNode {
	n := s.getPriceLevel(o.Price).append(o)
	s.count++
	return n
}

// removeOrder takes a resting order out of the side, dropping its level once
// empty.
func (s *OrderBookSide) removeOrder(n *orderNode) {
	level := n.level
	level.detach(n)
	if level.length == 0 {
		s.deleteLevel(level.price)
	} else {
		level.reduceRemaining(n.order.Remaining())
	}
	s.count--
}

func (s *OrderBookSide) clear() {
	s.levels.Clear(false)
	s.count = 0
}

// crosses reports whether a limit order priced at price on the opposite
// side would trade against a level at levelPrice.
func (s *OrderBookSide) crosses(price, levelPrice num.Decimal) bool {
	if s.side == types.SideBid {
		return levelPrice.GreaterThanOrEqual(price)
	}
	return levelPrice.LessThanOrEqual(price)
}

// uncrossResult holds what one matching pass did to the side.
type uncrossResult struct {
	// makers are copies of every maker recorded, in matching order.
	makers    []*types.Order
	filled    []*types.Order
	takeSize  *num.Uint
	takeValue *num.Uint
}

// uncross matches the incoming order against this side in price-time
// priority. The incoming order remaining quantity is updated in place.
// Levels emptied during the walk are removed once the walk is done.
func (s *OrderBookSide) uncross(agg *types.Order, m *matcher) *uncrossResult {
	timer := metrics.NewTimeCounter(s.marketID, "matching", "OrderBookSide.uncross")
	defer timer.EngineTimeCounterAdd()

	res := &uncrossResult{
		takeSize:  num.UintZero(),
		takeValue: num.UintZero(),
	}

	var (
		emptiedMin, emptiedMax num.Decimal
		emptied                bool
	)

	for level := range s.fromBest() {
		if agg.Remaining().IsZero() || (agg.IsLimit() && !s.crosses(agg.Price, level.price)) {
			break
		}
		for n := level.head; n != nil; {
			next := n.next
			if agg.Remaining().IsZero() {
				break
			}

			var full, recorded bool
			if s.side == types.SideBid {
				full, recorded = m.sellToBid(agg, n.order, level)
			} else {
				full, recorded = m.buyFromAsk(agg, n.order, level)
			}

			if recorded {
				res.makers = append(res.makers, n.order.Clone())
				res.takeSize.Add(res.takeSize, n.order.LastSizeTaken)
				res.takeValue.Add(res.takeValue, n.order.LastValueTaken)
			}
			if full {
				level.detach(n)
				s.count--
				res.filled = append(res.filled, n.order)
				if level.length == 0 {
					if !emptied || level.price.LessThan(emptiedMin) {
						emptiedMin = level.price
					}
					if !emptied || level.price.GreaterThan(emptiedMax) {
						emptiedMax = level.price
					}
					emptied = true
				}
			}
			n = next
		}
	}

	if emptied {
		s.deleteRange(emptiedMin, emptiedMax)
	}
	return res
}

func (s *OrderBookSide) getOrderCount() uint64 {
	return s.count
}

func (s *OrderBookSide) getLevelCount() int {
	return s.levels.Len()
}
