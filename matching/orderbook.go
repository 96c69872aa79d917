package matching

import (
	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/metrics"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/pkg/errors"
)

// OrderBook represents the book holding all orders in the system.
// It is not safe for concurrent use, callers serialise access to a book.
type OrderBook struct {
	log *logging.Logger
	Config

	marketID   string
	asks       *OrderBookSide
	bids       *OrderBookSide
	ordersByID map[string]*orderNode
	matcher    *matcher
}

// NewOrderBook create an order book with a given name.
func NewOrderBook(log *logging.Logger, config Config, marketID string) *OrderBook {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &OrderBook{
		log:        log,
		Config:     config,
		marketID:   marketID,
		asks:       newOrderBookSide(log, marketID, types.SideAsk),
		bids:       newOrderBookSide(log, marketID, types.SideBid),
		ordersByID: map[string]*orderNode{},
		matcher:    newMatcher(config),
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the OrderBook. The price precision of a book cannot change once orders
// were normalised with it and is left untouched.
func (b *OrderBook) ReloadConf(cfg Config) {
	b.log.Info("reloading configuration")
	if b.log.GetLevel() != cfg.Level.Get() {
		b.log.Info("updating log level",
			logging.String("old", b.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		b.log.SetLevel(cfg.Level.Get())
	}

	cfg.PriceDecimalPrecision = b.Config.PriceDecimalPrecision
	b.Config = cfg
	b.matcher = newMatcher(cfg)
}

func (b *OrderBook) MarketID() string {
	return b.marketID
}

func (b *OrderBook) Precision() num.PricePrecision {
	return b.matcher.precision
}

func (b *OrderBook) getSide(side types.Side) *OrderBookSide {
	if side == types.SideAsk {
		return b.asks
	}
	return b.bids
}

// SubmitOrder validates the order, matches it against the opposite side
// and rests what is left of a limit order. The order passed in is not
// modified, the book keeps its own copy.
func (b *OrderBook) SubmitOrder(order *types.Order) (*types.OrderConfirmation, error) {
	timer := metrics.NewTimeCounter(b.marketID, "matching", "SubmitOrder")
	defer timer.EngineTimeCounterAdd()

	if err := b.validateOrder(order); err != nil {
		b.rejected(order, err)
		return nil, err
	}

	taker := order.Clone()
	b.normalise(taker)

	conf := &types.OrderConfirmation{
		Makers:    []*types.Order{},
		TakeSize:  num.UintZero(),
		TakeValue: num.UintZero(),
	}

	opposite := b.getSide(taker.Side.Opposite())
	if best := opposite.bestLevel(); best != nil && (!taker.IsLimit() || opposite.crosses(taker.Price, best.price)) {
		res := opposite.uncross(taker, b.matcher)
		for _, filled := range res.filled {
			delete(b.ordersByID, filled.ID)
			if b.LogRemovedOrdersDebug {
				b.log.Debug("order filled and removed from the book", logging.Order(filled))
			}
		}
		conf.Makers = res.makers
		conf.TakeSize = res.takeSize
		conf.TakeValue = res.takeValue
	}

	if taker.IsLimit() && !taker.Remaining().IsZero() {
		b.ordersByID[taker.ID] = b.getSide(taker.Side).addOrder(taker)
		if b.LogPriceLevelsDebug {
			b.log.Debug("order added to the book",
				logging.Order(taker),
				logging.PriceLevel(b.getSide(taker.Side).getPriceLevelIfExists(taker.Price).toType()),
			)
		}
	}

	conf.Taker = taker.Clone()

	if b.log.IsDebug() {
		b.log.Debug("order submitted",
			logging.MarketID(b.marketID),
			logging.OrderID(taker.ID),
			logging.Int("makers", len(conf.Makers)),
			logging.BigUint("take-size", conf.TakeSize),
			logging.BigUint("take-value", conf.TakeValue),
		)
	}
	metrics.OrderCounterInc(b.marketID, taker.Side.String(), taker.Type.String())
	metrics.MakersAdd(len(conf.Makers), b.marketID)
	b.updateRestingGauges()

	return conf, nil
}

// normalise rounds the price of limit orders and fills in the remaining
// and last taken quantities that were not supplied.
func (b *OrderBook) normalise(o *types.Order) {
	if o.IsLimit() {
		o.Price = b.matcher.precision.Normalise(o.Price)
	}
	if o.Side == types.SideAsk && o.SizeRemaining == nil {
		o.SizeRemaining = o.Size.Clone()
	}
	if o.Side == types.SideBid && o.ValueRemaining == nil {
		o.ValueRemaining = o.Value.Clone()
	}
	if o.LastSizeTaken == nil {
		o.LastSizeTaken = num.UintZero()
	}
	if o.LastValueTaken == nil {
		o.LastValueTaken = num.UintZero()
	}
}

func (b *OrderBook) rejected(o *types.Order, err error) {
	reason := types.OrderErrorUnspecified
	_ = errors.As(err, &reason)
	metrics.OrderRejectedInc(b.marketID, reason.String())
	if b.log.IsDebug() {
		b.log.Debug("order rejected",
			logging.MarketID(b.marketID),
			logging.Order(o),
			logging.Error(err),
		)
	}
}

func (b *OrderBook) updateRestingGauges() {
	metrics.RestingOrdersGaugeSet(b.asks.getOrderCount(), b.marketID, types.SideAsk.String())
	metrics.RestingOrdersGaugeSet(b.bids.getOrderCount(), b.marketID, types.SideBid.String())
}

// HasOrder reports whether the order is resting in the book.
func (b *OrderBook) HasOrder(orderID string) bool {
	_, ok := b.ordersByID[orderID]
	return ok
}

// GetOrderByID returns the resting order. It is owned by the book and must
// not be modified.
func (b *OrderBook) GetOrderByID(orderID string) (*types.Order, bool) {
	n, ok := b.ordersByID[orderID]
	if !ok {
		return nil, false
	}
	return n.order, true
}

// RemoveOrder cancels a resting order. Unknown IDs are reported with false.
func (b *OrderBook) RemoveOrder(orderID string) (*types.Order, bool) {
	n, ok := b.ordersByID[orderID]
	if !ok {
		return nil, false
	}
	b.getSide(n.order.Side).removeOrder(n)
	delete(b.ordersByID, orderID)

	if b.LogRemovedOrdersDebug {
		b.log.Debug("order removed from the book", logging.Order(n.order))
	}
	b.updateRestingGauges()
	return n.order, true
}

// GetVolumeAtPrice returns the aggregate remaining quantity of the level at
// price, zero if there is none.
func (b *OrderBook) GetVolumeAtPrice(side types.Side, price num.Decimal) *num.Uint {
	level := b.getSide(side).getPriceLevelIfExists(b.matcher.precision.Normalise(price))
	if level == nil {
		return num.UintZero()
	}
	return level.Remaining()
}

func headOrder(l *PriceLevel) (*types.Order, bool) {
	if l == nil || l.head == nil {
		return nil, false
	}
	return l.head.order, true
}

// GetMaxAsk returns the oldest order of the highest ask level.
func (b *OrderBook) GetMaxAsk() (*types.Order, bool) {
	return headOrder(b.asks.maxLevel())
}

// GetMinAsk returns the oldest order of the best ask level.
func (b *OrderBook) GetMinAsk() (*types.Order, bool) {
	return headOrder(b.asks.minLevel())
}

// GetMaxBid returns the oldest order of the best bid level.
func (b *OrderBook) GetMaxBid() (*types.Order, bool) {
	return headOrder(b.bids.maxLevel())
}

// GetMinBid returns the oldest order of the lowest bid level.
func (b *OrderBook) GetMinBid() (*types.Order, bool) {
	return headOrder(b.bids.minLevel())
}

func (b *OrderBook) AskCount() uint64 {
	return b.asks.getOrderCount()
}

func (b *OrderBook) BidCount() uint64 {
	return b.bids.getOrderCount()
}

// Clear drops every resting order.
func (b *OrderBook) Clear() {
	b.asks.clear()
	b.bids.clear()
	b.ordersByID = map[string]*orderNode{}
	b.updateRestingGauges()
}
