package matching

import (
	"iter"
	"testing"

	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/stretchr/testify/require"
)

type tstOB struct {
	*OrderBook
	log *logging.Logger
}

func (b *tstOB) Finish() {
	b.log.AtExit()
}

func getTestOrderBook(t *testing.T, market string) *tstOB {
	t.Helper()
	return getTestOrderBookWithConfig(t, market, NewDefaultConfig())
}

func getTestOrderBookWithConfig(t *testing.T, market string, cfg Config) *tstOB {
	t.Helper()
	tob := tstOB{
		log: logging.NewTestLogger(),
	}
	tob.OrderBook = NewOrderBook(tob.log, cfg, market)
	return &tob
}

func limitAsk(id, price string, size uint64) *types.Order {
	return &types.Order{
		ID:    id,
		Side:  types.SideAsk,
		Type:  types.OrderTypeLimit,
		Price: num.MustDecimalFromString(price),
		Size:  num.NewUint(size),
	}
}

func limitBid(id, price string, value uint64) *types.Order {
	return &types.Order{
		ID:    id,
		Side:  types.SideBid,
		Type:  types.OrderTypeLimit,
		Price: num.MustDecimalFromString(price),
		Value: num.NewUint(value),
	}
}

func marketAsk(id string, size uint64) *types.Order {
	return &types.Order{
		ID:   id,
		Side: types.SideAsk,
		Type: types.OrderTypeMarket,
		Size: num.NewUint(size),
	}
}

func marketBid(id string, value uint64) *types.Order {
	return &types.Order{
		ID:    id,
		Side:  types.SideBid,
		Type:  types.OrderTypeMarket,
		Value: num.NewUint(value),
	}
}

func (b *tstOB) mustSubmit(t *testing.T, o *types.Order) *types.OrderConfirmation {
	t.Helper()
	conf, err := b.SubmitOrder(o)
	require.NoError(t, err)
	require.NotNil(t, conf)
	b.checkInvariants(t)
	return conf
}

// checkInvariants verifies the counters, level aggregates and registry all
// agree with the content of the price levels.
func (b *tstOB) checkInvariants(t *testing.T) {
	t.Helper()
	for _, s := range []*OrderBookSide{b.asks, b.bids} {
		var total uint64
		for l := range s.ascend() {
			require.NotZero(t, l.length, "empty level at %s", l.price)
			sum := num.UintZero()
			var count uint64
			for o := range l.orders() {
				require.Equal(t, s.side, o.Side)
				require.True(t, o.Price.Equal(l.price))
				require.False(t, o.Remaining().IsZero(), "order %s rests with nothing left", o.ID)
				n, ok := b.ordersByID[o.ID]
				require.True(t, ok, "order %s not registered", o.ID)
				require.Same(t, o, n.order)
				sum.Add(sum, o.Remaining())
				count++
			}
			require.Equal(t, count, l.length)
			require.True(t, sum.EQ(l.remaining), "level %s aggregate %s, orders sum %s", l.price, l.remaining, sum)
			total += count
		}
		require.Equal(t, total, s.getOrderCount())
	}
	require.Equal(t, uint64(len(b.ordersByID)), b.AskCount()+b.BidCount())
}

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func ids(orders []*types.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
