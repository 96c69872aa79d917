package matching

import (
	"fmt"
	"math/rand"
	"testing"

	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const market = "testMarket"

func TestOrderBook_BidTakesPartOfBestAsk(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, limitAsk("a2", "0.6", 100))

	conf := book.mustSubmit(t, limitBid("b1", "0.9", 40))

	assert.Equal(t, uint64(80), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(40), conf.TakeValue.Uint64())
	require.Len(t, conf.Makers, 1)
	assert.Equal(t, "a1", conf.Makers[0].ID)
	assert.Equal(t, uint64(20), conf.Makers[0].SizeRemaining.Uint64())
	assert.Equal(t, uint64(80), conf.Makers[0].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(40), conf.Makers[0].LastValueTaken.Uint64())

	assert.True(t, conf.Taker.ValueRemaining.IsZero())
	assert.False(t, book.HasOrder("b1"))
	assert.Equal(t, uint64(2), book.AskCount())
	assert.Equal(t, uint64(0), book.BidCount())
	assert.Equal(t, uint64(20), book.GetVolumeAtPrice(types.SideAsk, num.MustDecimalFromString("0.5")).Uint64())
}

func TestOrderBook_BidTakesAllAsks(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, limitAsk("a2", "0.6", 100))

	conf := book.mustSubmit(t, limitBid("b1", "0.9", 110))

	assert.Equal(t, uint64(200), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(110), conf.TakeValue.Uint64())
	require.Len(t, conf.Makers, 2)
	assert.Equal(t, []string{"a1", "a2"}, ids(conf.Makers))
	assert.Equal(t, uint64(100), conf.Makers[0].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(50), conf.Makers[0].LastValueTaken.Uint64())
	assert.Equal(t, uint64(100), conf.Makers[1].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(60), conf.Makers[1].LastValueTaken.Uint64())
	for _, m := range conf.Makers {
		assert.True(t, m.SizeRemaining.IsZero())
	}

	assert.Equal(t, uint64(0), book.AskCount())
	assert.Equal(t, uint64(0), book.BidCount())
	assert.Empty(t, collect(book.AskLevelIteratorFromMin()))
	assert.Equal(t, 0, book.asks.getLevelCount())
}

func TestOrderBook_BidRestsWhatIsLeft(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, limitAsk("a2", "0.6", 100))

	conf := book.mustSubmit(t, limitBid("b1", "0.9", 160))

	assert.Equal(t, uint64(200), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(110), conf.TakeValue.Uint64())
	assert.Equal(t, uint64(50), conf.Taker.ValueRemaining.Uint64())
	assert.True(t, conf.Taker.LastSizeTaken.IsZero())
	assert.True(t, conf.Taker.LastValueTaken.IsZero())

	assert.Equal(t, uint64(0), book.AskCount())
	assert.Equal(t, uint64(1), book.BidCount())
	resting, ok := book.GetOrderByID("b1")
	require.True(t, ok)
	assert.Equal(t, uint64(50), resting.ValueRemaining.Uint64())
	assert.Equal(t, "0.9", resting.Price.String())
}

func TestOrderBook_AskTakesBidsAndRests(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitBid("b1", "0.5", 50))
	book.mustSubmit(t, limitBid("b2", "0.6", 60))

	conf := book.mustSubmit(t, limitAsk("a1", "0.4", 250))

	assert.Equal(t, uint64(200), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(110), conf.TakeValue.Uint64())
	// best bid first
	assert.Equal(t, []string{"b2", "b1"}, ids(conf.Makers))
	assert.Equal(t, uint64(100), conf.Makers[0].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(60), conf.Makers[0].LastValueTaken.Uint64())
	assert.Equal(t, uint64(100), conf.Makers[1].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(50), conf.Makers[1].LastValueTaken.Uint64())

	assert.Equal(t, uint64(50), conf.Taker.SizeRemaining.Uint64())
	assert.Equal(t, uint64(1), book.AskCount())
	assert.Equal(t, uint64(0), book.BidCount())
	assert.True(t, book.HasOrder("a1"))
}

func TestOrderBook_MarketOrdersNeverRest(t *testing.T) {
	t.Run("market bid", func(t *testing.T) {
		book := getTestOrderBook(t, market)
		defer book.Finish()

		book.mustSubmit(t, limitAsk("a1", "0.5", 100))
		book.mustSubmit(t, limitAsk("a2", "0.6", 100))

		conf := book.mustSubmit(t, marketBid("b1", 120))

		assert.Equal(t, uint64(200), conf.TakeSize.Uint64())
		assert.Equal(t, uint64(110), conf.TakeValue.Uint64())
		assert.Equal(t, uint64(10), conf.Taker.ValueRemaining.Uint64())
		assert.False(t, book.HasOrder("b1"))
		assert.Equal(t, uint64(0), book.BidCount())
		assert.Equal(t, uint64(0), book.AskCount())
	})

	t.Run("market ask", func(t *testing.T) {
		book := getTestOrderBook(t, market)
		defer book.Finish()

		book.mustSubmit(t, limitBid("b1", "0.5", 50))
		book.mustSubmit(t, limitBid("b2", "0.6", 60))

		conf := book.mustSubmit(t, marketAsk("a1", 220))

		assert.Equal(t, uint64(200), conf.TakeSize.Uint64())
		assert.Equal(t, uint64(110), conf.TakeValue.Uint64())
		assert.Equal(t, uint64(20), conf.Taker.SizeRemaining.Uint64())
		assert.False(t, book.HasOrder("a1"))
		assert.Equal(t, uint64(0), book.AskCount())
	})

	t.Run("market order on an empty book", func(t *testing.T) {
		book := getTestOrderBook(t, market)
		defer book.Finish()

		conf := book.mustSubmit(t, marketBid("b1", 120))
		assert.Empty(t, conf.Makers)
		assert.True(t, conf.TakeSize.IsZero())
		assert.True(t, conf.TakeValue.IsZero())
		assert.Equal(t, uint64(120), conf.Taker.ValueRemaining.Uint64())
		assert.Equal(t, uint64(0), book.BidCount())
	})
}

func TestOrderBook_MinPartialTakeSize(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MinPartialTakeSize = 51
	book := getTestOrderBookWithConfig(t, market, cfg)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "2", 1000))
	book.mustSubmit(t, limitAsk("a2", "1", 1000))

	conf := book.mustSubmit(t, marketBid("b1", 1100))

	assert.Equal(t, uint64(1000), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(1000), conf.TakeValue.Uint64())
	require.Len(t, conf.Makers, 1)
	assert.Equal(t, "a2", conf.Makers[0].ID)
	// the residual 100 value only buys 50 at 2, below the threshold: it is
	// dropped and the ask is left untouched
	assert.True(t, conf.Taker.ValueRemaining.IsZero())

	a1, ok := book.GetOrderByID("a1")
	require.True(t, ok)
	assert.Equal(t, uint64(1000), a1.SizeRemaining.Uint64())
	assert.True(t, a1.LastSizeTaken.IsZero())
	assert.True(t, a1.LastValueTaken.IsZero())
	assert.Equal(t, uint64(1), book.AskCount())
}

func TestOrderBook_MinPartialTakeSizeMet(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MinPartialTakeSize = 50
	book := getTestOrderBookWithConfig(t, market, cfg)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "2", 1000))
	book.mustSubmit(t, limitAsk("a2", "1", 1000))

	conf := book.mustSubmit(t, marketBid("b1", 1100))

	assert.Equal(t, uint64(1050), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(1100), conf.TakeValue.Uint64())
	require.Len(t, conf.Makers, 2)
	assert.Equal(t, uint64(50), conf.Makers[1].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(100), conf.Makers[1].LastValueTaken.Uint64())
	assert.Equal(t, uint64(950), conf.Makers[1].SizeRemaining.Uint64())
	assert.Equal(t, uint64(950), book.GetVolumeAtPrice(types.SideAsk, num.MustDecimalFromString("2")).Uint64())
}

func TestOrderBook_MinPartialTakeValue(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MinPartialTakeValue = 51
	book := getTestOrderBookWithConfig(t, market, cfg)
	defer book.Finish()

	book.mustSubmit(t, limitBid("b1", "1", 1000))
	book.mustSubmit(t, limitBid("b2", "0.5", 1000))

	conf := book.mustSubmit(t, marketAsk("a1", 1100))

	assert.Equal(t, uint64(1000), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(1000), conf.TakeValue.Uint64())
	require.Len(t, conf.Makers, 1)
	assert.Equal(t, "b1", conf.Makers[0].ID)
	assert.True(t, conf.Taker.SizeRemaining.IsZero())

	b2, ok := book.GetOrderByID("b2")
	require.True(t, ok)
	assert.Equal(t, uint64(1000), b2.ValueRemaining.Uint64())
	assert.True(t, b2.LastSizeTaken.IsZero())
	assert.Equal(t, uint64(1), book.BidCount())
}

func TestOrderBook_ZeroQuantityPartialTakesAreDropped(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "2", 1000))
	book.mustSubmit(t, limitBid("b1", "0.5", 1000))

	// 1 value buys nothing at 2
	conf := book.mustSubmit(t, marketBid("b2", 1))
	assert.Empty(t, conf.Makers)
	assert.True(t, conf.TakeSize.IsZero())
	assert.True(t, conf.TakeValue.IsZero())
	assert.True(t, conf.Taker.ValueRemaining.IsZero())

	// 1 size is worth nothing at 0.5
	conf = book.mustSubmit(t, marketAsk("a2", 1))
	assert.Empty(t, conf.Makers)
	assert.True(t, conf.TakeSize.IsZero())
	assert.True(t, conf.TakeValue.IsZero())
	assert.True(t, conf.Taker.SizeRemaining.IsZero())

	a1, ok := book.GetOrderByID("a1")
	require.True(t, ok)
	assert.Equal(t, uint64(1000), a1.SizeRemaining.Uint64())
	assert.True(t, a1.LastSizeTaken.IsZero())
	b1, ok := book.GetOrderByID("b1")
	require.True(t, ok)
	assert.Equal(t, uint64(1000), b1.ValueRemaining.Uint64())
	assert.True(t, b1.LastValueTaken.IsZero())
}

func TestOrderBook_HugeQuantities(t *testing.T) {
	pow := func(n int64) *num.Uint {
		return num.UintZero().Exp(num.NewUint(2), num.NewUint(uint64(n)))
	}

	t.Run("ask larger than the bid", func(t *testing.T) {
		book := getTestOrderBook(t, market)
		defer book.Finish()

		book.mustSubmit(t, limitBid("b1", "1", 1000))
		ask := marketAsk("a1", 0)
		ask.Size = pow(252)
		conf := book.mustSubmit(t, ask)

		require.Len(t, conf.Makers, 1)
		assert.Equal(t, "b1", conf.Makers[0].ID)
		assert.Equal(t, uint64(1000), conf.TakeSize.Uint64())
		assert.Equal(t, uint64(1000), conf.TakeValue.Uint64())
		assert.True(t, conf.Taker.SizeRemaining.EQ(num.UintZero().Sub(pow(252), num.NewUint(1000))))
		assert.False(t, book.HasOrder("b1"))
	})

	t.Run("ask value beyond 256 bits", func(t *testing.T) {
		book := getTestOrderBook(t, market)
		defer book.Finish()

		book.mustSubmit(t, limitBid("b1", "100", 1000))
		ask := marketAsk("a1", 0)
		ask.Size = pow(255)
		conf := book.mustSubmit(t, ask)

		require.Len(t, conf.Makers, 1)
		assert.Equal(t, uint64(10), conf.TakeSize.Uint64())
		assert.Equal(t, uint64(1000), conf.TakeValue.Uint64())
		assert.True(t, conf.Taker.SizeRemaining.EQ(num.UintZero().Sub(pow(255), num.NewUint(10))))
		assert.Equal(t, uint64(0), book.BidCount())
	})

	t.Run("bid against a huge ask", func(t *testing.T) {
		book := getTestOrderBook(t, market)
		defer book.Finish()

		ask := limitAsk("a1", "1000", 0)
		ask.Size = pow(250)
		book.mustSubmit(t, ask)
		bid := marketBid("b1", 0)
		bid.Value = pow(255)
		conf := book.mustSubmit(t, bid)

		require.Len(t, conf.Makers, 1)
		assert.True(t, conf.TakeSize.EQ(num.UintZero().Div(pow(255), num.NewUint(1000))))
		assert.True(t, conf.Taker.ValueRemaining.IsZero())
		a1, ok := book.GetOrderByID("a1")
		require.True(t, ok)
		assert.True(t, a1.SizeRemaining.EQ(num.UintZero().Sub(pow(250), conf.TakeSize)))
	})
}

func TestOrderBook_SidesCarryMarketID(t *testing.T) {
	book := getTestOrderBook(t, "market-sides")
	defer book.Finish()

	assert.Equal(t, "market-sides", book.asks.marketID)
	assert.Equal(t, "market-sides", book.bids.marketID)
}

func TestOrderBook_PriceTimePriority(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a3", "1.1", 10))
	book.mustSubmit(t, limitAsk("a1", "1", 10))
	book.mustSubmit(t, limitAsk("a2", "1", 10))
	book.mustSubmit(t, limitAsk("a4", "1", 10))

	conf := book.mustSubmit(t, limitBid("b1", "1.1", 25))

	assert.Equal(t, []string{"a1", "a2", "a4"}, ids(conf.Makers))
	assert.Equal(t, uint64(25), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(25), conf.TakeValue.Uint64())

	a4, ok := book.GetOrderByID("a4")
	require.True(t, ok)
	assert.Equal(t, uint64(5), a4.SizeRemaining.Uint64())
	assert.Equal(t, []string{"a4", "a3"}, ids(collect(book.AskIteratorFromMin())))
}

func TestOrderBook_BetterPriceProtection(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.6", 100))

	conf := book.mustSubmit(t, limitBid("b1", "0.5", 100))
	assert.Empty(t, conf.Makers)
	assert.Equal(t, uint64(100), conf.Taker.ValueRemaining.Uint64())

	conf = book.mustSubmit(t, limitAsk("a2", "0.55", 100))
	assert.Empty(t, conf.Makers)

	assert.Equal(t, uint64(2), book.AskCount())
	assert.Equal(t, uint64(1), book.BidCount())
	a1, _ := book.GetOrderByID("a1")
	assert.Equal(t, uint64(100), a1.SizeRemaining.Uint64())
}

func TestOrderBook_LimitStopsAtItsPrice(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, limitAsk("a2", "0.7", 100))

	conf := book.mustSubmit(t, limitBid("b1", "0.6", 200))

	assert.Equal(t, []string{"a1"}, ids(conf.Makers))
	assert.Equal(t, uint64(100), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(50), conf.TakeValue.Uint64())
	assert.Equal(t, uint64(150), conf.Taker.ValueRemaining.Uint64())

	best, ok := book.GetMaxBid()
	require.True(t, ok)
	assert.Equal(t, "b1", best.ID)
	lowest, ok := book.GetMinAsk()
	require.True(t, ok)
	assert.Equal(t, "a2", lowest.ID)
}

func TestOrderBook_ConfirmationsAreSnapshots(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	order := limitAsk("a1", "0.5", 100)
	first := book.mustSubmit(t, order)
	// the caller order is not touched by the book
	assert.Nil(t, order.SizeRemaining)

	second := book.mustSubmit(t, limitBid("b1", "0.9", 40))
	third := book.mustSubmit(t, limitBid("b2", "0.9", 10))

	assert.Equal(t, uint64(100), first.Taker.SizeRemaining.Uint64())
	assert.Equal(t, uint64(20), second.Makers[0].SizeRemaining.Uint64())
	assert.Equal(t, uint64(80), second.Makers[0].LastSizeTaken.Uint64())
	assert.Equal(t, uint64(0), third.Makers[0].SizeRemaining.Uint64())
	assert.Equal(t, uint64(20), third.Makers[0].LastSizeTaken.Uint64())

	// the resting order is not shared with any confirmation
	third.Makers[0].ID = "changed"
	assert.False(t, book.HasOrder("a1"))
	assert.Equal(t, uint64(0), book.AskCount())
}

func TestOrderBook_PriceIsNormalised(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	order := limitAsk("a1", "0.12345", 100)
	conf := book.mustSubmit(t, order)

	assert.Equal(t, "0.1235", conf.Taker.Price.String())
	assert.Equal(t, "0.12345", order.Price.String())
	resting, ok := book.GetOrderByID("a1")
	require.True(t, ok)
	assert.Equal(t, "0.1235", resting.Price.String())

	// a second ask at the same rounded price joins the same level
	book.mustSubmit(t, limitAsk("a2", "0.12349", 10))
	levels := collect(book.AskLevelIteratorFromMin())
	require.Len(t, levels, 1)
	assert.Equal(t, uint64(110), levels[0].Remaining.Uint64())
	assert.Equal(t, uint64(2), levels[0].NumberOfOrders)
}

func TestOrderBook_ResumesPartialState(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	ask := limitAsk("a1", "0.5", 100)
	ask.SizeRemaining = num.NewUint(40)
	ask.LastSizeTaken = num.NewUint(60)
	ask.LastValueTaken = num.NewUint(30)
	book.mustSubmit(t, ask)

	resting, ok := book.GetOrderByID("a1")
	require.True(t, ok)
	assert.Equal(t, uint64(40), resting.SizeRemaining.Uint64())
	assert.Equal(t, uint64(60), resting.LastSizeTaken.Uint64())
	assert.Equal(t, uint64(40), book.GetVolumeAtPrice(types.SideAsk, num.MustDecimalFromString("0.5")).Uint64())

	conf := book.mustSubmit(t, marketBid("b1", 100))
	assert.Equal(t, uint64(40), conf.TakeSize.Uint64())
	assert.Equal(t, uint64(20), conf.TakeValue.Uint64())
	assert.Equal(t, uint64(80), conf.Taker.ValueRemaining.Uint64())
}

func TestOrderBook_SubmitAfterFillReusesID(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, marketBid("b1", 50))
	require.False(t, book.HasOrder("a1"))

	// only resting orders are checked for duplicates
	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	assert.True(t, book.HasOrder("a1"))
}

func TestOrderBook_RemoveOrder(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.2", 100))
	book.mustSubmit(t, limitAsk("a2", "0.2", 10000))
	book.mustSubmit(t, limitBid("b1", "0.1", 500))

	levels := collect(book.AskLevelIteratorFromMin())
	require.Len(t, levels, 1)
	assert.Equal(t, uint64(10100), levels[0].Remaining.Uint64())

	removed, ok := book.RemoveOrder("a1")
	require.True(t, ok)
	assert.Equal(t, "a1", removed.ID)
	book.checkInvariants(t)
	levels = collect(book.AskLevelIteratorFromMin())
	require.Len(t, levels, 1)
	assert.Equal(t, uint64(10000), levels[0].Remaining.Uint64())
	assert.Equal(t, uint64(1), book.AskCount())

	_, ok = book.RemoveOrder("a1")
	assert.False(t, ok)

	_, ok = book.RemoveOrder("a2")
	require.True(t, ok)
	book.checkInvariants(t)
	assert.Empty(t, collect(book.AskLevelIteratorFromMin()))
	assert.Equal(t, uint64(0), book.AskCount())

	_, ok = book.RemoveOrder("b1")
	require.True(t, ok)
	assert.Equal(t, uint64(0), book.BidCount())
	_, ok = book.GetOrderByID("b1")
	assert.False(t, ok)

	_, ok = book.RemoveOrder("unknown")
	assert.False(t, ok)
}

func TestOrderBook_BestOfBook(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	_, ok := book.GetMinAsk()
	assert.False(t, ok)
	_, ok = book.GetMaxAsk()
	assert.False(t, ok)
	_, ok = book.GetMinBid()
	assert.False(t, ok)
	_, ok = book.GetMaxBid()
	assert.False(t, ok)

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, limitAsk("a2", "0.5", 100))
	book.mustSubmit(t, limitAsk("a3", "0.6", 100))
	book.mustSubmit(t, limitBid("b1", "0.3", 100))
	book.mustSubmit(t, limitBid("b2", "0.4", 100))
	book.mustSubmit(t, limitBid("b3", "0.4", 100))

	o, _ := book.GetMinAsk()
	assert.Equal(t, "a1", o.ID)
	o, _ = book.GetMaxAsk()
	assert.Equal(t, "a3", o.ID)
	o, _ = book.GetMinBid()
	assert.Equal(t, "b1", o.ID)
	o, _ = book.GetMaxBid()
	assert.Equal(t, "b2", o.ID)
}

func TestOrderBook_Clear(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	for i := 0; i < 50; i++ {
		book.mustSubmit(t, limitAsk(fmt.Sprintf("a%d", i), fmt.Sprintf("%d", 100+i), 10))
		book.mustSubmit(t, limitBid(fmt.Sprintf("b%d", i), fmt.Sprintf("%d", 1+i), 10))
	}
	require.Equal(t, uint64(50), book.AskCount())
	require.Equal(t, uint64(50), book.BidCount())

	for i := 0; i < 2; i++ {
		book.Clear()
		book.checkInvariants(t)
		assert.Equal(t, uint64(0), book.AskCount())
		assert.Equal(t, uint64(0), book.BidCount())
		assert.Empty(t, collect(book.AskIteratorFromMin()))
		assert.Empty(t, collect(book.AskIteratorFromMax()))
		assert.Empty(t, collect(book.BidIteratorFromMin()))
		assert.Empty(t, collect(book.BidIteratorFromMax()))
		assert.Empty(t, collect(book.AskLevelIteratorFromMin()))
		assert.Empty(t, collect(book.BidLevelIteratorFromMax()))
		assert.False(t, book.HasOrder("a1"))
	}

	book.mustSubmit(t, limitAsk("a1", "1", 10))
	assert.Equal(t, uint64(1), book.AskCount())
}

func TestOrderBook_ReloadConf(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	cfg := NewDefaultConfig()
	cfg.Level.Level = logging.DebugLevel
	cfg.MinPartialTakeSize = 51
	cfg.PriceDecimalPrecision = 8
	book.ReloadConf(cfg)

	assert.Equal(t, logging.DebugLevel, book.OrderBook.log.GetLevel())
	// the logger handed to the book is left alone
	assert.Equal(t, logging.WarnLevel, book.log.GetLevel())
	assert.Equal(t, uint32(4), book.Precision().Decimals())

	book.mustSubmit(t, limitAsk("a1", "2", 1000))
	conf := book.mustSubmit(t, marketBid("b1", 100))
	assert.Empty(t, conf.Makers)
}

func TestOrderBook_DebugLogging(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Level.Level = logging.DebugLevel
	cfg.LogPriceLevelsDebug = true
	cfg.LogRemovedOrdersDebug = true
	book := getTestOrderBookWithConfig(t, market, cfg)
	defer book.Finish()

	book.mustSubmit(t, limitAsk("a1", "0.5", 100))
	book.mustSubmit(t, limitAsk("a2", "0.6", 100))
	book.mustSubmit(t, limitBid("b1", "0.9", 80))
	_, err := book.SubmitOrder(limitBid("b2", "-1", 80))
	require.Error(t, err)
	_, ok := book.RemoveOrder("a2")
	require.True(t, ok)
	book.checkInvariants(t)
}

// TestOrderBook_Conservation submits random orders and checks every
// confirmation reports exactly what its makers traded.
func TestOrderBook_Conservation(t *testing.T) {
	book := getTestOrderBook(t, market)
	defer book.Finish()

	r := rand.New(rand.NewSource(42))
	prices := []string{"0.9", "0.95", "1", "1.05", "1.1", "1.2", "0.3333", "2.5"}

	for i := 0; i < 2000; i++ {
		var o *types.Order
		id := fmt.Sprintf("o%d", i)
		qty := uint64(r.Intn(5000) + 1)
		price := prices[r.Intn(len(prices))]
		switch r.Intn(5) {
		case 0:
			o = marketAsk(id, qty)
		case 1:
			o = marketBid(id, qty)
		case 2:
			o = limitAsk(id, price, qty)
		default:
			o = limitBid(id, price, qty)
		}

		conf := book.mustSubmit(t, o)

		size, value := num.UintZero(), num.UintZero()
		for _, m := range conf.Makers {
			size.Add(size, m.LastSizeTaken)
			value.Add(value, m.LastValueTaken)
			assert.Equal(t, o.Side.Opposite(), m.Side)
		}
		require.True(t, size.EQ(conf.TakeSize), "order %s: makers size %s, reported %s", id, size, conf.TakeSize)
		require.True(t, value.EQ(conf.TakeValue), "order %s: makers value %s, reported %s", id, value, conf.TakeValue)

		// the taker never receives more than it offered
		if o.Side == types.SideAsk {
			consumed := num.UintZero().Sub(o.Size, conf.Taker.SizeRemaining)
			require.True(t, conf.TakeSize.LTE(consumed))
		} else {
			consumed := num.UintZero().Sub(o.Value, conf.Taker.ValueRemaining)
			require.True(t, conf.TakeValue.LTE(consumed))
		}

		// cancel a resting order from time to time
		if i%7 == 0 {
			if best, ok := book.GetMinAsk(); ok {
				_, ok := book.RemoveOrder(best.ID)
				require.True(t, ok)
				book.checkInvariants(t)
			}
		}
	}

	assert.Len(t, collect(book.AskIteratorFromMin()), int(book.AskCount()))
	assert.Len(t, collect(book.BidIteratorFromMax()), int(book.BidCount()))
}
