package matching

import (
	"iter"

	"code.vegaprotocol.io/bigbook/libs/num"
	"code.vegaprotocol.io/bigbook/types"
)

// orderNode is the position of a resting order in its price level queue.
type orderNode struct {
	order *types.Order
	level *PriceLevel
	prev  *orderNode
	next  *orderNode
}

// PriceLevel holds all the resting orders at one price on one side, oldest
// first. remaining is the sum of the size remaining of ask orders or of the
// value remaining of bid orders.
type PriceLevel struct {
	price     num.Decimal
	head      *orderNode
	tail      *orderNode
	length    uint64
	remaining *num.Uint
}

// NewPriceLevel instantiate a new PriceLevel.
func NewPriceLevel(price num.Decimal) *PriceLevel {
	return &PriceLevel{
		price:     price,
		remaining: num.UintZero(),
	}
}

func (l *PriceLevel) Price() num.Decimal {
	return l.price
}

func (l *PriceLevel) Len() uint64 {
	return l.length
}

func (l *PriceLevel) Remaining() *num.Uint {
	return l.remaining.Clone()
}

func (l *PriceLevel) append(o *types.Order) *orderNode {
	n := &orderNode{
		order: o,
		level: l,
		prev:  l.tail,
	}
	if l.tail == nil {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	l.length++
	l.remaining.Add(l.remaining, o.Remaining())
	return n
}

// detach unlinks the node from the queue. The level aggregate is left to
// the caller who knows how much of the order was consumed.
func (l *PriceLevel) detach(n *orderNode) {
	if n.prev == nil {
		l.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		l.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	l.length--
}

func (l *PriceLevel) reduceRemaining(amount *num.Uint) {
	l.remaining.Sub(l.remaining, amount)
}

func (l *PriceLevel) orders() iter.Seq[*types.Order] {
	return func(yield func(*types.Order) bool) {
		for n := l.head; n != nil; n = n.next {
			if !yield(n.order) {
				return
			}
		}
	}
}

func (l *PriceLevel) toType() *types.PriceLevel {
	return &types.PriceLevel{
		Price:          l.price,
		Remaining:      l.remaining.Clone(),
		NumberOfOrders: l.length,
	}
}
