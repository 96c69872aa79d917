package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"code.vegaprotocol.io/bigbook/libs/num"
)

type Side int32

const (
	// Default value, always invalid.
	SideUnspecified Side = iota
	// Sell base asset, quantity expressed as a size.
	SideAsk
	// Buy base asset, quantity expressed as a value.
	SideBid
)

var sideNames = map[Side]string{
	SideUnspecified: "unspecified",
	SideAsk:         "ask",
	SideBid:         "bid",
}

func (s Side) String() string {
	if n, ok := sideNames[s]; ok {
		return n
	}
	return fmt.Sprintf("side(%d)", int32(s))
}

// Opposite returns the side orders on s are matched against.
func (s Side) Opposite() Side {
	switch s {
	case SideAsk:
		return SideBid
	case SideBid:
		return SideAsk
	default:
		return SideUnspecified
	}
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the lowercase name. Unknown names decode as
// SideUnspecified so the book reports them as an invalid side.
func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = SideUnspecified
	for k, v := range sideNames {
		if v == strings.ToLower(name) {
			*s = k
		}
	}
	return nil
}

type OrderType int32

const (
	// Default value, always invalid.
	OrderTypeUnspecified OrderType = iota
	// Rests in the book for whatever it could not trade.
	OrderTypeLimit
	// Trades at any price, never rests.
	OrderTypeMarket
)

var orderTypeNames = map[OrderType]string{
	OrderTypeUnspecified: "unspecified",
	OrderTypeLimit:       "limit",
	OrderTypeMarket:      "market",
}

func (t OrderType) String() string {
	if n, ok := orderTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", int32(t))
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*t = OrderTypeUnspecified
	for k, v := range orderTypeNames {
		if v == strings.ToLower(name) {
			*t = k
		}
	}
	return nil
}

// Order is a request to trade, and once accepted a resting order of the book.
// A zero Price means no price was given. Nil quantities were not supplied.
type Order struct {
	ID             string            `json:"id"`
	Side           Side              `json:"side"`
	Type           OrderType         `json:"type"`
	Price          num.Decimal       `json:"price"`
	Size           *num.Uint         `json:"size,omitempty"`
	Value          *num.Uint         `json:"value,omitempty"`
	SizeRemaining  *num.Uint         `json:"sizeRemaining,omitempty"`
	ValueRemaining *num.Uint         `json:"valueRemaining,omitempty"`
	LastSizeTaken  *num.Uint         `json:"lastSizeTaken,omitempty"`
	LastValueTaken *num.Uint         `json:"lastValueTaken,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

func (o Order) HasPrice() bool {
	return !o.Price.IsZero()
}

func (o Order) IsLimit() bool {
	return o.Type == OrderTypeLimit
}

// Remaining returns the quantity still to trade: the size remaining for an
// ask, the value remaining for a bid.
func (o Order) Remaining() *num.Uint {
	var r *num.Uint
	if o.Side == SideAsk {
		r = o.SizeRemaining
	} else {
		r = o.ValueRemaining
	}
	if r == nil {
		return num.UintZero()
	}
	return r
}

func (o Order) Clone() *Order {
	cpy := o
	cpy.Size = cloneUint(o.Size)
	cpy.Value = cloneUint(o.Value)
	cpy.SizeRemaining = cloneUint(o.SizeRemaining)
	cpy.ValueRemaining = cloneUint(o.ValueRemaining)
	cpy.LastSizeTaken = cloneUint(o.LastSizeTaken)
	cpy.LastValueTaken = cloneUint(o.LastValueTaken)
	if o.Metadata != nil {
		cpy.Metadata = make(map[string]string, len(o.Metadata))
		for k, v := range o.Metadata {
			cpy.Metadata[k] = v
		}
	}
	return &cpy
}

func (o Order) String() string {
	return fmt.Sprintf(
		"ID(%s) side(%s) type(%s) price(%s) size(%s) value(%s) sizeRemaining(%s) valueRemaining(%s) lastSizeTaken(%s) lastValueTaken(%s)",
		o.ID,
		o.Side.String(),
		o.Type.String(),
		o.Price.String(),
		uintPointerToString(o.Size),
		uintPointerToString(o.Value),
		uintPointerToString(o.SizeRemaining),
		uintPointerToString(o.ValueRemaining),
		uintPointerToString(o.LastSizeTaken),
		uintPointerToString(o.LastValueTaken),
	)
}

type Orders []*Order

// OrderConfirmation reports the outcome of a submission. Taker and Makers
// are copies taken once matching completed.
type OrderConfirmation struct {
	Taker     *Order    `json:"taker"`
	Makers    Orders    `json:"makers"`
	TakeSize  *num.Uint `json:"takeSize"`
	TakeValue *num.Uint `json:"takeValue"`
}

// PriceLevel is the aggregate of one price on one side of the book.
// Remaining is the sum of the size remaining for an ask level, of the value
// remaining for a bid level.
type PriceLevel struct {
	Price          num.Decimal `json:"price"`
	Remaining      *num.Uint   `json:"remaining"`
	NumberOfOrders uint64      `json:"numberOfOrders"`
}

func (l PriceLevel) String() string {
	return fmt.Sprintf(
		"price(%s) remaining(%s) numberOfOrders(%d)",
		l.Price.String(),
		uintPointerToString(l.Remaining),
		l.NumberOfOrders,
	)
}

// BookState holds every resting order of a book in price-time priority,
// asks ascending and bids descending.
type BookState struct {
	MarketID              string `json:"marketId"`
	PriceDecimalPrecision uint32 `json:"priceDecimalPrecision"`
	Asks                  Orders `json:"asks"`
	Bids                  Orders `json:"bids"`
}

func cloneUint(u *num.Uint) *num.Uint {
	if u == nil {
		return nil
	}
	return u.Clone()
}

func uintPointerToString(u *num.Uint) string {
	if u == nil {
		return "nil"
	}
	return u.String()
}
