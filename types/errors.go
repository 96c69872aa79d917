package types

import "fmt"

type OrderError int32

const (
	// Default value, no error reported.
	OrderErrorUnspecified OrderError = iota
	// Side is neither ask nor bid.
	OrderErrorInvalidSide
	// Type is neither limit nor market.
	OrderErrorInvalidType
	// An ask carries a value, or a bid carries a size.
	OrderErrorSchemaMismatch
	// An ask has no size, or a bid has no value.
	OrderErrorMissingQuantity
	// The ID is already resting in the book.
	OrderErrorDuplicateOrderID
	// A limit order has no strictly positive price, or a market order has one.
	OrderErrorInvalidPrice
)

var orderErrorNames = map[OrderError]string{
	OrderErrorUnspecified:      "ORDER_ERROR_UNSPECIFIED",
	OrderErrorInvalidSide:      "ORDER_ERROR_INVALID_SIDE",
	OrderErrorInvalidType:      "ORDER_ERROR_INVALID_TYPE",
	OrderErrorSchemaMismatch:   "ORDER_ERROR_SCHEMA_MISMATCH",
	OrderErrorMissingQuantity:  "ORDER_ERROR_MISSING_QUANTITY",
	OrderErrorDuplicateOrderID: "ORDER_ERROR_DUPLICATE_ORDER_ID",
	OrderErrorInvalidPrice:     "ORDER_ERROR_INVALID_PRICE",
}

var orderErrorMessages = map[OrderError]string{
	OrderErrorUnspecified:      "unspecified order error",
	OrderErrorInvalidSide:      "order side must be ask or bid",
	OrderErrorInvalidType:      "order type must be limit or market",
	OrderErrorSchemaMismatch:   "asks are sized and bids are valued",
	OrderErrorMissingQuantity:  "order quantity is missing",
	OrderErrorDuplicateOrderID: "order ID already in the book",
	OrderErrorInvalidPrice:     "invalid order price",
}

func (e OrderError) String() string {
	if n, ok := orderErrorNames[e]; ok {
		return n
	}
	return fmt.Sprintf("ORDER_ERROR(%d)", int32(e))
}

func (e OrderError) Error() string {
	if m, ok := orderErrorMessages[e]; ok {
		return m
	}
	return e.String()
}

var (
	ErrInvalidSide      error = OrderErrorInvalidSide
	ErrInvalidType      error = OrderErrorInvalidType
	ErrSchemaMismatch   error = OrderErrorSchemaMismatch
	ErrMissingQuantity  error = OrderErrorMissingQuantity
	ErrDuplicateOrderID error = OrderErrorDuplicateOrderID
	ErrInvalidPrice     error = OrderErrorInvalidPrice
)
