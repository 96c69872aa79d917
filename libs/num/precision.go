// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package num

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// DefaultPriceDecimals is the number of decimal places prices are kept at
	// when nothing else is configured.
	DefaultPriceDecimals uint32 = 4
	// MaxPriceDecimals is the largest supported number of decimal places.
	MaxPriceDecimals uint32 = 18
)

// PricePrecision converts between decimal prices and the integer quantities
// they trade. All conversions round toward zero. A conversion whose result
// does not fit in a Uint is capped at MaxUint.
type PricePrecision struct {
	decimals uint32
	factor   *Uint
	dfactor  Decimal
}

// NewPricePrecision panics if decimals is above MaxPriceDecimals, configs
// are expected to be validated first.
func NewPricePrecision(decimals uint32) PricePrecision {
	if decimals > MaxPriceDecimals {
		panic(fmt.Sprintf("price decimals %d above the maximum of %d", decimals, MaxPriceDecimals))
	}
	dfactor := decimal.New(1, int32(decimals))
	factor, _ := UintFromDecimal(dfactor)
	return PricePrecision{
		decimals: decimals,
		factor:   factor,
		dfactor:  dfactor,
	}
}

func (p PricePrecision) Decimals() uint32 {
	return p.decimals
}

// Factor returns 10^decimals.
func (p PricePrecision) Factor() *Uint {
	return p.factor.Clone()
}

// Normalise rounds the price to the configured number of decimal places,
// half away from zero.
func (p PricePrecision) Normalise(price Decimal) Decimal {
	return price.Round(int32(p.decimals))
}

// Scaled returns floor(price * 10^decimals). Negative prices scale to zero,
// prices too large for a Uint to MaxUint.
func (p PricePrecision) Scaled(price Decimal) *Uint {
	if !price.IsPositive() {
		return UintZero()
	}
	scaled, overflow := UintFromDecimal(price.Mul(p.dfactor).Floor())
	if overflow {
		return MaxUint()
	}
	return scaled
}

// SizeToValue returns size * scaled(price) / factor.
func (p PricePrecision) SizeToValue(size *Uint, price Decimal) *Uint {
	v, _ := UintZero().MulDiv(size, p.Scaled(price), p.factor)
	return v
}

// ValueToSize returns value * factor / scaled(price). A price scaling to zero
// yields a zero size.
func (p PricePrecision) ValueToSize(value *Uint, price Decimal) *Uint {
	s, _ := UintZero().MulDiv(value, p.factor, p.Scaled(price))
	return s
}
