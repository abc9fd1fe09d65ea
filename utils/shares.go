package utils

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/provlabs/stakevault/types"
)

// CalculateSharesFromAmount converts an amount of the underlying asset into
// shares at the given price.
//
// Formula (integer, floor):
//
//	shares = floor( amount * Scale * price.den / price.num )
//
// Flooring means a depositor never receives more shares than the amount buys.
func CalculateSharesFromAmount(amount math.Int, price types.Ratio) (math.Int, error) {
	if err := price.Validate(); err != nil {
		return math.Int{}, err
	}
	if amount.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if amount.IsZero() {
		return math.ZeroInt(), nil
	}
	if price.Numerator.IsZero() {
		return math.Int{}, types.ErrZeroDenominator.Wrap("share price is zero")
	}

	scaled, err := amount.SafeMul(types.Scale)
	if err != nil {
		return math.Int{}, types.ErrMathOverflow.Wrap(err.Error())
	}
	return MulDiv(scaled, price.Denominator, price.Numerator)
}

// CalculateAmountFromShares converts shares into an amount of the underlying
// asset at the given price.
//
// Formula (integer, floor):
//
//	amount = floor( shares * price.num / (price.den * Scale) )
func CalculateAmountFromShares(shares math.Int, price types.Ratio) (math.Int, error) {
	if err := price.Validate(); err != nil {
		return math.Int{}, err
	}
	if shares.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if shares.IsZero() {
		return math.ZeroInt(), nil
	}

	den, err := price.Denominator.SafeMul(types.Scale)
	if err != nil {
		return math.Int{}, types.ErrMathOverflow.Wrap(err.Error())
	}
	return MulDiv(shares, price.Numerator, den)
}

// CalculateTreasuryFeeShares returns the shares minted to the treasury when
// unclaimed rewards are swept, valued at the pre-sweep price.
//
// Formula (integer, single floor):
//
//	fee = floor( unclaimed * feeBps * Scale * price.den / (price.num * precisionBps) )
//
// This is fromAmount(unclaimed, price) * feeBps / precisionBps without the
// intermediate rounding step.
func CalculateTreasuryFeeShares(unclaimed math.Int, feeBps, precisionBps uint64, price types.Ratio) (math.Int, error) {
	if precisionBps == 0 {
		return math.Int{}, types.ErrZeroDenominator.Wrap("fee precision is zero")
	}
	if unclaimed.IsZero() || feeBps == 0 {
		return math.ZeroInt(), nil
	}

	feeAmount, err := unclaimed.SafeMul(math.NewIntFromUint64(feeBps))
	if err != nil {
		return math.Int{}, types.ErrMathOverflow.Wrap(err.Error())
	}
	scaledFee, err := CalculateSharesFromAmount(feeAmount, price)
	if err != nil {
		return math.Int{}, err
	}
	return scaledFee.Quo(math.NewIntFromUint64(precisionBps)), nil
}

// CalculateWeightedAveragePrice merges an existing position (principal at
// price) with a new contribution (amount at currentPrice) and returns the
// share-weighted average entry price of the combined position.
//
// Formula:
//
//	oldShares = fromAmount(principal, price)
//	newShares = fromAmount(amount, currentPrice)
//	combined  = Ratio( (principal + amount) * Scale, oldShares + newShares )
//
// An empty existing position keeps currentPrice as is.
func CalculateWeightedAveragePrice(principal math.Int, price types.Ratio, amount math.Int, currentPrice types.Ratio) (types.Ratio, error) {
	if principal.IsNil() || principal.IsZero() {
		return currentPrice, currentPrice.Validate()
	}

	oldShares, err := CalculateSharesFromAmount(principal, price)
	if err != nil {
		return types.Ratio{}, err
	}
	newShares, err := CalculateSharesFromAmount(amount, currentPrice)
	if err != nil {
		return types.Ratio{}, err
	}

	totalShares := oldShares.Add(newShares)
	if totalShares.IsZero() {
		return types.Ratio{}, types.ErrZeroDenominator.Wrapf("position of %s worth no shares", principal.Add(amount))
	}
	num, err := principal.Add(amount).SafeMul(types.Scale)
	if err != nil {
		return types.Ratio{}, types.ErrMathOverflow.Wrap(err.Error())
	}

	combined, err := types.NewRatio(num, totalShares)
	if err != nil {
		return types.Ratio{}, err
	}
	return combined.Reduce(), nil
}

// CalculateRebasedPrice returns the price at which principal is worth
// removedShares fewer shares than it is worth at price. It is used to take
// distributed reward shares out of an aggregate position while keeping its
// principal.
//
// Formula:
//
//	shares = fromAmount(principal, price) - removedShares
//	rebased = Ratio( principal * Scale, shares )
//
// The result never exceeds currentPrice, which is also returned when no shares
// would be left.
func CalculateRebasedPrice(principal math.Int, price types.Ratio, removedShares math.Int, currentPrice types.Ratio) (types.Ratio, error) {
	shares, err := CalculateSharesFromAmount(principal, price)
	if err != nil {
		return types.Ratio{}, err
	}
	shares = shares.Sub(removedShares)
	if !shares.IsPositive() {
		return currentPrice, nil
	}

	num, err := principal.SafeMul(types.Scale)
	if err != nil {
		return types.Ratio{}, types.ErrMathOverflow.Wrap(err.Error())
	}
	rebased, err := types.NewRatio(num, shares)
	if err != nil {
		return types.Ratio{}, err
	}
	if rebased.GT(currentPrice) {
		return currentPrice, nil
	}
	return rebased.Reduce(), nil
}
