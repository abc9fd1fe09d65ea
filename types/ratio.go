package types

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// Scale is the fixed-point unit (1e18) every share price numerator is scaled by.
var Scale = sdkmath.NewIntWithDecimal(1, 18)

// Ratio is a price kept as an explicit numerator/denominator pair.
//
// The pair is never pre-divided. Two ratios are compared by cross-multiplying
// (a.num*b.den vs b.num*a.den) so no precision is lost, and callers that do
// divide must expect truncation.
type Ratio struct {
	Numerator   sdkmath.Int `json:"numerator"`
	Denominator sdkmath.Int `json:"denominator"`
}

// NewRatio builds a Ratio, rejecting a non-positive denominator or a negative numerator.
func NewRatio(num, den sdkmath.Int) (Ratio, error) {
	r := Ratio{Numerator: num, Denominator: den}
	if err := r.Validate(); err != nil {
		return Ratio{}, err
	}
	return r, nil
}

// OneToOne returns the baseline price used while no shares exist: one share per asset unit.
func OneToOne() Ratio {
	return Ratio{Numerator: Scale, Denominator: sdkmath.OneInt()}
}

// Validate checks the ratio invariants.
func (r Ratio) Validate() error {
	if r.Numerator.IsNil() || r.Denominator.IsNil() {
		return ErrZeroDenominator.Wrap("ratio is not initialized")
	}
	if !r.Denominator.IsPositive() {
		return ErrZeroDenominator.Wrapf("denominator must be positive, got %s", r.Denominator)
	}
	if r.Numerator.IsNegative() {
		return ErrInvalidRequest.Wrapf("numerator cannot be negative, got %s", r.Numerator)
	}
	return nil
}

// IsZero reports whether the ratio is an unset value.
func (r Ratio) IsZero() bool {
	return r.Numerator.IsNil() && r.Denominator.IsNil()
}

// Compare cross-multiplies the two ratios and returns -1, 0 or +1 when r is
// respectively less than, equal to, or greater than other. The products are
// formed in arbitrary precision so they may exceed 256 bits.
func (r Ratio) Compare(other Ratio) int {
	lhs := new(big.Int).Mul(r.Numerator.BigInt(), other.Denominator.BigInt())
	rhs := new(big.Int).Mul(other.Numerator.BigInt(), r.Denominator.BigInt())
	return lhs.Cmp(rhs)
}

// Equal reports whether both ratios express the same price.
func (r Ratio) Equal(other Ratio) bool { return r.Compare(other) == 0 }

// LT reports whether r is strictly lower than other.
func (r Ratio) LT(other Ratio) bool { return r.Compare(other) < 0 }

// GT reports whether r is strictly greater than other.
func (r Ratio) GT(other Ratio) bool { return r.Compare(other) > 0 }

// Identical reports whether both the numerator and the denominator match exactly.
func (r Ratio) Identical(other Ratio) bool {
	return r.Numerator.Equal(other.Numerator) && r.Denominator.Equal(other.Denominator)
}

// Reduce returns the ratio in lowest terms. The price it expresses is unchanged.
func (r Ratio) Reduce() Ratio {
	num, den := r.Numerator.BigInt(), r.Denominator.BigInt()
	g := new(big.Int).GCD(nil, nil, num, den)
	if g.Sign() == 0 || g.Cmp(big.NewInt(1)) == 0 {
		return r
	}
	return Ratio{
		Numerator:   sdkmath.NewIntFromBigInt(num.Quo(num, g)),
		Denominator: sdkmath.NewIntFromBigInt(den.Quo(den, g)),
	}
}

// Quo returns floor(num/den). The result loses precision and is meant for display only.
func (r Ratio) Quo() sdkmath.Int {
	return r.Numerator.Quo(r.Denominator)
}

// String renders the ratio as "num/den".
func (r Ratio) String() string {
	return fmt.Sprintf("%s/%s", r.Numerator, r.Denominator)
}
