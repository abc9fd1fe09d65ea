package utils

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/provlabs/stakevault/types"
)

// MulDiv returns floor(x * y / d).
//
// The product is formed with a 512-bit intermediate, so x*y may exceed 256
// bits as long as the quotient does not. Operands must be non-negative.
func MulDiv(x, y, d math.Int) (math.Int, error) {
	if x.IsNegative() || y.IsNegative() || d.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if d.IsZero() {
		return math.Int{}, types.ErrZeroDenominator.Wrap("mul-div by zero")
	}

	ux, err := toUint256(x)
	if err != nil {
		return math.Int{}, err
	}
	uy, err := toUint256(y)
	if err != nil {
		return math.Int{}, err
	}
	ud, err := toUint256(d)
	if err != nil {
		return math.Int{}, err
	}

	z, overflow := new(uint256.Int).MulDivOverflow(ux, uy, ud)
	if overflow {
		return math.Int{}, types.ErrMathOverflow.Wrapf("%s * %s / %s", x, y, d)
	}
	return math.NewIntFromBigInt(z.ToBig()), nil
}

func toUint256(v math.Int) (*uint256.Int, error) {
	u, overflow := uint256.FromBig(v.BigInt())
	if overflow {
		return nil, types.ErrMathOverflow.Wrapf("%s does not fit in 256 bits", v)
	}
	return u, nil
}
