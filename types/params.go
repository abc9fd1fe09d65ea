package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// DefaultBondDenom is the underlying staking asset.
	DefaultBondDenom = "upol"
	// DefaultFeeBps is the protocol fee skimmed from newly claimed rewards (10%).
	DefaultFeeBps = 1_000
	// DefaultDistFeeBps is the fee skimmed from distributed reward shares (5%).
	DefaultDistFeeBps = 500
	// DefaultFeePrecisionBps is the basis point denominator for both fees.
	DefaultFeePrecisionBps = 10_000
)

var (
	// DefaultMinDeposit is the smallest accepted deposit: one whole token.
	DefaultMinDeposit = sdkmath.NewIntWithDecimal(1, 18)
	// DefaultMinAllocation is the anti-dust floor for a single allocation: one whole token.
	DefaultMinAllocation = sdkmath.NewIntWithDecimal(1, 18)
)

// Params are the tunables of the vault.
type Params struct {
	// BondDenom is the denom of the underlying asset deposited and staked.
	BondDenom string `json:"bond_denom"`
	// Treasury receives protocol and distribution fee shares.
	Treasury string `json:"treasury"`
	// MinDeposit is the smallest amount accepted by Deposit.
	MinDeposit sdkmath.Int `json:"min_deposit"`
	// MinAllocation is the smallest amount accepted by a single Allocate call.
	MinAllocation sdkmath.Int `json:"min_allocation"`
	// FeeBps is charged on rewards when they are swept into the vault.
	FeeBps uint64 `json:"fee_bps"`
	// DistFeeBps is charged on reward shares moved by a distribution.
	DistFeeBps uint64 `json:"dist_fee_bps"`
	// FeePrecisionBps is the denominator of FeeBps and DistFeeBps.
	FeePrecisionBps uint64 `json:"fee_precision_bps"`
	// StrictAllocation rejects a single allocation larger than the distributor's current holdings.
	StrictAllocation bool `json:"strict_allocation"`
}

// DefaultTreasury is the fee account used until governance configures one.
var DefaultTreasury = authtypes.NewModuleAddress(ModuleName + "_treasury")

// DefaultParams returns the default vault params.
func DefaultParams() Params {
	return Params{
		BondDenom:       DefaultBondDenom,
		Treasury:        DefaultTreasury.String(),
		MinDeposit:      DefaultMinDeposit,
		MinAllocation:   DefaultMinAllocation,
		FeeBps:          DefaultFeeBps,
		DistFeeBps:      DefaultDistFeeBps,
		FeePrecisionBps: DefaultFeePrecisionBps,
	}
}

// Validate performs basic validation on the params.
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.BondDenom); err != nil {
		return fmt.Errorf("invalid bond denom: %w", err)
	}
	if _, err := sdk.AccAddressFromBech32(p.Treasury); err != nil {
		return fmt.Errorf("invalid treasury address: %w", err)
	}
	if p.MinDeposit.IsNil() || !p.MinDeposit.IsPositive() {
		return fmt.Errorf("min deposit must be positive")
	}
	if p.MinAllocation.IsNil() || !p.MinAllocation.IsPositive() {
		return fmt.Errorf("min allocation must be positive")
	}
	if p.FeePrecisionBps == 0 {
		return fmt.Errorf("fee precision must be positive")
	}
	if p.FeeBps > p.FeePrecisionBps {
		return fmt.Errorf("fee %d exceeds fee precision %d", p.FeeBps, p.FeePrecisionBps)
	}
	if p.DistFeeBps > p.FeePrecisionBps {
		return fmt.Errorf("distribution fee %d exceeds fee precision %d", p.DistFeeBps, p.FeePrecisionBps)
	}
	return nil
}

// TreasuryAddress returns the decoded treasury address. Params are validated
// before they are stored, so a decoding failure here is a programming error.
func (p Params) TreasuryAddress() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(p.Treasury)
}

// FeeOf returns floor(amount * bps / FeePrecisionBps).
func (p Params) FeeOf(amount sdkmath.Int, bps uint64) sdkmath.Int {
	return amount.Mul(sdkmath.NewIntFromUint64(bps)).Quo(sdkmath.NewIntFromUint64(p.FeePrecisionBps))
}
