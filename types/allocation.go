package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Allocation designates that Recipient earns the reward growth on Principal
// worth of Distributor's stake, measured from SharePrice.
type Allocation struct {
	Distributor string      `json:"distributor"`
	Recipient   string      `json:"recipient"`
	Principal   sdkmath.Int `json:"principal"`
	SharePrice  Ratio       `json:"share_price"`
}

// NewAllocation creates a new Allocation.
func NewAllocation(distributor, recipient sdk.AccAddress, principal sdkmath.Int, price Ratio) Allocation {
	return Allocation{
		Distributor: distributor.String(),
		Recipient:   recipient.String(),
		Principal:   principal,
		SharePrice:  price,
	}
}

// Validate performs basic validation on the allocation.
func (a Allocation) Validate() error {
	if _, err := sdk.AccAddressFromBech32(a.Distributor); err != nil {
		return fmt.Errorf("invalid distributor address: %w", err)
	}
	if _, err := sdk.AccAddressFromBech32(a.Recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	if a.Principal.IsNil() || !a.Principal.IsPositive() {
		return fmt.Errorf("allocation principal must be positive")
	}
	return a.SharePrice.Validate()
}

// TotalAllocated aggregates all outgoing allocations of a distributor.
type TotalAllocated struct {
	Distributor string      `json:"distributor"`
	Principal   sdkmath.Int `json:"principal"`
	SharePrice  Ratio       `json:"share_price"`
}

// Validate performs basic validation on the aggregate.
func (t TotalAllocated) Validate() error {
	if _, err := sdk.AccAddressFromBech32(t.Distributor); err != nil {
		return fmt.Errorf("invalid distributor address: %w", err)
	}
	if t.Principal.IsNil() || !t.Principal.IsPositive() {
		return fmt.Errorf("total allocated principal must be positive")
	}
	return t.SharePrice.Validate()
}

// Distribution is the outcome of settling a single allocation.
type Distribution struct {
	Distributor  string      `json:"distributor"`
	Recipient    string      `json:"recipient"`
	RewardShares sdkmath.Int `json:"reward_shares"`
	FeeShares    sdkmath.Int `json:"fee_shares"`
	NetShares    sdkmath.Int `json:"net_shares"`
	// Amount is set when the net shares were redeemed for the underlying asset.
	Amount sdkmath.Int `json:"amount"`
	// Withdrawal is set when part of the redemption waits on an unbond.
	Withdrawal *WithdrawalRequest `json:"withdrawal,omitempty"`
	SharePrice Ratio              `json:"share_price"`
}
