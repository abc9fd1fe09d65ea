package types

import (
	context "context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StakingKeeper defines the staking functionality the vault delegates to.
// Rewards and unbonded principal are paid into the vault module account.
type StakingKeeper interface {
	// UnclaimedRewards returns rewards accrued for the vault but not yet claimed.
	UnclaimedRewards(ctx context.Context) sdkmath.Int
	// ClaimRewards moves all unclaimed rewards to the vault module account and returns the amount.
	ClaimRewards(ctx context.Context) (sdkmath.Int, error)
	// Stake bonds amount out of the vault module account.
	Stake(ctx context.Context, amount sdkmath.Int) error
	// RequestUnbond starts unbonding amount and returns the unbond nonce.
	RequestUnbond(ctx context.Context, amount sdkmath.Int) (uint64, error)
	// IsClaimMature reports whether the unbond identified by nonce can be claimed.
	IsClaimMature(ctx context.Context, nonce uint64) bool
	// ClaimUnbonded pays a matured unbond into the vault module account and returns the amount.
	ClaimUnbonded(ctx context.Context, nonce uint64) (sdkmath.Int, error)
	// CurrentEpoch returns the staking module's checkpoint epoch.
	CurrentEpoch(ctx context.Context) uint64
}

// WhitelistKeeper defines the identity gate consulted for deposits and withdrawals.
type WhitelistKeeper interface {
	IsWhitelisted(ctx context.Context, addr sdk.AccAddress) bool
}

// BankKeeper defines the bank functionality needed to move the underlying asset.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}
