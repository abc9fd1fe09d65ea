package keeper

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// TestAccessor_sweepRewards exposes this keeper's sweepRewards function for unit tests.
func (k Keeper) TestAccessor_sweepRewards(t *testing.T, ctx context.Context) (sdkmath.Int, error) {
	t.Helper()
	return k.sweepRewards(sdk.UnwrapSDKContext(ctx))
}

// TestAccessor_rewardShares exposes the rewardShares function for unit tests.
func (k Keeper) TestAccessor_rewardShares(t *testing.T, principal sdkmath.Int, allocPrice, price types.Ratio) (sdkmath.Int, error) {
	t.Helper()
	return rewardShares(principal, allocPrice, price)
}

// TestAccessor_mintShares exposes this keeper's mintShares function for unit tests.
// The vault state is loaded, updated and stored around the mint.
func (k Keeper) TestAccessor_mintShares(t *testing.T, ctx context.Context, addr sdk.AccAddress, shares sdkmath.Int) error {
	t.Helper()
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return err
	}
	if err := k.mintShares(ctx, &vault, addr, shares); err != nil {
		return err
	}
	return k.SetVaultState(ctx, vault)
}
