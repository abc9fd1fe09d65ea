package keeper

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

// GetUserInfo returns the redeemable shares and withdrawable amount of user at the current price.
func (k Keeper) GetUserInfo(ctx sdk.Context, user sdk.AccAddress) (types.UserInfo, error) {
	if err := requireAddresses(user); err != nil {
		return types.UserInfo{}, err
	}
	price, err := k.SharePrice(ctx)
	if err != nil {
		return types.UserInfo{}, err
	}
	bal, err := k.BalanceOf(ctx, user)
	if err != nil {
		return types.UserInfo{}, err
	}
	amount, err := utils.CalculateAmountFromShares(bal, price)
	if err != nil {
		return types.UserInfo{}, err
	}
	return types.UserInfo{
		MaxRedeem:   bal,
		MaxWithdraw: amount,
		SharePrice:  price,
		Epoch:       k.StakingKeeper.CurrentEpoch(ctx),
	}, nil
}

// MaxWithdraw returns the amount of the underlying asset user's shares are worth.
func (k Keeper) MaxWithdraw(ctx sdk.Context, user sdk.AccAddress) (sdkmath.Int, error) {
	info, err := k.GetUserInfo(ctx, user)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return info.MaxWithdraw, nil
}

// ConvertToAssets returns what shares are worth at the current price.
func (k Keeper) ConvertToAssets(ctx sdk.Context, shares sdkmath.Int) (sdkmath.Int, error) {
	price, err := k.SharePrice(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return utils.CalculateAmountFromShares(shares, price)
}

// ConvertToShares returns the shares amount buys at the current price.
func (k Keeper) ConvertToShares(ctx sdk.Context, amount sdkmath.Int) (sdkmath.Int, error) {
	price, err := k.SharePrice(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return utils.CalculateSharesFromAmount(amount, price)
}

// PreviewTreasuryFee returns the fee shares the treasury would be minted if
// the currently unclaimed rewards were swept now.
func (k Keeper) PreviewTreasuryFee(ctx sdk.Context) (sdkmath.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	unclaimed := k.StakingKeeper.UnclaimedRewards(ctx)
	if vault.TotalShares.IsZero() {
		return utils.CalculateSharesFromAmount(unclaimed, types.OneToOne())
	}
	price, err := k.sharePrice(ctx, params, vault)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return utils.CalculateTreasuryFeeShares(unclaimed, params.FeeBps, params.FeePrecisionBps, price)
}

// TotalAssets returns the assets backing all shares: staked principal, claimed
// rewards and unclaimed rewards net of the protocol fee.
func (k Keeper) TotalAssets(ctx sdk.Context) (sdkmath.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	unclaimed := k.StakingKeeper.UnclaimedRewards(ctx)
	net := unclaimed.Sub(params.FeeOf(unclaimed, params.FeeBps))
	return vault.TotalAssets().Add(net), nil
}
