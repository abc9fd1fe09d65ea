package keeper

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

// SharePrice returns the current share price. It is a pure read: unclaimed
// rewards are valued net of the protocol fee without being swept.
func (k Keeper) SharePrice(ctx sdk.Context) (types.Ratio, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Ratio{}, err
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return types.Ratio{}, err
	}
	return k.sharePrice(ctx, params, vault)
}

func (k Keeper) sharePrice(ctx sdk.Context, params types.Params, vault types.VaultState) (types.Ratio, error) {
	unclaimed := k.StakingKeeper.UnclaimedRewards(ctx)
	return vault.SharePrice(unclaimed, params.FeeBps, params.FeePrecisionBps)
}

// sweepRewards claims every unclaimed reward from the staking module into the
// vault and mints the protocol fee to the treasury as shares.
//
// The fee is valued at the price seen before the sweep, which already counts
// the unclaimed rewards net of fee, so the sweep never lowers the share price.
// When no shares exist the whole claim is credited to the treasury at par
// instead, so swept rewards always have an owner.
//
// Every operation that reads the share price to move value must sweep first.
func (k Keeper) sweepRewards(ctx sdk.Context) (sdkmath.Int, error) {
	unclaimed := k.StakingKeeper.UnclaimedRewards(ctx)
	if !unclaimed.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	prePrice, err := k.sharePrice(ctx, params, vault)
	if err != nil {
		return sdkmath.Int{}, err
	}

	claimed, err := k.StakingKeeper.ClaimRewards(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if !claimed.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}

	var feeShares sdkmath.Int
	if vault.TotalShares.IsZero() {
		feeShares, err = utils.CalculateSharesFromAmount(claimed, types.OneToOne())
	} else {
		feeShares, err = utils.CalculateTreasuryFeeShares(claimed, params.FeeBps, params.FeePrecisionBps, prePrice)
	}
	if err != nil {
		return sdkmath.Int{}, err
	}

	if err := k.recordRewards(&vault, claimed); err != nil {
		return sdkmath.Int{}, err
	}
	treasury := params.TreasuryAddress()
	if err := k.mintShares(ctx, &vault, treasury, feeShares); err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.SetVaultState(ctx, vault); err != nil {
		return sdkmath.Int{}, err
	}

	k.getLogger(ctx).Info("swept staking rewards",
		"claimed", claimed.String(),
		"fee_shares", feeShares.String(),
		"treasury", params.Treasury,
	)
	k.emitEvent(ctx, types.NewEventRewardsSwept(claimed, feeShares, params.Treasury))
	return claimed, nil
}

// recordRewards moves claimed rewards into the vault's liquid balance.
func (k Keeper) recordRewards(vault *types.VaultState, claimed sdkmath.Int) error {
	if claimed.IsNegative() {
		return types.ErrInvalidRequest.Wrapf("claimed rewards cannot be negative: %s", claimed)
	}
	vault.ClaimedRewards = vault.ClaimedRewards.Add(claimed)
	return nil
}

// recordDeposit adds newly staked principal to the vault.
func (k Keeper) recordDeposit(vault *types.VaultState, amount sdkmath.Int) {
	vault.TotalStaked = vault.TotalStaked.Add(amount)
}

// recordWithdrawal removes amount from the vault, taking it out of the staked
// principal first and out of the liquid claimed rewards for any remainder.
// It returns the two parts.
func (k Keeper) recordWithdrawal(vault *types.VaultState, amount sdkmath.Int) (staked, liquid sdkmath.Int, err error) {
	staked = sdkmath.MinInt(amount, vault.TotalStaked)
	liquid = amount.Sub(staked)
	if liquid.GT(vault.ClaimedRewards) {
		return sdkmath.Int{}, sdkmath.Int{}, types.ErrInsufficientLiquidity.Wrapf(
			"withdrawal of %s exceeds staked %s plus claimed %s", amount, vault.TotalStaked, vault.ClaimedRewards)
	}
	vault.TotalStaked = vault.TotalStaked.Sub(staked)
	vault.ClaimedRewards = vault.ClaimedRewards.Sub(liquid)
	return staked, liquid, nil
}
