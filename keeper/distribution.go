package keeper

import (
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

// DistributeRewards realizes the reward growth of the allocation from
// distributor to recipient as a share transfer.
//
// It performs the following steps:
//  1. Requires caller to be the distributor and the allocation to exist.
//  2. Sweeps unclaimed rewards and reads the current price.
//  3. Computes the reward shares as the shares the principal was worth at the
//     allocation price minus what it is worth now, floored at zero.
//  4. Sends the distribution fee to the treasury and the net shares to the
//     recipient, either as shares or redeemed for the underlying asset.
//  5. Resets the allocation price to the current price (principal unchanged)
//     and rebases the distributor's aggregate by the reward shares.
//
// A distributor that cannot cover the debit fails with ErrInsufficientDistributorShares.
func (k *Keeper) DistributeRewards(ctx sdk.Context, caller, distributor, recipient sdk.AccAddress, mode types.PayoutMode) (types.Distribution, error) {
	var dist types.Distribution
	err := k.atomically(ctx, "distribute rewards", func(ctx sdk.Context) error {
		if !caller.Equals(distributor) {
			return types.ErrOnlyDistributorCanDistributeRewards.Wrapf("caller %s is not %s", caller, distributor)
		}
		var err error
		dist, err = k.distribute(ctx, distributor, recipient, mode)
		return err
	})
	return dist, err
}

// DistributeAll distributes the rewards of every allocation made by caller,
// in the order the recipients were first allocated to. Either every
// distribution succeeds or none is applied, so an overallocated distributor
// fails on the first recipient its balance can no longer cover.
func (k *Keeper) DistributeAll(ctx sdk.Context, caller sdk.AccAddress, mode types.PayoutMode) ([]types.Distribution, error) {
	var dists []types.Distribution
	err := k.atomically(ctx, "distribute all", func(ctx sdk.Context) error {
		recipients, err := k.GetRecipients(ctx, caller)
		if err != nil {
			return err
		}
		dists = make([]types.Distribution, 0, len(recipients))
		for i, recipient := range recipients {
			dist, err := k.distribute(ctx, caller, recipient, mode)
			if err != nil {
				return fmt.Errorf("distribution %d to %s: %w", i, recipient, err)
			}
			dists = append(dists, dist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dists, nil
}

func (k *Keeper) distribute(ctx sdk.Context, distributor, recipient sdk.AccAddress, mode types.PayoutMode) (types.Distribution, error) {
	if err := mode.Validate(); err != nil {
		return types.Distribution{}, err
	}
	if err := requireAddresses(distributor, recipient); err != nil {
		return types.Distribution{}, err
	}
	if err := k.requireNotPaused(ctx); err != nil {
		return types.Distribution{}, err
	}
	pair := collections.Join(distributor, recipient)
	alloc, err := k.Allocations.Get(ctx, pair)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Distribution{}, types.ErrAllocationNotFound.Wrapf("%s has not allocated to %s", distributor, recipient)
	}
	if err != nil {
		return types.Distribution{}, err
	}

	if _, err := k.sweepRewards(ctx); err != nil {
		return types.Distribution{}, fmt.Errorf("failed to sweep rewards: %w", err)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Distribution{}, err
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return types.Distribution{}, err
	}
	price, err := k.sharePrice(ctx, params, vault)
	if err != nil {
		return types.Distribution{}, err
	}

	reward, err := rewardShares(alloc.Principal, alloc.SharePrice, price)
	if err != nil {
		return types.Distribution{}, err
	}
	fee := params.FeeOf(reward, params.DistFeeBps)
	dist := types.Distribution{
		Distributor:  alloc.Distributor,
		Recipient:    alloc.Recipient,
		RewardShares: reward,
		FeeShares:    fee,
		NetShares:    reward.Sub(fee),
		Amount:       sdkmath.ZeroInt(),
		SharePrice:   price,
	}

	if err := k.transferShares(ctx, distributor, params.TreasuryAddress(), fee); err != nil {
		return types.Distribution{}, fmt.Errorf("%w: %w", types.ErrInsufficientDistributorShares, err)
	}
	if err := k.payout(ctx, distributor, recipient, mode, &dist); err != nil {
		return types.Distribution{}, err
	}

	alloc.SharePrice = price
	if err := k.Allocations.Set(ctx, pair, alloc); err != nil {
		return types.Distribution{}, err
	}
	if err := k.rebaseTotalAllocated(ctx, distributor, reward, price); err != nil {
		return types.Distribution{}, err
	}

	k.getLogger(ctx).Info("distributed rewards",
		"distributor", dist.Distributor,
		"recipient", dist.Recipient,
		"reward_shares", reward.String(),
		"fee_shares", fee.String(),
		"payout_mode", mode.String(),
	)
	k.emitEvent(ctx, types.NewEventDistributeRewards(dist, mode))
	return dist, nil
}

// payout moves the net reward shares of dist from distributor to recipient.
func (k *Keeper) payout(ctx sdk.Context, distributor, recipient sdk.AccAddress, mode types.PayoutMode, dist *types.Distribution) error {
	if !dist.NetShares.IsPositive() {
		return nil
	}
	if mode == types.PayoutUnderlying {
		bal, err := k.BalanceOf(ctx, distributor)
		if err != nil {
			return err
		}
		if bal.LT(dist.NetShares) {
			return fmt.Errorf("%w: %w", types.ErrInsufficientDistributorShares,
				types.ErrInsufficientBalance.Wrapf("%s holds %s shares, needs %s", distributor, bal, dist.NetShares))
		}
		amount, req, err := k.redeem(ctx, distributor, recipient, dist.NetShares)
		switch {
		case err == nil:
			dist.Amount, dist.Withdrawal = amount, req
			return nil
		case errors.Is(err, types.ErrZeroAmount):
			// worth less than one unit of the asset: pay the shares instead
			k.getLogger(ctx).Debug("reward too small to redeem, paying shares",
				"recipient", recipient.String(), "net_shares", dist.NetShares.String())
		default:
			return err
		}
	}
	if err := k.transferShares(ctx, distributor, recipient, dist.NetShares); err != nil {
		return fmt.Errorf("%w: %w", types.ErrInsufficientDistributorShares, err)
	}
	return nil
}

// rebaseTotalAllocated takes distributed reward shares out of the
// distributor's aggregate while keeping its principal.
func (k Keeper) rebaseTotalAllocated(ctx sdk.Context, distributor sdk.AccAddress, reward sdkmath.Int, price types.Ratio) error {
	if reward.IsZero() {
		return nil
	}
	total, err := k.getTotalAllocated(ctx, distributor)
	if err != nil {
		return err
	}
	if total == nil {
		return types.ErrAllocationNotFound.Wrapf("no total allocated for %s", distributor)
	}
	total.SharePrice, err = utils.CalculateRebasedPrice(total.Principal, total.SharePrice, reward, price)
	if err != nil {
		return fmt.Errorf("failed to rebase total allocated: %w", err)
	}
	return k.TotalAllocated.Set(ctx, distributor, *total)
}

// rewardShares returns max(0, fromAmount(principal, allocPrice) - fromAmount(principal, price)).
func rewardShares(principal sdkmath.Int, allocPrice, price types.Ratio) (sdkmath.Int, error) {
	atAllocation, err := utils.CalculateSharesFromAmount(principal, allocPrice)
	if err != nil {
		return sdkmath.Int{}, err
	}
	atPrice, err := utils.CalculateSharesFromAmount(principal, price)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if atPrice.GTE(atAllocation) {
		return sdkmath.ZeroInt(), nil
	}
	return atAllocation.Sub(atPrice), nil
}
