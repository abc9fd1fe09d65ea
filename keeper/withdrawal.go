package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// WithdrawClaim pays out a matured unbond created by Withdraw to its receiver.
// Claims stay available while the vault is paused.
func (k *Keeper) WithdrawClaim(ctx sdk.Context, owner sdk.AccAddress, nonce uint64) (sdkmath.Int, error) {
	var paid sdkmath.Int
	err := k.atomically(ctx, "withdraw claim", func(ctx sdk.Context) error {
		var err error
		paid, err = k.withdrawClaim(ctx, owner, nonce)
		return err
	})
	return paid, err
}

// ClaimList claims several matured unbonds at once. Either every claim is
// paid or none is.
func (k *Keeper) ClaimList(ctx sdk.Context, owner sdk.AccAddress, nonces []uint64) (sdkmath.Int, error) {
	total := sdkmath.ZeroInt()
	err := k.atomically(ctx, "claim list", func(ctx sdk.Context) error {
		if len(nonces) == 0 {
			return types.ErrInvalidRequest.Wrap("no nonces to claim")
		}
		for _, nonce := range nonces {
			paid, err := k.withdrawClaim(ctx, owner, nonce)
			if err != nil {
				return fmt.Errorf("claim %d: %w", nonce, err)
			}
			total = total.Add(paid)
		}
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return total, nil
}

func (k *Keeper) withdrawClaim(ctx sdk.Context, owner sdk.AccAddress, nonce uint64) (sdkmath.Int, error) {
	req, err := k.UnbondRequests.Get(ctx, nonce)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if req.Owner != owner.String() {
		return sdkmath.Int{}, types.ErrNotRequestOwner.Wrapf("request %d belongs to %s", nonce, req.Owner)
	}
	if !k.StakingKeeper.IsClaimMature(ctx, nonce) {
		return sdkmath.Int{}, types.ErrClaimNotMature.Wrapf("request %d from epoch %d", nonce, req.Epoch)
	}
	return k.payClaim(ctx, req)
}

// payClaim collects a matured unbond from the staking module, pays it to the
// request's receiver and removes the request.
func (k *Keeper) payClaim(ctx sdk.Context, req types.WithdrawalRequest) (sdkmath.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	receiver, err := sdk.AccAddressFromBech32(req.Receiver)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("invalid receiver in request %d: %w", req.Nonce, err)
	}
	paid, err := k.StakingKeeper.ClaimUnbonded(ctx, req.Nonce)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to claim unbonded stake: %w", err)
	}
	if paid.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(params.BondDenom, paid))
		if err := k.BankKeeper.SendCoins(ctx, types.ModuleAddress, receiver, coins); err != nil {
			return sdkmath.Int{}, err
		}
	}
	if err := k.UnbondRequests.Remove(ctx, req.Nonce); err != nil {
		return sdkmath.Int{}, err
	}

	k.emitEvent(ctx, types.NewEventWithdrawClaim(req, paid))
	return paid, nil
}

// GetWithdrawalRequests returns the pending unbond requests of owner in nonce order.
func (k Keeper) GetWithdrawalRequests(ctx sdk.Context, owner sdk.AccAddress) ([]types.WithdrawalRequest, error) {
	reqs := []types.WithdrawalRequest{}
	err := k.UnbondRequests.WalkByOwner(ctx, owner, func(_ uint64, req types.WithdrawalRequest) (bool, error) {
		reqs = append(reqs, req)
		return false, nil
	})
	return reqs, err
}

// CompoundRewards sweeps unclaimed rewards and restakes everything the vault
// holds as claimed rewards. The share price is unchanged.
func (k *Keeper) CompoundRewards(ctx sdk.Context) (sdkmath.Int, error) {
	var restaked sdkmath.Int
	err := k.atomically(ctx, "compound rewards", func(ctx sdk.Context) error {
		if err := k.requireNotPaused(ctx); err != nil {
			return err
		}
		if _, err := k.sweepRewards(ctx); err != nil {
			return fmt.Errorf("failed to sweep rewards: %w", err)
		}

		vault, err := k.GetVaultState(ctx)
		if err != nil {
			return err
		}
		restaked = vault.ClaimedRewards
		if restaked.IsZero() {
			return nil
		}
		if err := k.StakingKeeper.Stake(ctx, restaked); err != nil {
			return fmt.Errorf("failed to restake rewards: %w", err)
		}
		vault.ClaimedRewards = sdkmath.ZeroInt()
		k.recordDeposit(&vault, restaked)
		if err := k.SetVaultState(ctx, vault); err != nil {
			return err
		}

		k.getLogger(ctx).Info("compounded rewards", "amount", restaked.String())
		k.emitEvent(ctx, types.NewEventRewardsCompounded(restaked))
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return restaked, nil
}
