package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

// Deposit stakes amount of the underlying asset on behalf of depositor in
// exchange for newly minted vault shares.
//
// It performs the following steps:
//  1. Rejects a zero amount, a paused vault, a depositor that is not whitelisted
//     and an amount below the minimum deposit.
//  2. Sweeps unclaimed rewards so the protocol fee is minted before the
//     depositor's price is read. The depositor never pays the fee.
//  3. Converts the amount to shares at the post-sweep price (1:1 while no shares exist).
//  4. Pulls the amount from the depositor into the vault account and stakes it.
//  5. Credits the depositor and emits a deposit event.
//
// Returns the minted share amount on success. Nothing is committed on failure.
func (k *Keeper) Deposit(ctx sdk.Context, depositor sdk.AccAddress, amount sdkmath.Int) (sdkmath.Int, error) {
	var minted sdkmath.Int
	err := k.atomically(ctx, "deposit", func(ctx sdk.Context) error {
		var err error
		minted, err = k.deposit(ctx, depositor, amount)
		return err
	})
	return minted, err
}

func (k *Keeper) deposit(ctx sdk.Context, depositor sdk.AccAddress, amount sdkmath.Int) (sdkmath.Int, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return sdkmath.Int{}, types.ErrZeroAmount.Wrap("deposit amount must be positive")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.requireNotPaused(ctx); err != nil {
		return sdkmath.Int{}, err
	}
	if !k.WhitelistKeeper.IsWhitelisted(ctx, depositor) {
		return sdkmath.Int{}, types.ErrNotWhitelisted.Wrapf("depositor %s", depositor)
	}
	if amount.LT(params.MinDeposit) {
		return sdkmath.Int{}, types.ErrBelowMinimumDeposit.Wrapf("%s is below the minimum of %s", amount, params.MinDeposit)
	}

	if _, err := k.sweepRewards(ctx); err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to sweep rewards: %w", err)
	}

	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	price, err := k.sharePrice(ctx, params, vault)
	if err != nil {
		return sdkmath.Int{}, err
	}
	shares, err := utils.CalculateSharesFromAmount(amount, price)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to calculate shares from amount: %w", err)
	}
	if !shares.IsPositive() {
		return sdkmath.Int{}, types.ErrZeroAmount.Wrapf("deposit of %s buys no shares at %s", amount, price)
	}

	coins := sdk.NewCoins(sdk.NewCoin(params.BondDenom, amount))
	if err := k.BankKeeper.SendCoins(ctx, depositor, types.ModuleAddress, coins); err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.StakingKeeper.Stake(ctx, amount); err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to stake deposit: %w", err)
	}

	k.recordDeposit(&vault, amount)
	if err := k.mintShares(ctx, &vault, depositor, shares); err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.SetVaultState(ctx, vault); err != nil {
		return sdkmath.Int{}, err
	}

	k.emitEvent(ctx, types.NewEventDeposit(depositor.String(), amount, shares, price))
	return shares, nil
}

// Withdraw burns shares of owner and pays out the underlying asset they are worth.
//
// Rewards are swept before the price is read. The staked part of the amount
// is unbonded through the staking module and becomes claimable with
// WithdrawClaim once mature. Any remainder is paid immediately from the
// vault's claimed rewards.
//
// Returns the total amount and, when an unbond was needed, the pending request.
func (k *Keeper) Withdraw(ctx sdk.Context, owner sdk.AccAddress, shares sdkmath.Int) (sdkmath.Int, *types.WithdrawalRequest, error) {
	var (
		amount sdkmath.Int
		req    *types.WithdrawalRequest
	)
	err := k.atomically(ctx, "withdraw", func(ctx sdk.Context) error {
		if shares.IsNil() || !shares.IsPositive() {
			return types.ErrZeroAmount.Wrap("withdrawn shares must be positive")
		}
		if err := k.requireNotPaused(ctx); err != nil {
			return err
		}
		if !k.WhitelistKeeper.IsWhitelisted(ctx, owner) {
			return types.ErrNotWhitelisted.Wrapf("owner %s", owner)
		}
		bal, err := k.BalanceOf(ctx, owner)
		if err != nil {
			return err
		}
		if shares.GT(bal) {
			return types.ErrInsufficientBalance.Wrapf("%s holds %s shares, requested %s", owner, bal, shares)
		}

		if _, err := k.sweepRewards(ctx); err != nil {
			return fmt.Errorf("failed to sweep rewards: %w", err)
		}
		amount, req, err = k.redeem(ctx, owner, owner, shares)
		return err
	})
	return amount, req, err
}

// redeem burns shares from owner and pays what they are worth at the current
// price to receiver. Callers are responsible for sweeping first.
func (k *Keeper) redeem(ctx sdk.Context, owner, receiver sdk.AccAddress, shares sdkmath.Int) (sdkmath.Int, *types.WithdrawalRequest, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, nil, err
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return sdkmath.Int{}, nil, err
	}
	price, err := k.sharePrice(ctx, params, vault)
	if err != nil {
		return sdkmath.Int{}, nil, err
	}
	amount, err := utils.CalculateAmountFromShares(shares, price)
	if err != nil {
		return sdkmath.Int{}, nil, fmt.Errorf("failed to calculate amount from shares: %w", err)
	}

	if shares.Equal(vault.TotalShares) {
		// the last shares own whatever rounding left behind
		amount = vault.TotalAssets()
	}
	if !amount.IsPositive() {
		return sdkmath.Int{}, nil, types.ErrZeroAmount.Wrapf("%s shares are worth nothing at %s", shares, price)
	}
	if err := k.burnShares(ctx, &vault, owner, shares); err != nil {
		return sdkmath.Int{}, nil, err
	}

	staked, liquid, err := k.recordWithdrawal(&vault, amount)
	if err != nil {
		return sdkmath.Int{}, nil, err
	}

	var req *types.WithdrawalRequest
	if staked.IsPositive() {
		nonce, err := k.StakingKeeper.RequestUnbond(ctx, staked)
		if err != nil {
			return sdkmath.Int{}, nil, fmt.Errorf("failed to request unbond: %w", err)
		}
		req = &types.WithdrawalRequest{
			Nonce:    nonce,
			Owner:    owner.String(),
			Receiver: receiver.String(),
			Amount:   staked,
			Epoch:    k.StakingKeeper.CurrentEpoch(ctx),
		}
		if err := k.UnbondRequests.Add(ctx, *req); err != nil {
			return sdkmath.Int{}, nil, err
		}
	}
	if liquid.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(params.BondDenom, liquid))
		if err := k.BankKeeper.SendCoins(ctx, types.ModuleAddress, receiver, coins); err != nil {
			return sdkmath.Int{}, nil, fmt.Errorf("failed to pay out claimed rewards: %w", err)
		}
	}
	if err := k.SetVaultState(ctx, vault); err != nil {
		return sdkmath.Int{}, nil, err
	}

	k.emitEvent(ctx, types.NewEventWithdraw(owner.String(), receiver.String(), amount, shares, req))
	return amount, req, nil
}

// Transfer moves shares between two holders. Balances never go negative.
func (k *Keeper) Transfer(ctx sdk.Context, from, to sdk.AccAddress, shares sdkmath.Int) error {
	return k.atomically(ctx, "transfer", func(ctx sdk.Context) error {
		if shares.IsNil() || !shares.IsPositive() {
			return types.ErrZeroAmount.Wrap("transferred shares must be positive")
		}
		if err := k.requireNotPaused(ctx); err != nil {
			return err
		}
		if err := k.transferShares(ctx, from, to, shares); err != nil {
			return err
		}
		k.emitEvent(ctx, types.NewEventTransfer(from.String(), to.String(), shares))
		return nil
	})
}

func (k Keeper) requireNotPaused(ctx sdk.Context) error {
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return err
	}
	if vault.Paused {
		return types.ErrVaultPaused
	}
	return nil
}
