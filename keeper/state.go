package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// GetParams returns the module params, or the defaults if none were stored.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultParams(), nil
	}
	return params, err
}

// SetParams validates and stores the module params.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrInvalidRequest.Wrapf("invalid params: %s", err)
	}
	return k.Params.Set(ctx, params)
}

// GetVaultState returns the vault totals, or an empty vault if none were stored.
func (k Keeper) GetVaultState(ctx context.Context) (types.VaultState, error) {
	vault, err := k.Vault.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewVaultState(), nil
	}
	return vault, err
}

// SetVaultState validates and stores the vault totals.
func (k Keeper) SetVaultState(ctx context.Context, vault types.VaultState) error {
	if err := vault.Validate(); err != nil {
		return fmt.Errorf("invalid vault state: %w", err)
	}
	return k.Vault.Set(ctx, vault)
}

// BalanceOf returns the share balance of addr. Unknown holders have a zero balance.
func (k Keeper) BalanceOf(ctx context.Context, addr sdk.AccAddress) (sdkmath.Int, error) {
	bal, err := k.Balances.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt(), nil
	}
	return bal, err
}

// TotalShares returns the number of outstanding shares.
func (k Keeper) TotalShares(ctx context.Context) (sdkmath.Int, error) {
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return vault.TotalShares, nil
}

// setBalance stores a share balance, removing the entry once it reaches zero.
func (k Keeper) setBalance(ctx context.Context, addr sdk.AccAddress, bal sdkmath.Int) error {
	if bal.IsZero() {
		return k.Balances.Remove(ctx, addr)
	}
	return k.Balances.Set(ctx, addr, bal)
}

// mintShares credits addr with new shares and adds them to the vault total.
func (k Keeper) mintShares(ctx context.Context, vault *types.VaultState, addr sdk.AccAddress, shares sdkmath.Int) error {
	if shares.IsZero() {
		return nil
	}
	bal, err := k.BalanceOf(ctx, addr)
	if err != nil {
		return err
	}
	if err := k.setBalance(ctx, addr, bal.Add(shares)); err != nil {
		return err
	}
	vault.TotalShares = vault.TotalShares.Add(shares)
	return nil
}

// burnShares debits shares from addr and removes them from the vault total.
func (k Keeper) burnShares(ctx context.Context, vault *types.VaultState, addr sdk.AccAddress, shares sdkmath.Int) error {
	if err := k.debit(ctx, addr, shares); err != nil {
		return err
	}
	vault.TotalShares = vault.TotalShares.Sub(shares)
	return nil
}

// transferShares moves shares between two holders. Total shares are unchanged.
func (k Keeper) transferShares(ctx context.Context, from, to sdk.AccAddress, shares sdkmath.Int) error {
	if shares.IsZero() {
		return nil
	}
	if err := k.debit(ctx, from, shares); err != nil {
		return err
	}
	bal, err := k.BalanceOf(ctx, to)
	if err != nil {
		return err
	}
	return k.setBalance(ctx, to, bal.Add(shares))
}

func (k Keeper) debit(ctx context.Context, addr sdk.AccAddress, shares sdkmath.Int) error {
	bal, err := k.BalanceOf(ctx, addr)
	if err != nil {
		return err
	}
	if bal.LT(shares) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s shares, needs %s", addr, bal, shares)
	}
	return k.setBalance(ctx, addr, bal.Sub(shares))
}

// GetBalances returns every non-zero share balance in address order.
func (k Keeper) GetBalances(ctx context.Context) ([]types.ShareBalance, error) {
	balances := []types.ShareBalance{}
	err := k.Balances.Walk(ctx, nil, func(addr sdk.AccAddress, shares sdkmath.Int) (stop bool, err error) {
		balances = append(balances, types.ShareBalance{Address: addr.String(), Shares: shares})
		return false, nil
	})
	return balances, err
}
