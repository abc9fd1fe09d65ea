package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// UpdateParams replaces the module params. Only the module authority may call it.
//
// Rewards accrued so far are swept first, so they are charged at the fee in
// effect while they accrued.
func (k *Keeper) UpdateParams(ctx sdk.Context, authority sdk.AccAddress, params types.Params) error {
	return k.updateParams(ctx, "update params", authority, func(p *types.Params) error {
		*p = params
		return nil
	})
}

// SetMinDeposit updates the minimum accepted deposit.
func (k *Keeper) SetMinDeposit(ctx sdk.Context, authority sdk.AccAddress, minDeposit sdkmath.Int) error {
	return k.updateParams(ctx, "set min deposit", authority, func(p *types.Params) error {
		p.MinDeposit = minDeposit
		return nil
	})
}

// SetFee updates the protocol fee charged on swept rewards.
func (k *Keeper) SetFee(ctx sdk.Context, authority sdk.AccAddress, feeBps uint64) error {
	return k.updateParams(ctx, "set fee", authority, func(p *types.Params) error {
		p.FeeBps = feeBps
		return nil
	})
}

// SetDistFee updates the fee charged on distributed reward shares.
func (k *Keeper) SetDistFee(ctx sdk.Context, authority sdk.AccAddress, distFeeBps uint64) error {
	return k.updateParams(ctx, "set distribution fee", authority, func(p *types.Params) error {
		p.DistFeeBps = distFeeBps
		return nil
	})
}

// SetTreasury updates the account credited with fee shares.
func (k *Keeper) SetTreasury(ctx sdk.Context, authority, treasury sdk.AccAddress) error {
	return k.updateParams(ctx, "set treasury", authority, func(p *types.Params) error {
		if err := sdk.VerifyAddressFormat(treasury); err != nil {
			return types.ErrInvalidRequest.Wrapf("invalid treasury: %s", err)
		}
		p.Treasury = treasury.String()
		return nil
	})
}

func (k *Keeper) updateParams(ctx sdk.Context, op string, authority sdk.AccAddress, update func(p *types.Params) error) error {
	return k.atomically(ctx, op, func(ctx sdk.Context) error {
		if err := k.validateAuthority(authority); err != nil {
			return err
		}
		if _, err := k.sweepRewards(ctx); err != nil {
			return fmt.Errorf("failed to sweep rewards: %w", err)
		}
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := update(&params); err != nil {
			return err
		}
		if err := k.SetParams(ctx, params); err != nil {
			return err
		}

		k.getLogger(ctx).Info("updated params", "op", op, "authority", authority.String())
		k.emitEvent(ctx, types.NewEventParamsUpdated(authority.String()))
		return nil
	})
}

// SetPaused pauses or resumes the vault.
func (k *Keeper) SetPaused(ctx sdk.Context, authority sdk.AccAddress, paused bool) error {
	return k.atomically(ctx, "set paused", func(ctx sdk.Context) error {
		if err := k.validateAuthority(authority); err != nil {
			return err
		}
		vault, err := k.GetVaultState(ctx)
		if err != nil {
			return err
		}
		vault.Paused = paused
		if err := k.SetVaultState(ctx, vault); err != nil {
			return err
		}

		k.getLogger(ctx).Info("vault pause toggled", "paused", paused, "authority", authority.String())
		k.emitEvent(ctx, types.NewEventVaultPausedToggled(authority.String(), paused))
		return nil
	})
}
