package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

// Allocate designates that recipient earns the reward growth on amount worth
// of distributor's stake from now on.
//
// The allocation is not a reservation of principal. A distributor may allocate
// more than it holds, across any number of calls, and bears the risk when a
// later distribution cannot be covered. It is only rejected when:
//   - amount is below the minimum allocation
//   - the distributor holds no shares at all
//   - StrictAllocation is enabled and amount alone exceeds what the
//     distributor's shares are worth
//
// Repeated allocations to the same pair merge into a share-weighted average
// entry price, and the distributor's aggregate is updated the same way.
func (k *Keeper) Allocate(ctx sdk.Context, distributor, recipient sdk.AccAddress, amount sdkmath.Int) (types.Allocation, error) {
	var alloc types.Allocation
	err := k.atomically(ctx, "allocate", func(ctx sdk.Context) error {
		var err error
		alloc, err = k.allocate(ctx, distributor, recipient, amount)
		return err
	})
	return alloc, err
}

func (k *Keeper) allocate(ctx sdk.Context, distributor, recipient sdk.AccAddress, amount sdkmath.Int) (types.Allocation, error) {
	if err := requireAddresses(distributor, recipient); err != nil {
		return types.Allocation{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Allocation{}, err
	}
	if amount.IsNil() || amount.LT(params.MinAllocation) {
		return types.Allocation{}, types.ErrAllocationBelowMinimum.Wrapf("minimum allocation is %s", params.MinAllocation)
	}
	if err := k.requireNotPaused(ctx); err != nil {
		return types.Allocation{}, err
	}
	bal, err := k.BalanceOf(ctx, distributor)
	if err != nil {
		return types.Allocation{}, err
	}
	if bal.IsZero() {
		return types.Allocation{}, types.ErrInsufficientDistributorBalance.Wrapf("%s holds no shares", distributor)
	}

	if _, err := k.sweepRewards(ctx); err != nil {
		return types.Allocation{}, fmt.Errorf("failed to sweep rewards: %w", err)
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		return types.Allocation{}, err
	}
	price, err := k.sharePrice(ctx, params, vault)
	if err != nil {
		return types.Allocation{}, err
	}

	if params.StrictAllocation {
		held, err := utils.CalculateAmountFromShares(bal, price)
		if err != nil {
			return types.Allocation{}, err
		}
		if amount.GT(held) {
			return types.Allocation{}, types.ErrInsufficientDistributorBalance.Wrapf(
				"allocation of %s exceeds the %s held by %s", amount, held, distributor)
		}
	}

	pair := collections.Join(distributor, recipient)
	existing, err := k.Allocations.Get(ctx, pair)
	isNew := errors.Is(err, collections.ErrNotFound)
	if err != nil && !isNew {
		return types.Allocation{}, err
	}
	if isNew {
		existing = types.NewAllocation(distributor, recipient, sdkmath.ZeroInt(), price)
	}

	alloc := existing
	alloc.SharePrice, err = utils.CalculateWeightedAveragePrice(existing.Principal, existing.SharePrice, amount, price)
	if err != nil {
		return types.Allocation{}, fmt.Errorf("failed to merge allocation: %w", err)
	}
	alloc.Principal = existing.Principal.Add(amount)
	if err := k.Allocations.Set(ctx, pair, alloc); err != nil {
		return types.Allocation{}, err
	}

	total, err := k.getTotalAllocated(ctx, distributor)
	if err != nil {
		return types.Allocation{}, err
	}
	if total == nil {
		total = &types.TotalAllocated{Distributor: distributor.String(), Principal: sdkmath.ZeroInt(), SharePrice: price}
	}
	total.SharePrice, err = utils.CalculateWeightedAveragePrice(total.Principal, total.SharePrice, amount, price)
	if err != nil {
		return types.Allocation{}, fmt.Errorf("failed to merge total allocated: %w", err)
	}
	total.Principal = total.Principal.Add(amount)
	if err := k.TotalAllocated.Set(ctx, distributor, *total); err != nil {
		return types.Allocation{}, err
	}

	if isNew {
		if err := k.appendIndex(ctx, k.RecipientIndex, k.RecipientCount, distributor, recipient); err != nil {
			return types.Allocation{}, err
		}
		if err := k.appendIndex(ctx, k.DistributorIndex, k.DistributorCount, recipient, distributor); err != nil {
			return types.Allocation{}, err
		}
	}

	k.getLogger(ctx).Debug("allocated",
		"distributor", alloc.Distributor,
		"recipient", alloc.Recipient,
		"amount", amount.String(),
		"principal", alloc.Principal.String(),
		"share_price", alloc.SharePrice.String(),
	)
	k.emitEvent(ctx, types.NewEventAllocate(alloc, amount))
	return alloc, nil
}

// appendIndex appends entry to the ordered list kept under owner.
func (k Keeper) appendIndex(
	ctx context.Context,
	index collections.KeySet[collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]],
	counts collections.Map[sdk.AccAddress, uint64],
	owner, entry sdk.AccAddress,
) error {
	seq, err := counts.Get(ctx, owner)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	if err := index.Set(ctx, collections.Join3(owner, seq, entry)); err != nil {
		return err
	}
	return counts.Set(ctx, owner, seq+1)
}

// walkIndex returns the entries kept under owner in insertion order.
func (k Keeper) walkIndex(
	ctx context.Context,
	index collections.KeySet[collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]],
	owner sdk.AccAddress,
) ([]sdk.AccAddress, error) {
	entries := []sdk.AccAddress{}
	rng := collections.NewPrefixedTripleRange[sdk.AccAddress, uint64, sdk.AccAddress](owner)
	err := index.Walk(ctx, rng, func(key collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]) (bool, error) {
		entries = append(entries, key.K3())
		return false, nil
	})
	return entries, err
}

// GetAllocation returns the allocation from distributor to recipient, or nil if none was ever made.
func (k Keeper) GetAllocation(ctx context.Context, distributor, recipient sdk.AccAddress) (*types.Allocation, error) {
	if err := requireAddresses(distributor, recipient); err != nil {
		return nil, err
	}
	alloc, err := k.Allocations.Get(ctx, collections.Join(distributor, recipient))
	if errors.Is(err, collections.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

// GetTotalAllocated returns the aggregate of distributor's allocations, or nil if it never allocated.
func (k Keeper) GetTotalAllocated(ctx context.Context, distributor sdk.AccAddress) (*types.TotalAllocated, error) {
	if err := requireAddresses(distributor); err != nil {
		return nil, err
	}
	return k.getTotalAllocated(ctx, distributor)
}

func (k Keeper) getTotalAllocated(ctx context.Context, distributor sdk.AccAddress) (*types.TotalAllocated, error) {
	total, err := k.TotalAllocated.Get(ctx, distributor)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &total, nil
}

// GetRecipients returns the recipients of distributor in first-allocation order.
func (k Keeper) GetRecipients(ctx context.Context, distributor sdk.AccAddress) ([]sdk.AccAddress, error) {
	if err := requireAddresses(distributor); err != nil {
		return nil, err
	}
	return k.walkIndex(ctx, k.RecipientIndex, distributor)
}

// GetDistributors returns the distributors of recipient in first-allocation order.
func (k Keeper) GetDistributors(ctx context.Context, recipient sdk.AccAddress) ([]sdk.AccAddress, error) {
	if err := requireAddresses(recipient); err != nil {
		return nil, err
	}
	return k.walkIndex(ctx, k.DistributorIndex, recipient)
}

func requireAddresses(addrs ...sdk.AccAddress) error {
	for _, addr := range addrs {
		if err := sdk.VerifyAddressFormat(addr); err != nil {
			return types.ErrInvalidRequest.Wrapf("invalid address: %s", err)
		}
	}
	return nil
}
