package keeper

import (
	"fmt"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// InitGenesis initializes the vault module state from genesis.
func (k Keeper) InitGenesis(ctx sdk.Context, genState *types.GenesisState) {
	if genState == nil {
		return
	}

	if err := genState.Validate(); err != nil {
		panic(fmt.Errorf("invalid vault genesis state: %w", err))
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(err)
	}
	if err := k.SetVaultState(ctx, genState.Vault); err != nil {
		panic(err)
	}

	for _, b := range genState.Balances {
		if err := k.setBalance(ctx, sdk.MustAccAddressFromBech32(b.Address), b.Shares); err != nil {
			panic(fmt.Errorf("failed to store balance of %s: %w", b.Address, err))
		}
	}

	for _, a := range genState.Allocations {
		key := collections.Join(sdk.MustAccAddressFromBech32(a.Distributor), sdk.MustAccAddressFromBech32(a.Recipient))
		if err := k.Allocations.Set(ctx, key, a); err != nil {
			panic(fmt.Errorf("failed to store allocation %s/%s: %w", a.Distributor, a.Recipient, err))
		}
	}

	for _, t := range genState.TotalAllocated {
		if err := k.TotalAllocated.Set(ctx, sdk.MustAccAddressFromBech32(t.Distributor), t); err != nil {
			panic(fmt.Errorf("failed to store total allocated of %s: %w", t.Distributor, err))
		}
	}

	for _, idx := range genState.Recipients {
		k.importIndex(ctx, k.RecipientIndex, k.RecipientCount, idx)
	}
	for _, idx := range genState.Distributors {
		k.importIndex(ctx, k.DistributorIndex, k.DistributorCount, idx)
	}

	if err := k.UnbondRequests.Import(ctx, genState.Withdrawals); err != nil {
		panic(err)
	}
}

func (k Keeper) importIndex(
	ctx sdk.Context,
	index collections.KeySet[collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]],
	counts collections.Map[sdk.AccAddress, uint64],
	idx types.AddressIndex,
) {
	owner := sdk.MustAccAddressFromBech32(idx.Address)
	for _, entry := range idx.Entries {
		if err := k.appendIndex(ctx, index, counts, owner, sdk.MustAccAddressFromBech32(entry)); err != nil {
			panic(fmt.Errorf("failed to import index entry %s of %s: %w", entry, idx.Address, err))
		}
	}
}

// ExportGenesis exports the current state of the vault module.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get vault module params: %w", err))
	}
	vault, err := k.GetVaultState(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get vault state: %w", err))
	}
	balances, err := k.GetBalances(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to export balances: %w", err))
	}

	var allocations []types.Allocation
	err = k.Allocations.Walk(ctx, nil, func(_ collections.Pair[sdk.AccAddress, sdk.AccAddress], a types.Allocation) (bool, error) {
		allocations = append(allocations, a)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export allocations: %w", err))
	}

	var totals []types.TotalAllocated
	err = k.TotalAllocated.Walk(ctx, nil, func(_ sdk.AccAddress, t types.TotalAllocated) (bool, error) {
		totals = append(totals, t)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export total allocated: %w", err))
	}

	recipients, err := k.exportIndex(ctx, k.RecipientIndex, k.RecipientCount)
	if err != nil {
		panic(fmt.Errorf("failed to export recipient index: %w", err))
	}
	distributors, err := k.exportIndex(ctx, k.DistributorIndex, k.DistributorCount)
	if err != nil {
		panic(fmt.Errorf("failed to export distributor index: %w", err))
	}

	withdrawals, err := k.UnbondRequests.Export(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to export withdrawals: %w", err))
	}

	return &types.GenesisState{
		Params:         params,
		Vault:          vault,
		Balances:       balances,
		Allocations:    allocations,
		TotalAllocated: totals,
		Recipients:     recipients,
		Distributors:   distributors,
		Withdrawals:    withdrawals,
	}
}

// exportIndex lists every owner of an index with its entries in insertion order.
func (k Keeper) exportIndex(
	ctx sdk.Context,
	index collections.KeySet[collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]],
	counts collections.Map[sdk.AccAddress, uint64],
) ([]types.AddressIndex, error) {
	var owners []sdk.AccAddress
	err := counts.Walk(ctx, nil, func(owner sdk.AccAddress, _ uint64) (bool, error) {
		owners = append(owners, owner)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]types.AddressIndex, 0, len(owners))
	for _, owner := range owners {
		entries, err := k.walkIndex(ctx, index, owner)
		if err != nil {
			return nil, err
		}
		idx := types.AddressIndex{Address: owner.String(), Entries: make([]string, len(entries))}
		for i, entry := range entries {
			idx.Entries[i] = entry.String()
		}
		out = append(out, idx)
	}
	return out, nil
}
