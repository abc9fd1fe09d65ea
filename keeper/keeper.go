package keeper

import (
	"bytes"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/queue"
	"github.com/provlabs/stakevault/types"
)

type Keeper struct {
	schema       collections.Schema
	eventService event.Service
	addressCodec address.Codec
	authority    []byte

	StakingKeeper   types.StakingKeeper
	WhitelistKeeper types.WhitelistKeeper
	BankKeeper      types.BankKeeper

	Params collections.Item[types.Params]
	Vault  collections.Item[types.VaultState]
	// Balances holds share balances. Zero balances are removed.
	Balances       collections.Map[sdk.AccAddress, sdkmath.Int]
	Allocations    collections.Map[collections.Pair[sdk.AccAddress, sdk.AccAddress], types.Allocation]
	TotalAllocated collections.Map[sdk.AccAddress, types.TotalAllocated]

	// RecipientIndex orders the recipients of each distributor by first allocation.
	RecipientIndex collections.KeySet[collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]]
	RecipientCount collections.Map[sdk.AccAddress, uint64]
	// DistributorIndex orders the distributors of each recipient by first allocation.
	DistributorIndex collections.KeySet[collections.Triple[sdk.AccAddress, uint64, sdk.AccAddress]]
	DistributorCount collections.Map[sdk.AccAddress, uint64]

	UnbondRequests *queue.UnbondRequests
}

func NewKeeper(
	storeService store.KVStoreService,
	eventService event.Service,
	addressCodec address.Codec,
	authority []byte,
	stakingKeeper types.StakingKeeper,
	whitelistKeeper types.WhitelistKeeper,
	bankKeeper types.BankKeeper,
) *Keeper {
	if _, err := addressCodec.BytesToString(authority); err != nil {
		panic(fmt.Sprintf("invalid authority address %s: %s", authority, err))
	}

	builder := collections.NewSchemaBuilder(storeService)
	indexKey := collections.TripleKeyCodec(sdk.AccAddressKey, collections.Uint64Key, sdk.AccAddressKey)

	keeper := &Keeper{
		eventService:    eventService,
		addressCodec:    addressCodec,
		authority:       authority,
		StakingKeeper:   stakingKeeper,
		WhitelistKeeper: whitelistKeeper,
		BankKeeper:      bankKeeper,

		Params: collections.NewItem(builder, types.ParamsKeyPrefix, types.ParamsName, types.ParamsValueCodec),
		Vault:  collections.NewItem(builder, types.VaultStateKeyPrefix, types.VaultStateName, types.VaultStateValueCodec),
		Balances: collections.NewMap(builder, types.BalancesKeyPrefix, types.BalancesName,
			sdk.AccAddressKey, sdk.IntValue),
		Allocations: collections.NewMap(builder, types.AllocationsKeyPrefix, types.AllocationsName,
			collections.PairKeyCodec(sdk.AccAddressKey, sdk.AccAddressKey), types.AllocationValueCodec),
		TotalAllocated: collections.NewMap(builder, types.TotalAllocatedKeyPrefix, types.TotalAllocatedName,
			sdk.AccAddressKey, types.TotalAllocatedValueCodec),

		RecipientIndex:   collections.NewKeySet(builder, types.RecipientIndexKeyPrefix, types.RecipientIndexName, indexKey),
		RecipientCount:   collections.NewMap(builder, types.RecipientCountKeyPrefix, types.RecipientCountName, sdk.AccAddressKey, collections.Uint64Value),
		DistributorIndex: collections.NewKeySet(builder, types.DistributorIndexKeyPrefix, types.DistributorIndexName, indexKey),
		DistributorCount: collections.NewMap(builder, types.DistributorCountKeyPrefix, types.DistributorCountName, sdk.AccAddressKey, collections.Uint64Value),

		UnbondRequests: queue.NewUnbondRequests(builder),
	}

	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}

	keeper.schema = schema
	return keeper
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() []byte {
	return k.authority
}

// validateAuthority returns ErrUnauthorized unless addr is the module authority.
func (k Keeper) validateAuthority(addr sdk.AccAddress) error {
	if !bytes.Equal(addr, k.authority) {
		expected, _ := k.addressCodec.BytesToString(k.authority)
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", expected, addr)
	}
	return nil
}

// getLogger returns a logger with vault module context.
func (k Keeper) getLogger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// emitEvent emits ev through the event service. Event emission never fails the operation.
func (k Keeper) emitEvent(ctx sdk.Context, ev sdk.Event) {
	attrs := make([]event.Attribute, 0, len(ev.Attributes))
	for _, a := range ev.Attributes {
		attrs = append(attrs, event.Attribute{Key: a.Key, Value: a.Value})
	}
	if err := k.eventService.EventManager(ctx).EmitKV(ctx, ev.Type, attrs...); err != nil {
		k.getLogger(ctx).Error("failed to emit event", "type", ev.Type, "error", err)
	}
}
