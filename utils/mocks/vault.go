package mocks

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/core/header"
	storetypes "cosmossdk.io/store/types"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/provlabs/stakevault/keeper"
	"github.com/provlabs/stakevault/types"
)

// Keepers bundles the mocked dependencies of a vault keeper.
type Keepers struct {
	Staking   *StakingKeeper
	Bank      *BankKeeper
	Whitelist *WhitelistKeeper
	Authority sdk.AccAddress
}

// NewVaultKeeper returns an instance of the Keeper with all dependencies mocked.
// The mocks share the vault's store so a reverted operation reverts them too.
func NewVaultKeeper(
	t testing.TB,
) (sdk.Context, *keeper.Keeper, *Keepers) {
	key := storetypes.NewKVStoreKey(types.ModuleName)
	tkey := storetypes.NewTransientStoreKey(fmt.Sprintf("transient_%s", types.ModuleName))
	wrapper := testutil.DefaultContextWithDB(t, key, tkey)
	storeService := runtime.NewKVStoreService(key)

	bank := NewBankKeeper(storeService)
	mocks := &Keepers{
		Staking:   NewStakingKeeper(storeService, bank, types.DefaultBondDenom),
		Bank:      bank,
		Whitelist: NewWhitelistKeeper(),
		Authority: authtypes.NewModuleAddress(govtypes.ModuleName),
	}

	k := keeper.NewKeeper(
		storeService,
		runtime.ProvideEventService(),
		addresscodec.NewBech32Codec("cosmos"),
		mocks.Authority,
		mocks.Staking,
		mocks.Whitelist,
		mocks.Bank,
	)

	ctx := wrapper.Ctx.WithHeaderInfo(header.Info{Time: time.Now().UTC()})
	return ctx, k, mocks
}
