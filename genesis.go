package stakevault

import (
	"cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/keeper"
	"github.com/provlabs/stakevault/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func InitGenesis(ctx sdk.Context, k *keeper.Keeper, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return errors.Wrap(err, "invalid genesis state")
	}
	k.InitGenesis(ctx, &genState)
	return nil
}

// ExportGenesis returns the module's exported genesis.
func ExportGenesis(ctx sdk.Context, k *keeper.Keeper) *types.GenesisState {
	return k.ExportGenesis(ctx)
}
