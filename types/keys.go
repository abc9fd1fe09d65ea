package types

import (
	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "stakevault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// GovModuleName duplicates the gov module's name to avoid a dependency with x/gov.
	// It should be synced with the gov module's name if it is ever changed.
	// See: https://github.com/cosmos/cosmos-sdk/blob/v0.52.0-beta.2/x/gov/types/keys.go#L9
	GovModuleName = "gov"
)

var (
	// ParamsKeyPrefix is the prefix to retrieve the module Params
	ParamsKeyPrefix = collections.NewPrefix(0)
	// ParamsName is a human-readable name for the params collection.
	ParamsName = "params"

	// VaultStateKeyPrefix is the prefix to retrieve the aggregate VaultState
	VaultStateKeyPrefix = collections.NewPrefix(1)
	// VaultStateName is a human-readable name for the vault state collection.
	VaultStateName = "vault_state"

	// BalancesKeyPrefix is the prefix for share balances keyed by holder address
	BalancesKeyPrefix = collections.NewPrefix(2)
	// BalancesName is a human-readable name for the share balances collection.
	BalancesName = "balances"

	// AllocationsKeyPrefix is the prefix for allocations keyed by (distributor, recipient)
	AllocationsKeyPrefix = collections.NewPrefix(3)
	// AllocationsName is a human-readable name for the allocations collection.
	AllocationsName = "allocations"

	// TotalAllocatedKeyPrefix is the prefix for per-distributor allocation aggregates
	TotalAllocatedKeyPrefix = collections.NewPrefix(4)
	// TotalAllocatedName is a human-readable name for the total allocated collection.
	TotalAllocatedName = "total_allocated"

	// RecipientIndexKeyPrefix is the prefix for the ordered recipients of a distributor
	RecipientIndexKeyPrefix = collections.NewPrefix(5)
	// RecipientIndexName is a human-readable name for the recipient index.
	RecipientIndexName = "recipient_index"
	// RecipientCountKeyPrefix is the prefix for the number of recipients of a distributor
	RecipientCountKeyPrefix = collections.NewPrefix(6)
	// RecipientCountName is a human-readable name for the recipient counters.
	RecipientCountName = "recipient_count"

	// DistributorIndexKeyPrefix is the prefix for the ordered distributors of a recipient
	DistributorIndexKeyPrefix = collections.NewPrefix(7)
	// DistributorIndexName is a human-readable name for the distributor index.
	DistributorIndexName = "distributor_index"
	// DistributorCountKeyPrefix is the prefix for the number of distributors of a recipient
	DistributorCountKeyPrefix = collections.NewPrefix(8)
	// DistributorCountName is a human-readable name for the distributor counters.
	DistributorCountName = "distributor_count"

	// UnbondRequestsKeyPrefix is the prefix for pending unbond requests keyed by nonce
	UnbondRequestsKeyPrefix = collections.NewPrefix(9)
	// UnbondRequestsName is a human-readable name for the unbond requests collection.
	UnbondRequestsName = "unbond_requests"
	// UnbondRequestsByOwnerIndexPrefix is the prefix for the owner index of unbond requests
	UnbondRequestsByOwnerIndexPrefix = collections.NewPrefix(10)
	// UnbondRequestsByOwnerIndexName is a human-readable name for the owner index.
	UnbondRequestsByOwnerIndexName = "unbond_requests_by_owner"
)

// ModuleAddress is the account that custodies underlying assets held liquid by the vault.
var ModuleAddress = authtypes.NewModuleAddress(ModuleName)

// GetModuleAddress returns the vault module account address.
func GetModuleAddress() sdk.AccAddress {
	return ModuleAddress
}
