package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ShareBalance is a single holder's share balance.
type ShareBalance struct {
	Address string      `json:"address"`
	Shares  sdkmath.Int `json:"shares"`
}

// AddressIndex is an ordered list of addresses attached to Address.
type AddressIndex struct {
	Address string   `json:"address"`
	Entries []string `json:"entries"`
}

// GenesisState is the module state at genesis.
type GenesisState struct {
	Params         Params              `json:"params"`
	Vault          VaultState          `json:"vault"`
	Balances       []ShareBalance      `json:"balances"`
	Allocations    []Allocation        `json:"allocations"`
	TotalAllocated []TotalAllocated    `json:"total_allocated"`
	// Recipients lists, per distributor, the recipients in first-allocation order.
	Recipients     []AddressIndex      `json:"recipients"`
	// Distributors lists, per recipient, the distributors in first-allocation order.
	Distributors   []AddressIndex      `json:"distributors"`
	Withdrawals    []WithdrawalRequest `json:"withdrawals"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Vault:  NewVaultState(),
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if err := gs.Vault.Validate(); err != nil {
		return fmt.Errorf("invalid vault state: %w", err)
	}

	total := sdkmath.ZeroInt()
	seen := make(map[string]struct{}, len(gs.Balances))
	for i, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return fmt.Errorf("invalid balance address at index %d: %w", i, err)
		}
		if _, dup := seen[b.Address]; dup {
			return fmt.Errorf("duplicate balance for %s", b.Address)
		}
		seen[b.Address] = struct{}{}
		if b.Shares.IsNil() || !b.Shares.IsPositive() {
			return fmt.Errorf("balance of %s must be positive", b.Address)
		}
		total = total.Add(b.Shares)
	}
	if !total.Equal(gs.Vault.TotalShares) {
		return fmt.Errorf("sum of balances %s does not match total shares %s", total, gs.Vault.TotalShares)
	}

	pairs := make(map[string]struct{}, len(gs.Allocations))
	for i, a := range gs.Allocations {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid allocation at index %d: %w", i, err)
		}
		key := a.Distributor + "/" + a.Recipient
		if _, dup := pairs[key]; dup {
			return fmt.Errorf("duplicate allocation %s", key)
		}
		pairs[key] = struct{}{}
	}

	totals := make(map[string]struct{}, len(gs.TotalAllocated))
	for i, t := range gs.TotalAllocated {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid total allocated at index %d: %w", i, err)
		}
		if _, dup := totals[t.Distributor]; dup {
			return fmt.Errorf("duplicate total allocated for %s", t.Distributor)
		}
		totals[t.Distributor] = struct{}{}
	}

	if err := validateIndex("recipients", gs.Recipients, func(owner, entry string) string { return owner + "/" + entry }, pairs); err != nil {
		return err
	}
	if err := validateIndex("distributors", gs.Distributors, func(owner, entry string) string { return entry + "/" + owner }, pairs); err != nil {
		return err
	}

	nonces := make(map[uint64]struct{}, len(gs.Withdrawals))
	for i, w := range gs.Withdrawals {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("invalid withdrawal at index %d: %w", i, err)
		}
		if _, dup := nonces[w.Nonce]; dup {
			return fmt.Errorf("duplicate withdrawal nonce %d", w.Nonce)
		}
		nonces[w.Nonce] = struct{}{}
	}
	return nil
}

// validateIndex checks that every index entry is unique and refers to a known allocation pair.
func validateIndex(name string, index []AddressIndex, pairKey func(owner, entry string) string, pairs map[string]struct{}) error {
	owners := make(map[string]struct{}, len(index))
	for _, idx := range index {
		if _, dup := owners[idx.Address]; dup {
			return fmt.Errorf("duplicate %s index for %s", name, idx.Address)
		}
		owners[idx.Address] = struct{}{}
		entries := make(map[string]struct{}, len(idx.Entries))
		for _, e := range idx.Entries {
			if _, dup := entries[e]; dup {
				return fmt.Errorf("duplicate entry %s in %s index of %s", e, name, idx.Address)
			}
			entries[e] = struct{}{}
			if _, ok := pairs[pairKey(idx.Address, e)]; !ok {
				return fmt.Errorf("%s index of %s references %s without an allocation", name, idx.Address, e)
			}
		}
	}
	return nil
}
