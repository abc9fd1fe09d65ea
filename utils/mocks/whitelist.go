package mocks

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// WhitelistKeeper admits the addresses added to it, or everyone when AllowAll is set.
type WhitelistKeeper struct {
	AllowAll bool
	allowed  map[string]bool
}

// NewWhitelistKeeper creates an empty WhitelistKeeper.
func NewWhitelistKeeper() *WhitelistKeeper {
	return &WhitelistKeeper{allowed: make(map[string]bool)}
}

// Allow whitelists addrs.
func (w *WhitelistKeeper) Allow(addrs ...sdk.AccAddress) {
	for _, addr := range addrs {
		w.allowed[addr.String()] = true
	}
}

// Revoke removes addr from the whitelist.
func (w *WhitelistKeeper) Revoke(addr sdk.AccAddress) {
	delete(w.allowed, addr.String())
}

func (w *WhitelistKeeper) IsWhitelisted(_ context.Context, addr sdk.AccAddress) bool {
	return w.AllowAll || w.allowed[addr.String()]
}
