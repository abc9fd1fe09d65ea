package mocks

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

var bankBalancesPrefix = collections.NewPrefix(0xB0)

// BankKeeper is a store-backed bank that only knows about balances, so its
// state is rolled back together with the vault's on a failed operation.
type BankKeeper struct {
	Balances collections.Map[collections.Pair[sdk.AccAddress, string], sdkmath.Int]
}

// NewBankKeeper creates a BankKeeper writing to storeService.
func NewBankKeeper(storeService store.KVStoreService) *BankKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	b := &BankKeeper{
		Balances: collections.NewMap(sb, bankBalancesPrefix, "mock_bank_balances",
			collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey), sdk.IntValue),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return b
}

// GetBalance returns the balance of addr in denom.
func (b *BankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amt, err := b.Balances.Get(ctx, collections.Join(addr, denom))
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			panic(err)
		}
		amt = sdkmath.ZeroInt()
	}
	return sdk.NewCoin(denom, amt)
}

// SendCoins moves amt from fromAddr to toAddr.
func (b *BankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		have := b.GetBalance(ctx, fromAddr, coin.Denom)
		if have.Amount.LT(coin.Amount) {
			return sdkerrors.ErrInsufficientFunds.Wrapf("spendable balance %s is smaller than %s", have, coin)
		}
	}
	for _, coin := range amt {
		if err := b.add(ctx, fromAddr, coin.Denom, coin.Amount.Neg()); err != nil {
			return err
		}
		if err := b.add(ctx, toAddr, coin.Denom, coin.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Mint credits addr with amt out of thin air.
func (b *BankKeeper) Mint(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		if err := b.add(ctx, addr, coin.Denom, coin.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (b *BankKeeper) add(ctx context.Context, addr sdk.AccAddress, denom string, delta sdkmath.Int) error {
	bal := b.GetBalance(ctx, addr, denom).Amount.Add(delta)
	if bal.IsZero() {
		return b.Balances.Remove(ctx, collections.Join(addr, denom))
	}
	return b.Balances.Set(ctx, collections.Join(addr, denom), bal)
}
