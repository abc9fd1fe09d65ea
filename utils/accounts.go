package utils

import (
	"github.com/cometbft/cometbft/crypto/secp256k1"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Address is a freshly generated test account.
type Address struct {
	Bytes  []byte
	Bech32 string
}

// AccAddress returns the address as an sdk.AccAddress.
func (a Address) AccAddress() sdk.AccAddress {
	return sdk.AccAddress(a.Bytes)
}

// TestAddress generates a random account address with the cosmos prefix.
func TestAddress() Address {
	key := secp256k1.GenPrivKey()
	bytes := key.PubKey().Address().Bytes()

	return Address{
		Bytes:  bytes,
		Bech32: generateAddress("cosmos", bytes),
	}
}

// TestAccAddresses generates n distinct random account addresses.
func TestAccAddresses(n int) []sdk.AccAddress {
	addrs := make([]sdk.AccAddress, n)
	for i := range addrs {
		addrs[i] = TestAddress().AccAddress()
	}
	return addrs
}

func generateAddress(prefix string, bytes []byte) string {
	address, err := sdk.Bech32ifyAddressBytes(prefix, bytes)
	if err != nil {
		panic("error during test address creation")
	}
	return address
}
