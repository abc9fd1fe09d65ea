package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// WithdrawalRequest tracks underlying assets waiting on an unbond in the staking module.
type WithdrawalRequest struct {
	// Nonce is the identifier the staking module assigned to the unbond.
	Nonce uint64 `json:"nonce"`
	// Owner may claim the request once it matures.
	Owner string `json:"owner"`
	// Receiver is paid the unbonded assets.
	Receiver string      `json:"receiver"`
	Amount   sdkmath.Int `json:"amount"`
	// Epoch is the staking epoch in which the unbond was requested.
	Epoch uint64 `json:"epoch"`
}

// Validate performs basic validation on the request.
func (w WithdrawalRequest) Validate() error {
	if _, err := sdk.AccAddressFromBech32(w.Owner); err != nil {
		return fmt.Errorf("invalid owner address: %w", err)
	}
	if _, err := sdk.AccAddressFromBech32(w.Receiver); err != nil {
		return fmt.Errorf("invalid receiver address: %w", err)
	}
	if w.Amount.IsNil() || !w.Amount.IsPositive() {
		return fmt.Errorf("withdrawal amount must be positive")
	}
	return nil
}
