package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// MaxMaturedWithdrawalsPerBlock bounds the number of unbond requests paid out by a single EndBlocker.
const MaxMaturedWithdrawalsPerBlock = 100

// ProcessMaturedWithdrawals pays out unbond requests whose claim has matured
// in the staking module, oldest nonce first, so receivers are paid without
// having to call WithdrawClaim themselves. The walk stops at the first
// request that is not mature yet.
//
// Each request is paid atomically on its own. A request that fails to pay is
// logged and left in the store to be retried by a later block or claimed
// manually. An error is only returned when the store walk itself fails.
func (k *Keeper) ProcessMaturedWithdrawals(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	var matured []types.WithdrawalRequest
	err := k.UnbondRequests.Walk(ctx, func(nonce uint64, req types.WithdrawalRequest) (stop bool, err error) {
		// nonces mature in the order they were issued
		if !k.StakingKeeper.IsClaimMature(ctx, nonce) {
			return true, nil
		}
		matured = append(matured, req)
		return len(matured) >= MaxMaturedWithdrawalsPerBlock, nil
	})
	if err != nil {
		k.getLogger(sdkCtx).Error("error during unbond request walk", "error", err)
		return err
	}

	for _, req := range matured {
		err := k.atomically(sdkCtx, "process matured withdrawal", func(ctx sdk.Context) error {
			_, err := k.payClaim(ctx, req)
			return err
		})
		if err != nil {
			k.getLogger(sdkCtx).Error("failed to pay matured withdrawal",
				"nonce", req.Nonce,
				"receiver", req.Receiver,
				"error", err,
			)
		}
	}
	return nil
}
