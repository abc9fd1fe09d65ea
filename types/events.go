package types

import (
	"strconv"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypeDeposit            = "stakevault_deposit"
	EventTypeWithdraw           = "stakevault_withdraw"
	EventTypeWithdrawClaim      = "stakevault_withdraw_claim"
	EventTypeTransfer           = "stakevault_transfer"
	EventTypeRewardsSwept       = "stakevault_rewards_swept"
	EventTypeRewardsCompounded  = "stakevault_rewards_compounded"
	EventTypeAllocate           = "stakevault_allocate"
	EventTypeDistributeRewards  = "stakevault_distribute_rewards"
	EventTypeParamsUpdated      = "stakevault_params_updated"
	EventTypeVaultPausedToggled = "stakevault_paused_toggled"

	AttributeKeyOwner        = "owner"
	AttributeKeyReceiver     = "receiver"
	AttributeKeyFrom         = "from"
	AttributeKeyTo           = "to"
	AttributeKeyAmount       = "amount"
	AttributeKeyShares       = "shares"
	AttributeKeyNonce        = "nonce"
	AttributeKeySharePrice   = "share_price"
	AttributeKeyClaimed      = "claimed"
	AttributeKeyFeeShares    = "fee_shares"
	AttributeKeyTreasury     = "treasury"
	AttributeKeyDistributor  = "distributor"
	AttributeKeyRecipient    = "recipient"
	AttributeKeyPrincipal    = "principal"
	AttributeKeyRewardShares = "reward_shares"
	AttributeKeyNetShares    = "net_shares"
	AttributeKeyPayoutMode   = "payout_mode"
	AttributeKeyAuthority    = "authority"
	AttributeKeyPaused       = "paused"
)

// NewEventDeposit creates a new deposit event.
func NewEventDeposit(owner string, amount, shares sdkmath.Int, price Ratio) sdk.Event {
	return sdk.NewEvent(EventTypeDeposit,
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
		sdk.NewAttribute(AttributeKeySharePrice, price.String()),
	)
}

// NewEventWithdraw creates a new withdraw event. The nonce attribute is only
// present when part of the amount had to be unbonded.
func NewEventWithdraw(owner, receiver string, amount, shares sdkmath.Int, req *WithdrawalRequest) sdk.Event {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(AttributeKeyOwner, owner),
		sdk.NewAttribute(AttributeKeyReceiver, receiver),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
	}
	if req != nil {
		attrs = append(attrs, sdk.NewAttribute(AttributeKeyNonce, strconv.FormatUint(req.Nonce, 10)))
	}
	return sdk.NewEvent(EventTypeWithdraw, attrs...)
}

// NewEventWithdrawClaim creates a new withdraw claim event.
func NewEventWithdrawClaim(req WithdrawalRequest, paid sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeWithdrawClaim,
		sdk.NewAttribute(AttributeKeyOwner, req.Owner),
		sdk.NewAttribute(AttributeKeyReceiver, req.Receiver),
		sdk.NewAttribute(AttributeKeyNonce, strconv.FormatUint(req.Nonce, 10)),
		sdk.NewAttribute(AttributeKeyAmount, paid.String()),
	)
}

// NewEventTransfer creates a new share transfer event.
func NewEventTransfer(from, to string, shares sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeTransfer,
		sdk.NewAttribute(AttributeKeyFrom, from),
		sdk.NewAttribute(AttributeKeyTo, to),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
	)
}

// NewEventRewardsSwept creates a new event for rewards moved from the staking module into the vault.
func NewEventRewardsSwept(claimed, feeShares sdkmath.Int, treasury string) sdk.Event {
	return sdk.NewEvent(EventTypeRewardsSwept,
		sdk.NewAttribute(AttributeKeyClaimed, claimed.String()),
		sdk.NewAttribute(AttributeKeyFeeShares, feeShares.String()),
		sdk.NewAttribute(AttributeKeyTreasury, treasury),
	)
}

// NewEventRewardsCompounded creates a new event for claimed rewards restaked by the vault.
func NewEventRewardsCompounded(amount sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeRewardsCompounded,
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

// NewEventAllocate creates a new allocate event carrying the merged allocation.
func NewEventAllocate(alloc Allocation, amount sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeAllocate,
		sdk.NewAttribute(AttributeKeyDistributor, alloc.Distributor),
		sdk.NewAttribute(AttributeKeyRecipient, alloc.Recipient),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyPrincipal, alloc.Principal.String()),
		sdk.NewAttribute(AttributeKeySharePrice, alloc.SharePrice.String()),
	)
}

// NewEventDistributeRewards creates a new distribute rewards event.
func NewEventDistributeRewards(d Distribution, mode PayoutMode) sdk.Event {
	return sdk.NewEvent(EventTypeDistributeRewards,
		sdk.NewAttribute(AttributeKeyDistributor, d.Distributor),
		sdk.NewAttribute(AttributeKeyRecipient, d.Recipient),
		sdk.NewAttribute(AttributeKeyRewardShares, d.RewardShares.String()),
		sdk.NewAttribute(AttributeKeyFeeShares, d.FeeShares.String()),
		sdk.NewAttribute(AttributeKeyNetShares, d.NetShares.String()),
		sdk.NewAttribute(AttributeKeyPayoutMode, mode.String()),
		sdk.NewAttribute(AttributeKeySharePrice, d.SharePrice.String()),
	)
}

// NewEventParamsUpdated creates a new params updated event.
func NewEventParamsUpdated(authority string) sdk.Event {
	return sdk.NewEvent(EventTypeParamsUpdated,
		sdk.NewAttribute(AttributeKeyAuthority, authority),
	)
}

// NewEventVaultPausedToggled creates a new pause toggle event.
func NewEventVaultPausedToggled(authority string, paused bool) sdk.Event {
	return sdk.NewEvent(EventTypeVaultPausedToggled,
		sdk.NewAttribute(AttributeKeyAuthority, authority),
		sdk.NewAttribute(AttributeKeyPaused, strconv.FormatBool(paused)),
	)
}
