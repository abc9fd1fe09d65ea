package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidRequest = errorsmod.Register(ModuleName, 2, "invalid request")

	// input validation
	ErrZeroAmount             = errorsmod.Register(ModuleName, 3, "amount must be positive")
	ErrBelowMinimumDeposit    = errorsmod.Register(ModuleName, 4, "deposit below minimum deposit")
	ErrAllocationBelowMinimum = errorsmod.Register(ModuleName, 5, "allocation below minimum allocation")
	ErrInsufficientBalance    = errorsmod.Register(ModuleName, 6, "insufficient share balance")

	// authorization
	ErrNotWhitelisted                      = errorsmod.Register(ModuleName, 7, "user not whitelisted")
	ErrOnlyDistributorCanDistributeRewards = errorsmod.Register(ModuleName, 8, "only the distributor can distribute rewards")
	ErrUnauthorized                        = errorsmod.Register(ModuleName, 9, "unauthorized")
	ErrNotRequestOwner                     = errorsmod.Register(ModuleName, 10, "sender is not the owner of the withdrawal request")

	// state inconsistency
	ErrZeroDenominator = errorsmod.Register(ModuleName, 11, "ratio denominator is zero")
	ErrReentrantCall   = errorsmod.Register(ModuleName, 12, "reentrant call")
	ErrMathOverflow    = errorsmod.Register(ModuleName, 13, "arithmetic overflow")

	// resource exhaustion
	ErrInsufficientDistributorBalance = errorsmod.Register(ModuleName, 14, "insufficient distributor balance")
	ErrInsufficientDistributorShares  = errorsmod.Register(ModuleName, 15, "distributor balance cannot cover distribution")
	ErrInsufficientLiquidity          = errorsmod.Register(ModuleName, 16, "insufficient liquid assets in vault")

	// lifecycle
	ErrVaultPaused        = errorsmod.Register(ModuleName, 17, "vault is paused")
	ErrAllocationNotFound = errorsmod.Register(ModuleName, 18, "allocation not found")
	ErrWithdrawalNotFound = errorsmod.Register(ModuleName, 19, "withdrawal request not found")
	ErrClaimNotMature     = errorsmod.Register(ModuleName, 20, "withdrawal claim has not matured")
)

// ErrorKind groups module errors by the failed precondition family.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInputValidation
	KindAuthorizationFailure
	KindStateInconsistency
	KindResourceExhaustion
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindInputValidation:
		return "InputValidation"
	case KindAuthorizationFailure:
		return "AuthorizationFailure"
	case KindStateInconsistency:
		return "StateInconsistency"
	case KindResourceExhaustion:
		return "ResourceExhaustion"
	default:
		return "Unknown"
	}
}

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	// checked before ErrInsufficientBalance: a distribution debit wraps both
	{ErrInsufficientDistributorShares, KindResourceExhaustion},
	{ErrInsufficientDistributorBalance, KindResourceExhaustion},
	{ErrInsufficientLiquidity, KindResourceExhaustion},

	{ErrInvalidRequest, KindInputValidation},
	{ErrZeroAmount, KindInputValidation},
	{ErrBelowMinimumDeposit, KindInputValidation},
	{ErrAllocationBelowMinimum, KindInputValidation},
	{ErrInsufficientBalance, KindInputValidation},
	{ErrAllocationNotFound, KindInputValidation},
	{ErrWithdrawalNotFound, KindInputValidation},
	{ErrClaimNotMature, KindInputValidation},
	{ErrVaultPaused, KindInputValidation},

	{ErrNotWhitelisted, KindAuthorizationFailure},
	{ErrOnlyDistributorCanDistributeRewards, KindAuthorizationFailure},
	{ErrUnauthorized, KindAuthorizationFailure},
	{ErrNotRequestOwner, KindAuthorizationFailure},

	{ErrZeroDenominator, KindStateInconsistency},
	{ErrReentrantCall, KindStateInconsistency},
	{ErrMathOverflow, KindStateInconsistency},
}

// KindOf classifies err. Errors that do not originate from this module are KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindUnknown
}
