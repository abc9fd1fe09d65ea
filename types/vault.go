package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// VaultState holds the aggregate accounting of the vault.
//
// Unclaimed validator rewards are not part of the state. They are owned by the
// staking module and read every time a share price is derived.
type VaultState struct {
	// TotalStaked is the principal currently bonded through the staking module.
	TotalStaked sdkmath.Int `json:"total_staked"`
	// ClaimedRewards are rewards pulled into the vault account but not yet restaked or paid out.
	ClaimedRewards sdkmath.Int `json:"claimed_rewards"`
	// TotalShares is the sum of every share balance, the treasury included.
	TotalShares sdkmath.Int `json:"total_shares"`
	// Paused blocks every price-dependent mutation except maturing claims.
	Paused bool `json:"paused"`
}

// NewVaultState returns an empty vault.
func NewVaultState() VaultState {
	return VaultState{
		TotalStaked:    sdkmath.ZeroInt(),
		ClaimedRewards: sdkmath.ZeroInt(),
		TotalShares:    sdkmath.ZeroInt(),
	}
}

// Validate performs basic validation on the vault totals.
func (v VaultState) Validate() error {
	for name, amt := range map[string]sdkmath.Int{
		"total staked":    v.TotalStaked,
		"claimed rewards": v.ClaimedRewards,
		"total shares":    v.TotalShares,
	} {
		if amt.IsNil() {
			return fmt.Errorf("%s is not set", name)
		}
		if amt.IsNegative() {
			return fmt.Errorf("%s cannot be negative: %s", name, amt)
		}
	}
	if v.TotalShares.IsZero() && !v.TotalStaked.IsZero() {
		return fmt.Errorf("total staked %s without any outstanding shares", v.TotalStaked)
	}
	return nil
}

// TotalAssets returns the staked principal plus the liquid claimed rewards.
func (v VaultState) TotalAssets() sdkmath.Int {
	return v.TotalStaked.Add(v.ClaimedRewards)
}

// SharePrice derives the current share price given the unclaimed rewards
// reported by the staking module. Unclaimed rewards are counted net of the
// protocol fee that will be minted to the treasury when they are swept.
//
// The result is in lowest terms, and is the 1:1 baseline while no shares exist.
func (v VaultState) SharePrice(unclaimed sdkmath.Int, feeBps, precisionBps uint64) (Ratio, error) {
	if v.TotalShares.IsZero() {
		return OneToOne(), nil
	}
	if feeBps > precisionBps {
		return Ratio{}, ErrInvalidRequest.Wrapf("fee %d exceeds fee precision %d", feeBps, precisionBps)
	}
	p := sdkmath.NewIntFromUint64(precisionBps)
	net := sdkmath.NewIntFromUint64(precisionBps - feeBps)

	num := v.TotalAssets().Mul(p).Add(net.Mul(unclaimed)).Mul(Scale)
	den := v.TotalShares.Mul(p)
	price, err := NewRatio(num, den)
	if err != nil {
		return Ratio{}, err
	}
	return price.Reduce(), nil
}

// UserInfo summarizes what a holder can take out of the vault right now.
type UserInfo struct {
	// MaxRedeem is the number of shares the holder can burn.
	MaxRedeem sdkmath.Int `json:"max_redeem"`
	// MaxWithdraw is the asset value of those shares at SharePrice.
	MaxWithdraw sdkmath.Int `json:"max_withdraw"`
	SharePrice  Ratio       `json:"share_price"`
	// Epoch is the staking module's current epoch.
	Epoch uint64 `json:"epoch"`
}
