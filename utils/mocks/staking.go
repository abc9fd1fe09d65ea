package mocks

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/provlabs/stakevault/types"
)

// UnbondingEpochs is the number of epochs an unbond waits before it can be claimed.
const UnbondingEpochs = 80

var (
	stakingStakedPrefix    = collections.NewPrefix(0xA0)
	stakingUnclaimedPrefix = collections.NewPrefix(0xA1)
	stakingEpochPrefix     = collections.NewPrefix(0xA2)
	stakingUnbondsPrefix   = collections.NewPrefix(0xA3)
	stakingEpochsPrefix    = collections.NewPrefix(0xA4)
	stakingNoncePrefix     = collections.NewPrefix(0xA5)
)

// StakingPoolAddress holds everything staked through the StakingKeeper.
var StakingPoolAddress = authtypes.NewModuleAddress("staking_pool")

// StakingKeeper is a store-backed staking module with a single staker, the vault.
// Rewards only appear when a test calls Accrue.
type StakingKeeper struct {
	bank  *BankKeeper
	denom string

	Staked    collections.Item[sdkmath.Int]
	Unclaimed collections.Item[sdkmath.Int]
	Epoch     collections.Item[uint64]
	Unbonds   collections.Map[uint64, sdkmath.Int]
	// UnbondEpochs records the epoch each unbond was requested in.
	UnbondEpochs collections.Map[uint64, uint64]
	Nonce        collections.Sequence

	// OnClaim, when set, runs at the start of every ClaimRewards call.
	OnClaim func(ctx context.Context)
	// StakeErr, when set, is returned by Stake.
	StakeErr error
	// MaturityChecks counts IsClaimMature calls.
	MaturityChecks int
}

// NewStakingKeeper creates a StakingKeeper that pays through bank in denom.
func NewStakingKeeper(storeService store.KVStoreService, bank *BankKeeper, denom string) *StakingKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	s := &StakingKeeper{
		bank:         bank,
		denom:        denom,
		Staked:       collections.NewItem(sb, stakingStakedPrefix, "mock_staked", sdk.IntValue),
		Unclaimed:    collections.NewItem(sb, stakingUnclaimedPrefix, "mock_unclaimed", sdk.IntValue),
		Epoch:        collections.NewItem(sb, stakingEpochPrefix, "mock_epoch", collections.Uint64Value),
		Unbonds:      collections.NewMap(sb, stakingUnbondsPrefix, "mock_unbonds", collections.Uint64Key, sdk.IntValue),
		UnbondEpochs: collections.NewMap(sb, stakingEpochsPrefix, "mock_unbond_epochs", collections.Uint64Key, collections.Uint64Value),
		Nonce:        collections.NewSequence(sb, stakingNoncePrefix, "mock_nonce"),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return s
}

func (s *StakingKeeper) getInt(ctx context.Context, item collections.Item[sdkmath.Int]) sdkmath.Int {
	v, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt()
	}
	if err != nil {
		panic(err)
	}
	return v
}

// TotalStaked returns the amount currently bonded.
func (s *StakingKeeper) TotalStaked(ctx context.Context) sdkmath.Int {
	return s.getInt(ctx, s.Staked)
}

// Accrue adds amount to the unclaimed rewards and funds the pool for it.
func (s *StakingKeeper) Accrue(ctx context.Context, amount sdkmath.Int) error {
	if err := s.bank.Mint(ctx, StakingPoolAddress, sdk.NewCoins(sdk.NewCoin(s.denom, amount))); err != nil {
		return err
	}
	return s.Unclaimed.Set(ctx, s.getInt(ctx, s.Unclaimed).Add(amount))
}

// AdvanceEpoch moves the checkpoint epoch forward by n.
func (s *StakingKeeper) AdvanceEpoch(ctx context.Context, n uint64) error {
	return s.Epoch.Set(ctx, s.CurrentEpoch(ctx)+n)
}

func (s *StakingKeeper) UnclaimedRewards(ctx context.Context) sdkmath.Int {
	return s.getInt(ctx, s.Unclaimed)
}

func (s *StakingKeeper) ClaimRewards(ctx context.Context) (sdkmath.Int, error) {
	if s.OnClaim != nil {
		s.OnClaim(ctx)
	}
	unclaimed := s.getInt(ctx, s.Unclaimed)
	if unclaimed.IsZero() {
		return unclaimed, nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(s.denom, unclaimed))
	if err := s.bank.SendCoins(ctx, StakingPoolAddress, types.ModuleAddress, coins); err != nil {
		return sdkmath.Int{}, err
	}
	if err := s.Unclaimed.Set(ctx, sdkmath.ZeroInt()); err != nil {
		return sdkmath.Int{}, err
	}
	return unclaimed, nil
}

func (s *StakingKeeper) Stake(ctx context.Context, amount sdkmath.Int) error {
	if s.StakeErr != nil {
		return s.StakeErr
	}
	coins := sdk.NewCoins(sdk.NewCoin(s.denom, amount))
	if err := s.bank.SendCoins(ctx, types.ModuleAddress, StakingPoolAddress, coins); err != nil {
		return err
	}
	return s.Staked.Set(ctx, s.TotalStaked(ctx).Add(amount))
}

func (s *StakingKeeper) RequestUnbond(ctx context.Context, amount sdkmath.Int) (uint64, error) {
	staked := s.TotalStaked(ctx)
	if staked.LT(amount) {
		return 0, fmt.Errorf("cannot unbond %s, only %s staked", amount, staked)
	}
	nonce, err := s.Nonce.Next(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Staked.Set(ctx, staked.Sub(amount)); err != nil {
		return 0, err
	}
	if err := s.Unbonds.Set(ctx, nonce, amount); err != nil {
		return 0, err
	}
	return nonce, s.UnbondEpochs.Set(ctx, nonce, s.CurrentEpoch(ctx))
}

func (s *StakingKeeper) IsClaimMature(ctx context.Context, nonce uint64) bool {
	s.MaturityChecks++
	requested, err := s.UnbondEpochs.Get(ctx, nonce)
	if err != nil {
		return false
	}
	return s.CurrentEpoch(ctx) >= requested+UnbondingEpochs
}

func (s *StakingKeeper) ClaimUnbonded(ctx context.Context, nonce uint64) (sdkmath.Int, error) {
	if !s.IsClaimMature(ctx, nonce) {
		return sdkmath.Int{}, fmt.Errorf("unbond %d is not claimable", nonce)
	}
	amount, err := s.Unbonds.Get(ctx, nonce)
	if err != nil {
		return sdkmath.Int{}, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(s.denom, amount))
	if err := s.bank.SendCoins(ctx, StakingPoolAddress, types.ModuleAddress, coins); err != nil {
		return sdkmath.Int{}, err
	}
	if err := s.Unbonds.Remove(ctx, nonce); err != nil {
		return sdkmath.Int{}, err
	}
	return amount, s.UnbondEpochs.Remove(ctx, nonce)
}

func (s *StakingKeeper) CurrentEpoch(ctx context.Context) uint64 {
	epoch, err := s.Epoch.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return 0
	}
	if err != nil {
		panic(err)
	}
	return epoch
}
