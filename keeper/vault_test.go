package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
	"github.com/provlabs/stakevault/utils/mocks"
)

func (s *TestSuite) TestDeposit_FirstDepositIsOneToOne() {
	alice := utils.TestAddress().AccAddress()
	s.fund(alice, tokens(100))

	shares := s.deposit(alice, tokens(100))
	s.Require().Equal(tokens(100).String(), shares.String())

	s.assertShares(alice, tokens(100))
	s.assertBalance(alice, sdkmath.ZeroInt())
	s.assertBalance(mocks.StakingPoolAddress, tokens(100))

	vault := s.vaultState()
	s.Assert().Equal(tokens(100).String(), vault.TotalStaked.String())
	s.Assert().Equal(tokens(100).String(), vault.TotalShares.String())
	s.Assert().True(vault.ClaimedRewards.IsZero())
	s.Assert().Equal(tokens(100).String(), s.mocks.Staking.TotalStaked(s.ctx).String())

	s.requireEventAttr(types.EventTypeDeposit, types.AttributeKeyShares, tokens(100).String())
	s.requireEventAttr(types.EventTypeDeposit, types.AttributeKeySharePrice, "1000000000000000000/1")
}

func (s *TestSuite) TestDeposit_Failures() {
	tests := []struct {
		name   string
		setup  func(addr sdk.AccAddress)
		amount sdkmath.Int
		err    error
	}{
		{
			name:   "zero amount",
			amount: sdkmath.ZeroInt(),
			err:    types.ErrZeroAmount,
		},
		{
			name:   "below minimum deposit",
			amount: types.DefaultMinDeposit.SubRaw(1),
			err:    types.ErrBelowMinimumDeposit,
		},
		{
			name:   "not whitelisted",
			setup:  func(sdk.AccAddress) { s.mocks.Whitelist.AllowAll = false },
			amount: tokens(10),
			err:    types.ErrNotWhitelisted,
		},
		{
			name: "paused",
			setup: func(sdk.AccAddress) {
				s.Require().NoError(s.k.SetPaused(s.ctx, s.mocks.Authority, true))
			},
			amount: tokens(10),
			err:    types.ErrVaultPaused,
		},
		{
			name:   "insufficient funds",
			setup:  func(addr sdk.AccAddress) { s.fund(addr, tokens(5)) },
			amount: tokens(10),
			err:    sdkerrors.ErrInsufficientFunds,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			addr := utils.TestAddress().AccAddress()
			if tc.setup != nil {
				tc.setup(addr)
			}

			_, err := s.k.Deposit(s.ctx, addr, tc.amount)
			s.Require().ErrorIs(err, tc.err)
			s.Assert().True(s.vaultState().TotalShares.IsZero(), "no shares should be minted")
			s.Assert().True(s.mocks.Staking.TotalStaked(s.ctx).IsZero(), "nothing should be staked")
		})
	}
}

func (s *TestSuite) TestDeposit_SweepsRewardsBeforePricing() {
	alice := s.newDepositor(tokens(100))
	s.accrue(tokens(10))

	// 100 staked plus 10 unclaimed net of the 10% fee
	s.Require().True(s.sharePrice().Equal(types.Ratio{Numerator: sdkmath.NewInt(109).Mul(sdkmath.NewIntWithDecimal(1, 16)), Denominator: sdkmath.OneInt()}))

	bob := utils.TestAddress().AccAddress()
	s.fund(bob, tokens(109))
	bobShares := s.deposit(bob, tokens(109))

	// fee shares are valued at 1.09 before the sweep: floor(10 * 10% / 1.09)
	feeShares := sdkmath.NewInt(917431192660550458)
	s.assertShares(s.treasury, feeShares)
	s.assertShares(alice, tokens(100))
	s.requireEventAttr(types.EventTypeRewardsSwept, types.AttributeKeyFeeShares, feeShares.String())

	vault := s.vaultState()
	s.Assert().Equal(tokens(10).String(), vault.ClaimedRewards.String())
	s.Assert().Equal(tokens(209).String(), vault.TotalStaked.String())
	s.Assert().True(s.mocks.Staking.UnclaimedRewards(s.ctx).IsZero())
	s.assertBalance(types.ModuleAddress, tokens(10))

	// the depositor does not pay the fee: the new shares are worth what was paid, less rounding
	value, err := s.k.ConvertToAssets(s.ctx, bobShares)
	s.Require().NoError(err)
	s.Assert().True(value.LTE(tokens(109)), "shares should never be worth more than paid: %s", value)
	s.Assert().True(tokens(109).Sub(value).LTE(sdkmath.NewInt(2)), "shares should be worth what was paid: %s", value)
	s.assertConservation()
}

func (s *TestSuite) TestSweep_PriceNeverDecreases() {
	s.newDepositor(tokens(100))
	for _, reward := range []int64{1, 7, 13, 1_000} {
		s.accrue(tokens(reward))
		before := s.sharePrice()
		_, err := s.k.TestAccessor_sweepRewards(s.T(), s.ctx)
		s.Require().NoError(err)
		after := s.sharePrice()
		s.Assert().False(after.LT(before), "price went from %s to %s", before, after)
	}
	s.assertConservation()
}

func (s *TestSuite) TestSweep_WithoutSharesCreditsTreasury() {
	s.accrue(tokens(3))
	claimed, err := s.k.TestAccessor_sweepRewards(s.T(), s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(tokens(3).String(), claimed.String())

	s.assertShares(s.treasury, tokens(3))
	vault := s.vaultState()
	s.Assert().Equal(tokens(3).String(), vault.TotalShares.String())
	s.Assert().Equal(tokens(3).String(), vault.ClaimedRewards.String())
	s.Assert().True(vault.TotalStaked.IsZero())
}

func (s *TestSuite) TestWithdraw_UnbondsAndClaims() {
	alice := s.newDepositor(tokens(100))

	amount, req, err := s.k.Withdraw(s.ctx, alice, tokens(40))
	s.Require().NoError(err)
	s.Require().Equal(tokens(40).String(), amount.String())
	s.Require().NotNil(req, "a staked withdrawal should create an unbond request")
	s.Assert().Equal(uint64(0), req.Nonce)
	s.Assert().Equal(alice.String(), req.Owner)
	s.Assert().Equal(alice.String(), req.Receiver)
	s.Assert().Equal(tokens(40).String(), req.Amount.String())

	s.assertShares(alice, tokens(60))
	vault := s.vaultState()
	s.Assert().Equal(tokens(60).String(), vault.TotalStaked.String())
	s.Assert().Equal(tokens(60).String(), vault.TotalShares.String())
	s.requireEventAttr(types.EventTypeWithdraw, types.AttributeKeyNonce, "0")

	reqs, err := s.k.GetWithdrawalRequests(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(reqs, 1)

	_, err = s.k.WithdrawClaim(s.ctx, alice, req.Nonce)
	s.Require().ErrorIs(err, types.ErrClaimNotMature)

	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, mocks.UnbondingEpochs))
	paid, err := s.k.WithdrawClaim(s.ctx, alice, req.Nonce)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(40).String(), paid.String())
	s.assertBalance(alice, tokens(40))
	s.requireEventAttr(types.EventTypeWithdrawClaim, types.AttributeKeyAmount, tokens(40).String())

	_, err = s.k.WithdrawClaim(s.ctx, alice, req.Nonce)
	s.Require().ErrorIs(err, types.ErrWithdrawalNotFound)
	s.assertConservation()
}

func (s *TestSuite) TestWithdraw_LastSharesTakeRewards() {
	s.setFees(0, 0)
	alice := s.newDepositor(tokens(100))
	s.accrue(tokens(20))

	amount, req, err := s.k.Withdraw(s.ctx, alice, tokens(100))
	s.Require().NoError(err)
	s.Require().Equal(tokens(120).String(), amount.String())
	s.Require().NotNil(req)
	s.Assert().Equal(tokens(100).String(), req.Amount.String(), "the staked part waits on the unbond")
	s.assertBalance(alice, tokens(20))

	vault := s.vaultState()
	s.Assert().True(vault.TotalShares.IsZero())
	s.Assert().True(vault.TotalStaked.IsZero())
	s.Assert().True(vault.ClaimedRewards.IsZero())
	s.Assert().True(s.sharePrice().Identical(types.OneToOne()))
}

func (s *TestSuite) TestWithdraw_Failures() {
	alice := s.newDepositor(tokens(10))

	_, _, err := s.k.Withdraw(s.ctx, alice, sdkmath.ZeroInt())
	s.Require().ErrorIs(err, types.ErrZeroAmount)

	_, _, err = s.k.Withdraw(s.ctx, alice, tokens(11))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	s.Assert().Equal(types.KindInputValidation, types.KindOf(err))

	s.mocks.Whitelist.AllowAll = false
	_, _, err = s.k.Withdraw(s.ctx, alice, tokens(1))
	s.Require().ErrorIs(err, types.ErrNotWhitelisted)
	s.Assert().Equal(types.KindAuthorizationFailure, types.KindOf(err))
	s.mocks.Whitelist.Allow(alice)

	s.Require().NoError(s.k.SetPaused(s.ctx, s.mocks.Authority, true))
	_, _, err = s.k.Withdraw(s.ctx, alice, tokens(1))
	s.Require().ErrorIs(err, types.ErrVaultPaused)

	s.assertShares(alice, tokens(10))
}

func (s *TestSuite) TestWithdrawClaim_NotOwner() {
	alice := s.newDepositor(tokens(10))
	bob := utils.TestAddress().AccAddress()

	_, req, err := s.k.Withdraw(s.ctx, alice, tokens(5))
	s.Require().NoError(err)
	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, mocks.UnbondingEpochs))

	_, err = s.k.WithdrawClaim(s.ctx, bob, req.Nonce)
	s.Require().ErrorIs(err, types.ErrNotRequestOwner)
}

func (s *TestSuite) TestWithdrawClaim_AllowedWhilePaused() {
	alice := s.newDepositor(tokens(10))
	_, req, err := s.k.Withdraw(s.ctx, alice, tokens(5))
	s.Require().NoError(err)
	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, mocks.UnbondingEpochs))
	s.Require().NoError(s.k.SetPaused(s.ctx, s.mocks.Authority, true))

	paid, err := s.k.WithdrawClaim(s.ctx, alice, req.Nonce)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(5).String(), paid.String())
}

func (s *TestSuite) TestClaimList() {
	alice := s.newDepositor(tokens(10))
	_, first, err := s.k.Withdraw(s.ctx, alice, tokens(2))
	s.Require().NoError(err)
	_, second, err := s.k.Withdraw(s.ctx, alice, tokens(3))
	s.Require().NoError(err)
	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, mocks.UnbondingEpochs))

	_, err = s.k.ClaimList(s.ctx, alice, nil)
	s.Require().ErrorIs(err, types.ErrInvalidRequest)

	_, err = s.k.ClaimList(s.ctx, alice, []uint64{first.Nonce, 99})
	s.Require().ErrorIs(err, types.ErrWithdrawalNotFound)
	s.assertBalance(alice, sdkmath.ZeroInt())
	reqs, err := s.k.GetWithdrawalRequests(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(reqs, 2, "a failed claim list should not pay anything")

	total, err := s.k.ClaimList(s.ctx, alice, []uint64{first.Nonce, second.Nonce})
	s.Require().NoError(err)
	s.Assert().Equal(tokens(5).String(), total.String())
	s.assertBalance(alice, tokens(5))
}

func (s *TestSuite) TestTransfer() {
	alice := s.newDepositor(tokens(100))
	bob := utils.TestAddress().AccAddress()

	s.Require().NoError(s.k.Transfer(s.ctx, alice, bob, tokens(30)))
	s.assertShares(alice, tokens(70))
	s.assertShares(bob, tokens(30))
	s.requireEventAttr(types.EventTypeTransfer, types.AttributeKeyShares, tokens(30).String())

	err := s.k.Transfer(s.ctx, bob, alice, tokens(31))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	s.assertShares(bob, tokens(30))

	err = s.k.Transfer(s.ctx, bob, alice, sdkmath.ZeroInt())
	s.Require().ErrorIs(err, types.ErrZeroAmount)
	s.assertConservation()
}

func (s *TestSuite) TestCompoundRewards() {
	s.setFees(0, 0)
	s.newDepositor(tokens(100))
	s.accrue(tokens(10))
	before := s.sharePrice()

	restaked, err := s.k.CompoundRewards(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(tokens(10).String(), restaked.String())

	vault := s.vaultState()
	s.Assert().Equal(tokens(110).String(), vault.TotalStaked.String())
	s.Assert().True(vault.ClaimedRewards.IsZero())
	s.Assert().Equal(tokens(110).String(), s.mocks.Staking.TotalStaked(s.ctx).String())
	s.Assert().True(s.sharePrice().Equal(before), "compounding should not move the price")
	s.requireEventAttr(types.EventTypeRewardsCompounded, types.AttributeKeyAmount, tokens(10).String())

	restaked, err = s.k.CompoundRewards(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(restaked.IsZero())
}

func (s *TestSuite) TestEndBlocker_PaysMaturedWithdrawals() {
	alice := s.newDepositor(tokens(50))
	_, req, err := s.k.Withdraw(s.ctx, alice, tokens(20))
	s.Require().NoError(err)

	s.Require().NoError(s.k.EndBlocker(s.ctx))
	s.assertBalance(alice, sdkmath.ZeroInt())

	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, mocks.UnbondingEpochs))
	s.Require().NoError(s.k.EndBlocker(s.ctx))
	s.assertBalance(alice, tokens(20))

	_, err = s.k.UnbondRequests.Get(s.ctx, req.Nonce)
	s.Require().ErrorIs(err, types.ErrWithdrawalNotFound)
}

func (s *TestSuite) TestEndBlocker_StopsAtFirstImmatureRequest() {
	alice := s.newDepositor(tokens(50))
	_, first, err := s.k.Withdraw(s.ctx, alice, tokens(10))
	s.Require().NoError(err)
	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, 1))
	_, second, err := s.k.Withdraw(s.ctx, alice, tokens(10))
	s.Require().NoError(err)
	_, third, err := s.k.Withdraw(s.ctx, alice, tokens(10))
	s.Require().NoError(err)

	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, mocks.UnbondingEpochs-1))
	s.mocks.Staking.MaturityChecks = 0
	s.Require().NoError(s.k.EndBlocker(s.ctx))

	s.Assert().Equal(2, s.mocks.Staking.MaturityChecks, "the walk should stop at the first immature request")
	s.assertBalance(alice, tokens(10))
	_, err = s.k.UnbondRequests.Get(s.ctx, first.Nonce)
	s.Require().ErrorIs(err, types.ErrWithdrawalNotFound)
	_, err = s.k.UnbondRequests.Get(s.ctx, second.Nonce)
	s.Require().NoError(err)
	_, err = s.k.UnbondRequests.Get(s.ctx, third.Nonce)
	s.Require().NoError(err)

	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, 1))
	s.Require().NoError(s.k.EndBlocker(s.ctx))
	s.assertBalance(alice, tokens(30))
}
