package keeper_test

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

func (s *TestSuite) TestReentrantCallIsRejected() {
	alice := s.newDepositor(tokens(100))
	bob := utils.TestAddress().AccAddress()
	s.fund(bob, tokens(5))
	s.accrue(tokens(10))

	var reentrantErr error
	s.mocks.Staking.OnClaim = func(ctx context.Context) {
		_, reentrantErr = s.k.Deposit(sdk.UnwrapSDKContext(ctx), bob, tokens(5))
	}

	s.fund(alice, tokens(10))
	s.deposit(alice, tokens(10))

	s.Require().ErrorIs(reentrantErr, types.ErrReentrantCall)
	s.Assert().Equal(types.KindStateInconsistency, types.KindOf(reentrantErr))
	s.assertShares(bob, tokens(0))
	s.assertBalance(bob, tokens(5))

	// the guard is released once the outer call returns
	s.mocks.Staking.OnClaim = nil
	s.deposit(bob, tokens(5))
	s.assertConservation()
}

func (s *TestSuite) TestFailedOperationLeavesNoTrace() {
	alice := s.newDepositor(tokens(100))
	s.accrue(tokens(10))
	s.fund(alice, tokens(20))
	s.resetEvents()

	s.mocks.Staking.StakeErr = errors.New("staking halted")
	_, err := s.k.Deposit(s.ctx, alice, tokens(20))
	s.Require().ErrorContains(err, "staking halted")

	// the sweep and the asset transfer ran before the stake and are reverted with it
	s.assertShares(s.treasury, tokens(0))
	s.assertShares(alice, tokens(100))
	s.assertBalance(alice, tokens(20))
	s.Assert().Equal(tokens(10).String(), s.mocks.Staking.UnclaimedRewards(s.ctx).String())
	vault := s.vaultState()
	s.Assert().Equal(tokens(100).String(), vault.TotalStaked.String())
	s.Assert().True(vault.ClaimedRewards.IsZero())
	s.Assert().Empty(s.ctx.EventManager().Events(), "a failed operation should not emit events")

	s.mocks.Staking.StakeErr = nil
	s.deposit(alice, tokens(20))
	_, swept := s.findEvent(types.EventTypeRewardsSwept)
	s.Assert().True(swept, "the retried deposit should sweep")
}

func (s *TestSuite) TestGuardIsScopedToTheCallingContext() {
	alice := s.newDepositor(tokens(100))
	bob := utils.TestAddress().AccAddress()
	s.fund(bob, tokens(5))
	s.accrue(tokens(10))

	// an independent branch, as a tx simulation would use
	simCtx, _ := s.ctx.CacheContext()

	var (
		simErr error
		ran    bool
	)
	s.mocks.Staking.OnClaim = func(context.Context) {
		if ran {
			return
		}
		ran = true
		_, simErr = s.k.Deposit(simCtx, bob, tokens(5))
	}

	s.fund(alice, tokens(10))
	s.deposit(alice, tokens(10))
	s.Require().True(ran, "the outer deposit should have claimed rewards")

	s.Require().NoError(simErr, "a call on an unrelated context should not be treated as reentrant")
	simShares, err := s.k.BalanceOf(simCtx, bob)
	s.Require().NoError(err)
	s.Assert().True(simShares.IsPositive(), "bob should hold shares on the simulated branch")

	// nothing from the other branch leaks into this one
	s.assertShares(bob, tokens(0))
	s.assertBalance(bob, tokens(5))
	s.assertConservation()
}
