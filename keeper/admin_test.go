package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

func (s *TestSuite) TestAdmin_RequiresAuthority() {
	stranger := utils.TestAddress().AccAddress()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "update params", call: func() error { return s.k.UpdateParams(s.ctx, stranger, types.DefaultParams()) }},
		{name: "set min deposit", call: func() error { return s.k.SetMinDeposit(s.ctx, stranger, tokens(5)) }},
		{name: "set fee", call: func() error { return s.k.SetFee(s.ctx, stranger, 0) }},
		{name: "set distribution fee", call: func() error { return s.k.SetDistFee(s.ctx, stranger, 0) }},
		{name: "set treasury", call: func() error { return s.k.SetTreasury(s.ctx, stranger, stranger) }},
		{name: "set paused", call: func() error { return s.k.SetPaused(s.ctx, stranger, true) }},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := tc.call()
			s.Require().ErrorIs(err, types.ErrUnauthorized)
			s.Assert().Equal(types.KindAuthorizationFailure, types.KindOf(err))
		})
	}

	params, err := s.k.GetParams(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(types.DefaultParams(), params)
	s.Assert().False(s.vaultState().Paused)
}

func (s *TestSuite) TestAdmin_UpdatesParams() {
	authority := s.mocks.Authority
	treasury := utils.TestAddress().AccAddress()

	s.Require().NoError(s.k.SetMinDeposit(s.ctx, authority, tokens(5)))
	s.Require().NoError(s.k.SetFee(s.ctx, authority, 250))
	s.Require().NoError(s.k.SetDistFee(s.ctx, authority, 100))
	s.Require().NoError(s.k.SetTreasury(s.ctx, authority, treasury))

	params, err := s.k.GetParams(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(5).String(), params.MinDeposit.String())
	s.Assert().Equal(uint64(250), params.FeeBps)
	s.Assert().Equal(uint64(100), params.DistFeeBps)
	s.Assert().Equal(treasury.String(), params.Treasury)
	s.requireEventAttr(types.EventTypeParamsUpdated, types.AttributeKeyAuthority, authority.String())

	err = s.k.SetFee(s.ctx, authority, types.DefaultFeePrecisionBps+1)
	s.Require().ErrorIs(err, types.ErrInvalidRequest)
	err = s.k.SetMinDeposit(s.ctx, authority, sdkmath.ZeroInt())
	s.Require().ErrorIs(err, types.ErrInvalidRequest)
	err = s.k.SetTreasury(s.ctx, authority, nil)
	s.Require().ErrorIs(err, types.ErrInvalidRequest)

	params, err = s.k.GetParams(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(uint64(250), params.FeeBps, "rejected updates should not be stored")
}

func (s *TestSuite) TestAdmin_FeeChangeSweepsAtOldRate() {
	s.newDepositor(tokens(100))
	s.accrue(tokens(10))

	s.Require().NoError(s.k.SetFee(s.ctx, s.mocks.Authority, 0))

	s.assertShares(s.treasury, sdkmath.NewInt(917431192660550458))
	s.Assert().True(s.mocks.Staking.UnclaimedRewards(s.ctx).IsZero())
}

func (s *TestSuite) TestAdmin_TreasuryChangeRedirectsFees() {
	s.newDepositor(tokens(100))
	treasury := utils.TestAddress().AccAddress()
	s.Require().NoError(s.k.SetTreasury(s.ctx, s.mocks.Authority, treasury))

	s.accrue(tokens(10))
	_, err := s.k.CompoundRewards(s.ctx)
	s.Require().NoError(err)

	s.assertShares(treasury, sdkmath.NewInt(917431192660550458))
	s.assertShares(s.treasury, sdkmath.ZeroInt())
}

func (s *TestSuite) TestAdmin_Pause() {
	alice := s.newDepositor(tokens(10))
	bob := utils.TestAddress().AccAddress()

	s.Require().NoError(s.k.SetPaused(s.ctx, s.mocks.Authority, true))
	s.Assert().True(s.vaultState().Paused)
	s.requireEventAttr(types.EventTypeVaultPausedToggled, types.AttributeKeyPaused, "true")

	s.Require().ErrorIs(s.k.Transfer(s.ctx, alice, bob, tokens(1)), types.ErrVaultPaused)
	_, err := s.k.CompoundRewards(s.ctx)
	s.Require().ErrorIs(err, types.ErrVaultPaused)

	// reads keep working
	_, err = s.k.GetUserInfo(s.ctx, alice)
	s.Require().NoError(err)

	s.Require().NoError(s.k.SetPaused(s.ctx, s.mocks.Authority, false))
	s.Require().NoError(s.k.Transfer(s.ctx, alice, bob, tokens(1)))
	s.requireEventAttr(types.EventTypeVaultPausedToggled, types.AttributeKeyPaused, "false")
}
