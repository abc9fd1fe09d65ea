package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
)

func (s *TestSuite) TestSharePrice_BeforeFirstDeposit() {
	s.Assert().True(s.sharePrice().Identical(types.OneToOne()))
	assets, err := s.k.TotalAssets(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(assets.IsZero())
}

func (s *TestSuite) TestSharePrice_IsAPureRead() {
	s.newDepositor(tokens(100))
	s.accrue(tokens(10))

	first := s.sharePrice()
	second := s.sharePrice()
	s.Assert().True(first.Identical(second))
	s.Assert().Equal(tokens(10).String(), s.mocks.Staking.UnclaimedRewards(s.ctx).String(), "reading the price should not sweep")
	s.assertShares(s.treasury, sdkmath.ZeroInt())
}

func (s *TestSuite) TestGetUserInfo() {
	alice := s.newDepositor(tokens(100))
	s.accrue(tokens(10))
	s.Require().NoError(s.mocks.Staking.AdvanceEpoch(s.ctx, 3))

	info, err := s.k.GetUserInfo(s.ctx, alice)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(100).String(), info.MaxRedeem.String())
	s.Assert().Equal(tokens(109).String(), info.MaxWithdraw.String())
	s.Assert().True(info.SharePrice.Identical(s.sharePrice()))
	s.Assert().Equal(uint64(3), info.Epoch)

	maxWithdraw, err := s.k.MaxWithdraw(s.ctx, alice)
	s.Require().NoError(err)
	s.Assert().Equal(info.MaxWithdraw.String(), maxWithdraw.String())

	info, err = s.k.GetUserInfo(s.ctx, utils.TestAddress().AccAddress())
	s.Require().NoError(err)
	s.Assert().True(info.MaxRedeem.IsZero())
	s.Assert().True(info.MaxWithdraw.IsZero())

	_, err = s.k.GetUserInfo(s.ctx, sdk.AccAddress{})
	s.Require().ErrorIs(err, types.ErrInvalidRequest)
}

func (s *TestSuite) TestConversions() {
	s.setFees(0, 0)
	s.newDepositor(tokens(100))
	s.accrue(tokens(100))

	assets, err := s.k.ConvertToAssets(s.ctx, tokens(10))
	s.Require().NoError(err)
	s.Assert().Equal(tokens(20).String(), assets.String())

	shares, err := s.k.ConvertToShares(s.ctx, tokens(10))
	s.Require().NoError(err)
	s.Assert().Equal(tokens(5).String(), shares.String())

	total, err := s.k.TotalAssets(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(200).String(), total.String())
}

func (s *TestSuite) TestPreviewTreasuryFee() {
	s.newDepositor(tokens(100))
	s.accrue(tokens(10))

	preview, err := s.k.PreviewTreasuryFee(s.ctx)
	s.Require().NoError(err)

	total, err := s.k.TotalAssets(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(109).String(), total.String(), "unclaimed rewards count net of the fee")

	_, err = s.k.TestAccessor_sweepRewards(s.T(), s.ctx)
	s.Require().NoError(err)
	s.assertShares(s.treasury, preview)
	s.Assert().Equal("917431192660550458", preview.String())
}

func (s *TestSuite) TestPreviewTreasuryFee_WithoutShares() {
	s.accrue(tokens(4))
	preview, err := s.k.PreviewTreasuryFee(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(tokens(4).String(), preview.String())
}

func (s *TestSuite) TestGetWithdrawalRequests_ByOwner() {
	alice := s.newDepositor(tokens(10))
	bob := s.newDepositor(tokens(10))
	_, _, err := s.k.Withdraw(s.ctx, alice, tokens(1))
	s.Require().NoError(err)
	_, _, err = s.k.Withdraw(s.ctx, bob, tokens(2))
	s.Require().NoError(err)
	_, _, err = s.k.Withdraw(s.ctx, alice, tokens(3))
	s.Require().NoError(err)

	reqs, err := s.k.GetWithdrawalRequests(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(reqs, 2)
	s.Assert().Equal(uint64(0), reqs[0].Nonce)
	s.Assert().Equal(uint64(2), reqs[1].Nonce)
	s.Assert().Equal(uint64(0), reqs[0].Epoch)
}
