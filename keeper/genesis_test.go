package keeper_test

import (
	"encoding/json"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
	"github.com/provlabs/stakevault/utils"
	"github.com/provlabs/stakevault/utils/mocks"
)

func (s *TestSuite) TestGenesis_DefaultRoundTrip() {
	s.k.InitGenesis(s.ctx, types.DefaultGenesisState())
	exported := s.k.ExportGenesis(s.ctx)
	s.Require().NotNil(exported)
	s.Assert().Equal(types.DefaultParams(), exported.Params)
	s.Assert().True(exported.Vault.TotalShares.IsZero())
	s.Assert().Empty(exported.Balances)
	s.Assert().Empty(exported.Allocations)
	s.Assert().Empty(exported.Withdrawals)
}

func (s *TestSuite) TestGenesis_ExportAndImport() {
	distributor := s.newDepositor(tokens(500))
	other := s.newDepositor(tokens(50))
	recipients := utils.TestAccAddresses(2)
	s.allocate(distributor, recipients[1], tokens(10))
	s.allocate(distributor, recipients[0], tokens(20))
	s.allocate(other, recipients[1], tokens(5))
	s.accrue(tokens(30))
	_, err := s.k.DistributeRewards(s.ctx, distributor, distributor, recipients[1], types.PayoutShares)
	s.Require().NoError(err)
	_, _, err = s.k.Withdraw(s.ctx, other, tokens(25))
	s.Require().NoError(err)

	exported := s.k.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Assert().Len(exported.Allocations, 3)
	s.Assert().Len(exported.TotalAllocated, 2)
	s.Assert().Len(exported.Withdrawals, 1)

	ctx, k, _ := mocks.NewVaultKeeper(s.T())
	k.InitGenesis(ctx, exported)
	reexported := k.ExportGenesis(ctx)

	expected, err := json.Marshal(exported)
	s.Require().NoError(err)
	actual, err := json.Marshal(reexported)
	s.Require().NoError(err)
	s.Assert().JSONEq(string(expected), string(actual))

	got, err := k.GetRecipients(ctx, distributor)
	s.Require().NoError(err)
	s.Assert().Equal([]sdk.AccAddress{recipients[1], recipients[0]}, got, "recipient order should survive genesis")

	got, err = k.GetDistributors(ctx, recipients[1])
	s.Require().NoError(err)
	s.Assert().Equal([]sdk.AccAddress{distributor, other}, got)

	// appending after import continues the sequence
	third := utils.TestAddress().AccAddress()
	bal, err := k.BalanceOf(ctx, distributor)
	s.Require().NoError(err)
	s.Require().True(bal.IsPositive())
	_, err = k.Allocate(ctx, distributor, third, tokens(1))
	s.Require().NoError(err)
	got, err = k.GetRecipients(ctx, distributor)
	s.Require().NoError(err)
	s.Assert().Equal([]sdk.AccAddress{recipients[1], recipients[0], third}, got)
}

func (s *TestSuite) TestGenesis_InitNilDoesNothing() {
	s.k.InitGenesis(s.ctx, nil)
	_, err := s.k.Params.Get(s.ctx)
	s.Require().Error(err, "params should not be stored")
}

func (s *TestSuite) TestGenesis_InitPanicsOnInvalidState() {
	genesis := types.DefaultGenesisState()
	genesis.Balances = []types.ShareBalance{{Address: utils.TestAddress().Bech32, Shares: sdkmath.NewInt(10)}}

	s.Require().PanicsWithError(
		"invalid vault genesis state: sum of balances 10 does not match total shares 0",
		func() { s.k.InitGenesis(s.ctx, genesis) },
	)
}

func (s *TestSuite) TestGenesis_ExportOmitsEmptiedBalances() {
	alice := s.newDepositor(tokens(10))
	bob := s.newDepositor(tokens(20))
	_, _, err := s.k.Withdraw(s.ctx, alice, tokens(10))
	s.Require().NoError(err)

	exported := s.k.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Balances, 1)
	s.Assert().Equal(bob.String(), exported.Balances[0].Address)
	s.Assert().Equal(tokens(20).String(), exported.Balances[0].Shares.String())
}
