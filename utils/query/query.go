package query

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDef is the definition of a keeper read query to be tested.
// R is the request type. S is the response type.
type TestDef[R any, S any] struct {
	// QueryName is the name of the query being tested.
	QueryName string
	// Query is the query function to invoke.
	Query func(ctx sdk.Context, req R) (S, error)
	// PostCheck is a function that runs any desired followup assertions to help pinpoint
	// differences between the expected and actual. It's only called if they're not equal.
	PostCheck func(expected, actual S)
}

// TestCase is a test case for a keeper read query.
// R is the request type. S is the response type.
type TestCase[R any, S any] struct {
	// Name is the name of the test case.
	Name string
	// Setup is a function that does any needed app/state setup.
	// A cached context is used for tests, so this setup will not carry over between test cases.
	Setup func()
	// Req is the request to provide to the query. Setup may overwrite it through a closure.
	Req func() R
	// ExpectedResp is the expected response from the query.
	ExpectedResp func() S
	// ExpectedErrSubstrs is the strings that are expected to be in the error returned by the query.
	// If empty, that error is expected to be nil.
	ExpectedErrSubstrs []string
}

type TestSuiter interface {
	Context() sdk.Context
	SetContext(ctx sdk.Context)
	Require() *require.Assertions
	Assert() *assert.Assertions
}

// RunTestCase runs a unit test on a keeper read query.
// A cached context is used so each test case won't affect the others.
// Queries must be pure reads, so any event emitted while running one fails the test.
// Responses are compared by their %v rendering since math.Int values are not DeepEqual-safe.
func RunTestCase[R any, S any](s TestSuiter, td TestDef[R, S], tc TestCase[R, S]) {
	origCtx := s.Context()
	defer func() {
		s.SetContext(origCtx)
	}()
	ctx, _ := s.Context().CacheContext()
	s.SetContext(ctx)

	if tc.Setup != nil {
		tc.Setup()
	}

	queryCtx := s.Context().WithEventManager(sdk.NewEventManager())
	var resp S
	var err error
	testFunc := func() {
		resp, err = td.Query(queryCtx, tc.Req())
	}
	s.Require().NotPanics(testFunc, td.QueryName)
	s.Assert().Emptyf(queryCtx.EventManager().Events(), "%s should not emit events", td.QueryName)

	if len(tc.ExpectedErrSubstrs) != 0 {
		s.Assert().Errorf(err, "%s error", td.QueryName)
		if err == nil {
			return
		}
		for _, substr := range tc.ExpectedErrSubstrs {
			s.Assert().Containsf(err.Error(), substr, "%s error missing expected substring", td.QueryName)
		}
		return
	}

	s.Require().NoErrorf(err, "%s error", td.QueryName)
	expected := tc.ExpectedResp()
	if !s.Assert().Equalf(fmt.Sprintf("%v", expected), fmt.Sprintf("%v", resp), "%s response", td.QueryName) && td.PostCheck != nil {
		td.PostCheck(expected, resp)
	}
}
