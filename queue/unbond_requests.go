package queue

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/collections/indexes"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// UnbondRequestIndexes defines the indexes for the unbond request store.
type UnbondRequestIndexes struct {
	ByOwner *indexes.Multi[sdk.AccAddress, uint64, types.WithdrawalRequest]
}

// IndexesList returns the list of indexes for the unbond request store.
func (i UnbondRequestIndexes) IndexesList() []collections.Index[uint64, types.WithdrawalRequest] {
	return []collections.Index[uint64, types.WithdrawalRequest]{i.ByOwner}
}

// NewUnbondRequestIndexes creates a new UnbondRequestIndexes object.
func NewUnbondRequestIndexes(sb *collections.SchemaBuilder) UnbondRequestIndexes {
	return UnbondRequestIndexes{
		ByOwner: indexes.NewMulti(
			sb,
			types.UnbondRequestsByOwnerIndexPrefix,
			types.UnbondRequestsByOwnerIndexName,
			sdk.AccAddressKey,
			collections.Uint64Key,
			func(_ uint64, req types.WithdrawalRequest) (sdk.AccAddress, error) {
				return sdk.AccAddressFromBech32(req.Owner)
			},
		),
	}
}

// UnbondRequests holds withdrawals waiting on the staking module, keyed by unbond nonce.
type UnbondRequests struct {
	IndexedMap *collections.IndexedMap[uint64, types.WithdrawalRequest, UnbondRequestIndexes]
}

// NewUnbondRequests creates a new UnbondRequests store.
func NewUnbondRequests(builder *collections.SchemaBuilder) *UnbondRequests {
	return &UnbondRequests{
		IndexedMap: collections.NewIndexedMap(
			builder,
			types.UnbondRequestsKeyPrefix,
			types.UnbondRequestsName,
			collections.Uint64Key,
			types.WithdrawalRequestValueCodec,
			NewUnbondRequestIndexes(builder),
		),
	}
}

// Add stores a new request. Nonces are issued by the staking module and must be unique.
func (u *UnbondRequests) Add(ctx context.Context, req types.WithdrawalRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	has, err := u.IndexedMap.Has(ctx, req.Nonce)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("unbond request with nonce %d already exists", req.Nonce)
	}
	return u.IndexedMap.Set(ctx, req.Nonce, req)
}

// Get returns the request for nonce, or types.ErrWithdrawalNotFound.
func (u *UnbondRequests) Get(ctx context.Context, nonce uint64) (types.WithdrawalRequest, error) {
	req, err := u.IndexedMap.Get(ctx, nonce)
	if errors.Is(err, collections.ErrNotFound) {
		return types.WithdrawalRequest{}, types.ErrWithdrawalNotFound.Wrapf("nonce %d", nonce)
	}
	return req, err
}

// Remove deletes the request for nonce. Removing an unknown nonce is a no-op.
func (u *UnbondRequests) Remove(ctx context.Context, nonce uint64) error {
	if ok, _ := u.IndexedMap.Has(ctx, nonce); !ok {
		return nil
	}
	return u.IndexedMap.Remove(ctx, nonce)
}

// Walk iterates over all requests in nonce order.
// Iteration stops when the callback returns stop=true or an error.
func (u *UnbondRequests) Walk(ctx context.Context, fn func(nonce uint64, req types.WithdrawalRequest) (stop bool, err error)) error {
	return u.IndexedMap.Walk(ctx, nil, fn)
}

// WalkByOwner iterates over the requests owned by owner in nonce order.
// Iteration stops when the callback returns stop=true or an error.
func (u *UnbondRequests) WalkByOwner(ctx context.Context, owner sdk.AccAddress, fn func(nonce uint64, req types.WithdrawalRequest) (stop bool, err error)) error {
	iter, err := u.IndexedMap.Indexes.ByOwner.MatchExact(ctx, owner)
	if err != nil {
		return err
	}
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		nonce, err := iter.PrimaryKey()
		if err != nil {
			return err
		}
		req, err := u.IndexedMap.Get(ctx, nonce)
		if err != nil {
			return err
		}
		if stop, err := fn(nonce, req); stop || err != nil {
			return err
		}
	}
	return nil
}

// Import imports the unbond requests from genesis.
func (u *UnbondRequests) Import(ctx context.Context, reqs []types.WithdrawalRequest) error {
	for _, req := range reqs {
		if err := u.Add(ctx, req); err != nil {
			return fmt.Errorf("failed to import unbond request %d: %w", req.Nonce, err)
		}
	}
	return nil
}

// Export exports the unbond requests to genesis.
func (u *UnbondRequests) Export(ctx context.Context) ([]types.WithdrawalRequest, error) {
	reqs := make([]types.WithdrawalRequest, 0)
	err := u.Walk(ctx, func(_ uint64, req types.WithdrawalRequest) (bool, error) {
		reqs = append(reqs, req)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk unbond requests: %w", err)
	}
	return reqs, nil
}
