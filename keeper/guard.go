package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/stakevault/types"
)

// inFlightKey marks a context derived inside atomically. The value is the name
// of the operation that derived it.
type inFlightKey struct{}

// atomically runs fn against a cached branch of ctx and commits the branch,
// events included, only when fn succeeds.
//
// The branch handed to fn is marked as in flight, so a mutating call made with
// it, or with any context a collaborator derives from it, fails with
// ErrReentrantCall before anything is read or written. Calls on unrelated
// contexts are unaffected.
func (k *Keeper) atomically(ctx sdk.Context, op string, fn func(ctx sdk.Context) error) error {
	if outer, ok := ctx.Value(inFlightKey{}).(string); ok {
		return types.ErrReentrantCall.Wrapf("%s called while %s is in progress", op, outer)
	}

	cacheCtx, write := ctx.CacheContext()
	events := sdk.NewEventManager()
	if err := fn(cacheCtx.WithEventManager(events).WithValue(inFlightKey{}, op)); err != nil {
		k.getLogger(ctx).Debug("operation reverted", "op", op, "error", err)
		return err
	}
	write()
	ctx.EventManager().EmitEvents(events.Events())
	return nil
}
