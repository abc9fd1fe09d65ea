package types

import (
	"fmt"
	"strings"
)

// PayoutMode selects how distributed reward shares reach the recipient.
type PayoutMode int32

const (
	// PayoutShares moves the net reward shares into the recipient's balance.
	PayoutShares PayoutMode = iota
	// PayoutUnderlying redeems the net reward shares and pays the recipient the underlying asset.
	PayoutUnderlying
)

var payoutModeNames = map[PayoutMode]string{
	PayoutShares:     "shares",
	PayoutUnderlying: "underlying",
}

// String returns the mode name.
func (m PayoutMode) String() string {
	if name, ok := payoutModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PayoutMode(%d)", int32(m))
}

// Validate returns an error for an unknown mode.
func (m PayoutMode) Validate() error {
	if _, ok := payoutModeNames[m]; !ok {
		return ErrInvalidRequest.Wrapf("unknown payout mode %d", int32(m))
	}
	return nil
}

// ParsePayoutMode parses a mode by name.
func ParsePayoutMode(s string) (PayoutMode, error) {
	for m, name := range payoutModeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return 0, ErrInvalidRequest.Wrapf("unknown payout mode %q", s)
}
