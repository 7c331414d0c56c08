package models

import (
	"errors"
	"fmt"
	"math"
)

// OptionKind identifies the option contract type of a leg.
type OptionKind string

// Action identifies which side of a leg is taken.
type Action string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"

	Buy  Action = "buy"
	Sell Action = "sell"
)

var (
	ErrInvalidKind   = errors.New("invalid option kind")
	ErrInvalidAction = errors.New("invalid action")
)

// Position is a single option leg. Positions are immutable once constructed
// and owned by the Strategy holding them.
type Position struct {
	Kind     OptionKind
	Action   Action
	Strike   float64
	Premium  float64
	Quantity int
}

// NewPosition builds a validated leg with quantity 1.
func NewPosition(kind OptionKind, action Action, strike, premium float64) (Position, error) {
	p := Position{
		Kind:     kind,
		Action:   action,
		Strike:   strike,
		Premium:  premium,
		Quantity: 1,
	}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Validate checks the two-valued kind/action enumerations. A violation is a
// schema mismatch with the caller, not a recoverable data error.
func (p Position) Validate() error {
	switch p.Kind {
	case Call, Put:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, p.Kind)
	}
	switch p.Action {
	case Buy, Sell:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, p.Action)
	}
	return nil
}

// Payoff returns the leg's value at expiry for a terminal underlying price.
// A bought leg pays its premium up front and collects intrinsic value; a sold
// leg collects the premium and owes intrinsic value.
func (p Position) Payoff(terminalPrice float64) (float64, error) {
	var intrinsic float64
	switch p.Kind {
	case Call:
		intrinsic = math.Max(terminalPrice-p.Strike, 0)
	case Put:
		intrinsic = math.Max(p.Strike-terminalPrice, 0)
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, p.Kind)
	}

	qty := p.Quantity
	if qty == 0 {
		qty = 1
	}

	switch p.Action {
	case Buy:
		return float64(qty) * (intrinsic - p.Premium), nil
	case Sell:
		return float64(qty) * (p.Premium - intrinsic), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, p.Action)
	}
}
