package models

import "fmt"

// Strategy is an ordered collection of legs. Leg order never changes the net
// payoff, it is preserved for display only.
type Strategy struct {
	Legs []Position
}

// NewStrategy validates every leg up front so payoff evaluation stays pure.
// An invalid kind or action aborts construction.
func NewStrategy(legs ...Position) (*Strategy, error) {
	for i, leg := range legs {
		if err := leg.Validate(); err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
	}
	s := &Strategy{Legs: make([]Position, len(legs))}
	copy(s.Legs, legs)
	return s, nil
}

// NetPayoff is the unweighted sum of all leg payoffs at the same terminal
// price. Legs are validated at construction, so per-leg errors cannot occur.
func (s *Strategy) NetPayoff(terminalPrice float64) float64 {
	total := 0.0
	for _, leg := range s.Legs {
		v, _ := leg.Payoff(terminalPrice)
		total += v
	}
	return total
}
