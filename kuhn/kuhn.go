// Package kuhn implements an extensive-form game tree for Kuhn Poker,
// generalized over deck size, ante, and bet size. Each player antes,
// receives one card from the deck without replacement, and the hand is
// resolved after a single round of betting: a fold, all players
// passing, or a bet being fully called.
package kuhn

import (
	"fmt"

	"github.com/pkg/errors"

	cfr "github.com/elanzuo/cfr-lab"
)

// Betting-phase actions. During the deal phase the legal actions are
// the undealt card values instead.
const (
	Pass = 0
	Bet  = 1
)

const invalidPlayer = -1

var (
	// ErrIllegalAction is returned by Apply for an action that is not
	// legal in the current state.
	ErrIllegalAction = errors.New("kuhn: action is not legal in this state")
	// ErrNotTerminal is returned by Payoff and Returns while the hand
	// is still live.
	ErrNotTerminal = errors.New("kuhn: hand is not terminal")
	// ErrInvalidPlayer is returned by Payoff for a player index outside
	// the configured game.
	ErrInvalidPlayer = errors.New("kuhn: player index out of range")
)

// Config holds the numeric game parameters. It is validated once by
// NewGame; invalid combinations never reach the traversal logic.
type Config struct {
	// NumPlayers is the number of players dealt into the hand.
	NumPlayers int
	// DeckSize is the number of distinct cards, 0..DeckSize-1.
	// A higher card beats a lower one at showdown.
	DeckSize int
	// BetSize is the number of chips added by a bet or call.
	BetSize int
	// Ante is the number of chips each player posts before the deal.
	Ante int
}

// DefaultConfig is the canonical three-card game: two players, one
// chip ante, one chip bet.
func DefaultConfig() Config {
	return Config{NumPlayers: 2, DeckSize: 3, BetSize: 1, Ante: 1}
}

// ConfigError reports an invalid game configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("kuhn: invalid config: %s %s", e.Field, e.Reason)
}

// Validate checks that the configuration describes a playable game.
func (c Config) Validate() error {
	if c.NumPlayers < 2 {
		return &ConfigError{Field: "NumPlayers", Reason: "must be at least 2"}
	}

	if c.DeckSize < c.NumPlayers+1 {
		return &ConfigError{Field: "DeckSize", Reason: "must exceed the number of players"}
	}

	if c.BetSize <= 0 {
		return &ConfigError{Field: "BetSize", Reason: "must be positive"}
	}

	if c.Ante <= 0 {
		return &ConfigError{Field: "Ante", Reason: "must be positive"}
	}

	return nil
}

// NewTrainer constructs a cfr.Trainer over a fresh game tree for the
// given configuration. The solver's reach bookkeeping and sign handling
// are strictly two-player zero-sum, so although the state machine
// itself supports more players, training requires NumPlayers == 2.
func NewTrainer(config Config, params cfr.DiscountParams) (*cfr.Trainer, error) {
	if config.NumPlayers != 2 {
		return nil, &ConfigError{Field: "NumPlayers", Reason: "must be 2 for CFR training"}
	}

	root, err := NewGame(config)
	if err != nil {
		return nil, err
	}

	return cfr.NewTrainer(root, params), nil
}
