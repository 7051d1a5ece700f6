package kuhn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	cfr "github.com/elanzuo/cfr-lab"
)

// State is one node of the Kuhn game tree. The history holds the
// chance actions (card values, one per player) followed by the betting
// actions; everything else is derived bookkeeping carried along so
// terminal detection and settlement stay O(1).
//
// States are immutable by convention: Apply derives a child instead of
// mutating the receiver, and Clone is proportional to the history
// length, not the tree size.
type State struct {
	config Config

	history       []int
	cardDealt     []int // card value -> player holding it, or invalidPlayer
	firstBettor   int
	winner        int
	pot           int
	contributions []int

	children      []State
	probabilities []float32
}

var _ cfr.GameTreeNode = &State{}

// NewGame validates the configuration and returns the root state:
// antes posted, no cards dealt, empty betting history.
func NewGame(config Config) (*State, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		config:        config,
		cardDealt:     make([]int, config.DeckSize),
		firstBettor:   invalidPlayer,
		winner:        invalidPlayer,
		pot:           config.Ante * config.NumPlayers,
		contributions: make([]int, config.NumPlayers),
	}

	for i := range s.cardDealt {
		s.cardDealt[i] = invalidPlayer
	}

	for i := range s.contributions {
		s.contributions[i] = config.Ante
	}

	return s, nil
}

// String implements fmt.Stringer.
func (s *State) String() string {
	return fmt.Sprintf("history: %v, pot: %d, winner: %d", s.history, s.pot, s.winner)
}

// IsTerminal returns true once the hand has been settled: a fold, all
// players passing, or a bet fully answered.
func (s *State) IsTerminal() bool {
	return s.winner != invalidPlayer
}

// LegalActions returns the ordered actions available in this state:
// the undealt card values during the deal phase, Pass and Bet during
// betting, and nothing once terminal.
func (s *State) LegalActions() []int {
	if s.IsTerminal() {
		return nil
	}

	if len(s.history) < s.config.NumPlayers {
		actions := make([]int, 0, s.config.DeckSize)
		for card, owner := range s.cardDealt {
			if owner == invalidPlayer {
				actions = append(actions, card)
			}
		}

		return actions
	}

	return []int{Pass, Bet}
}

// Clone returns an independent copy safe for divergent continuation.
func (s *State) Clone() *State {
	return &State{
		config:        s.config,
		history:       append([]int(nil), s.history...),
		cardDealt:     append([]int(nil), s.cardDealt...),
		firstBettor:   s.firstBettor,
		winner:        s.winner,
		pot:           s.pot,
		contributions: append([]int(nil), s.contributions...),
	}
}

// Apply returns the state reached by taking the given action. The
// receiver is left untouched. Taking an action in a terminal state or
// an action outside LegalActions fails with ErrIllegalAction.
func (s *State) Apply(action int) (*State, error) {
	if s.IsTerminal() {
		return nil, errors.Wrapf(ErrIllegalAction, "hand is already over (%v)", s.history)
	}

	legal := false
	for _, a := range s.LegalActions() {
		if a == action {
			legal = true
			break
		}
	}

	if !legal {
		return nil, errors.Wrapf(ErrIllegalAction, "action %d with history %v", action, s.history)
	}

	child := s.Clone()
	child.applyAction(action)
	return child, nil
}

// applyAction mutates the state in place. Callers must have verified
// legality; it is only reached through Apply and buildChildren.
func (s *State) applyAction(action int) {
	if len(s.history) < s.config.NumPlayers {
		// Deal phase: the card goes to the player dealt next.
		s.cardDealt[action] = len(s.history)
	} else if action == Bet {
		actor := len(s.history) % s.config.NumPlayers
		if s.firstBettor == invalidPlayer {
			s.firstBettor = actor
		}
		s.pot += s.config.BetSize
		s.contributions[actor] += s.config.BetSize
	}

	s.history = append(s.history, action)
	s.maybeSettle()
}

func (s *State) maybeSettle() {
	numActions := len(s.history) - s.config.NumPlayers

	if s.firstBettor == invalidPlayer {
		if numActions == s.config.NumPlayers {
			// Everyone passed: highest dealt card takes the antes.
			s.winner = s.highestDealt(func(int) bool { return true })
		}

		return
	}

	// Once somebody bets, the hand ends when every other player has
	// responded, i.e. after NumPlayers+firstBettor betting actions.
	if numActions == s.config.NumPlayers+s.firstBettor {
		s.winner = s.highestDealt(s.didBet)
	}
}

// highestDealt returns the eligible player holding the best card.
func (s *State) highestDealt(eligible func(player int) bool) int {
	for card := s.config.DeckSize - 1; card >= 0; card-- {
		if player := s.cardDealt[card]; player != invalidPlayer && eligible(player) {
			return player
		}
	}

	return invalidPlayer
}

// didBet reports whether the player put in the bet (opened or called).
func (s *State) didBet(player int) bool {
	if s.firstBettor == invalidPlayer {
		return false
	}

	if player == s.firstBettor {
		return true
	}

	if player > s.firstBettor {
		// Players after the opener respond in the same orbit.
		idx := s.config.NumPlayers + player
		return idx < len(s.history) && s.history[idx] == Bet
	}

	// Players before the opener respond on their second action.
	idx := 2*s.config.NumPlayers + player
	return idx < len(s.history) && s.history[idx] == Bet
}

// Returns gives the net chip outcome for every player. It fails with
// ErrNotTerminal while the hand is live.
func (s *State) Returns() ([]float32, error) {
	if !s.IsTerminal() {
		return nil, errors.Wrapf(ErrNotTerminal, "history %v", s.history)
	}

	outcomes := make([]float32, s.config.NumPlayers)
	for p := range outcomes {
		put := float32(s.contributions[p])
		if p == s.winner {
			outcomes[p] = float32(s.pot) - put
		} else {
			outcomes[p] = -put
		}
	}

	return outcomes, nil
}

// Payoff gives the net chip outcome for one player.
func (s *State) Payoff(player int) (float32, error) {
	if player < 0 || player >= s.config.NumPlayers {
		return 0, errors.Wrapf(ErrInvalidPlayer, "player %d", player)
	}

	outcomes, err := s.Returns()
	if err != nil {
		return 0, err
	}

	return outcomes[player], nil
}

// Type implements cfr.GameTreeNode.
func (s *State) Type() cfr.NodeType {
	switch {
	case s.IsTerminal():
		return cfr.TerminalNodeType
	case len(s.history) < s.config.NumPlayers:
		return cfr.ChanceNodeType
	default:
		return cfr.PlayerNodeType
	}
}

// Player implements cfr.GameTreeNode.
func (s *State) Player() int {
	return len(s.history) % s.config.NumPlayers
}

// InfoSetKey implements cfr.GameTreeNode. The key is everything the
// player can observe: their private card followed by the public betting
// sequence, e.g. "2pb".
func (s *State) InfoSetKey(player int) string {
	var sb strings.Builder
	if len(s.history) > player {
		sb.WriteString(strconv.Itoa(s.history[player]))
	}

	for i := s.config.NumPlayers; i < len(s.history); i++ {
		if s.history[i] == Bet {
			sb.WriteByte('b')
		} else {
			sb.WriteByte('p')
		}
	}

	return sb.String()
}

// Utility implements cfr.GameTreeNode. The traversal only evaluates
// terminal nodes, so a live hand here is an invariant violation and
// panics rather than being silently swallowed.
func (s *State) Utility(player int) float32 {
	outcomes, err := s.Returns()
	if err != nil {
		panic(err)
	}

	return outcomes[player]
}

// NumChildren implements cfr.GameTreeNode.
func (s *State) NumChildren() int {
	s.buildChildren()
	return len(s.children)
}

// GetChild implements cfr.GameTreeNode.
func (s *State) GetChild(i int) cfr.GameTreeNode {
	s.buildChildren()
	return &s.children[i]
}

// GetChildProbability implements cfr.GameTreeNode. Deals are uniform
// over the cards still in the deck.
func (s *State) GetChildProbability(i int) float32 {
	s.buildChildren()
	return s.probabilities[i]
}

// Close implements cfr.GameTreeNode.
func (s *State) Close() {
	s.children = nil
	s.probabilities = nil
}

func (s *State) buildChildren() {
	if s.children != nil || s.IsTerminal() {
		return
	}

	actions := s.LegalActions()
	s.children = make([]State, len(actions))
	for i, a := range actions {
		child := s.Clone()
		child.applyAction(a)
		s.children[i] = *child
	}

	if len(s.history) < s.config.NumPlayers {
		s.probabilities = make([]float32, len(actions))
		p := 1.0 / float32(len(actions))
		for i := range s.probabilities {
			s.probabilities[i] = p
		}
	}
}
