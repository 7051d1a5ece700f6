package kuhn_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfr "github.com/elanzuo/cfr-lab"
	"github.com/elanzuo/cfr-lab/kuhn"
)

// deal returns the player node where p0 and p1 hold the given cards.
func deal(t *testing.T, cfg kuhn.Config, p0Card, p1Card int) *kuhn.State {
	t.Helper()
	root, err := kuhn.NewGame(cfg)
	require.NoError(t, err)

	s, err := root.Apply(p0Card)
	require.NoError(t, err)
	s, err = s.Apply(p1Card)
	require.NoError(t, err)
	return s
}

// play applies a betting line given as a string of 'p' and 'b'.
func play(t *testing.T, s *kuhn.State, line string) *kuhn.State {
	t.Helper()
	for _, c := range line {
		action := kuhn.Pass
		if c == 'b' {
			action = kuhn.Bet
		}
		next, err := s.Apply(action)
		require.NoError(t, err)
		s = next
	}
	return s
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  kuhn.Config
	}{
		{"one player", kuhn.Config{NumPlayers: 1, DeckSize: 3, BetSize: 1, Ante: 1}},
		{"deck too small", kuhn.Config{NumPlayers: 2, DeckSize: 2, BetSize: 1, Ante: 1}},
		{"zero bet", kuhn.Config{NumPlayers: 2, DeckSize: 3, BetSize: 0, Ante: 1}},
		{"zero ante", kuhn.Config{NumPlayers: 2, DeckSize: 3, BetSize: 1, Ante: 0}},
		{"negative ante", kuhn.Config{NumPlayers: 2, DeckSize: 3, BetSize: 1, Ante: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := kuhn.NewGame(tc.cfg)
			require.Error(t, err)
			var cfgErr *kuhn.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "expected a ConfigError, got %v", err)
		})
	}

	_, err := kuhn.NewGame(kuhn.DefaultConfig())
	assert.NoError(t, err)
}

func TestLegalActions(t *testing.T) {
	root, err := kuhn.NewGame(kuhn.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, root.LegalActions())
	assert.Equal(t, cfr.ChanceNodeType, root.Type())

	s, err := root.Apply(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, s.LegalActions(), "dealt card must leave the deck")

	s, err = s.Apply(2)
	require.NoError(t, err)
	assert.Equal(t, []int{kuhn.Pass, kuhn.Bet}, s.LegalActions())
	assert.Equal(t, cfr.PlayerNodeType, s.Type())
	assert.Equal(t, 0, s.Player())

	s = play(t, s, "pp")
	assert.True(t, s.IsTerminal())
	assert.Empty(t, s.LegalActions())
	assert.Equal(t, cfr.TerminalNodeType, s.Type())
}

func TestTerminalPayoffs(t *testing.T) {
	cases := []struct {
		p0Card, p1Card int
		line           string
		want           []float32
	}{
		{0, 1, "pp", []float32{-1, 1}},
		{2, 1, "pp", []float32{1, -1}},
		{0, 1, "bp", []float32{1, -1}}, // p1 folds to the bet
		{0, 2, "bb", []float32{-2, 2}},
		{2, 0, "bb", []float32{2, -2}},
		{1, 2, "pbp", []float32{-1, 1}}, // p0 folds to the bet
		{2, 0, "pbb", []float32{2, -2}},
		{0, 1, "pbb", []float32{-2, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			s := play(t, deal(t, kuhn.DefaultConfig(), tc.p0Card, tc.p1Card), tc.line)
			require.True(t, s.IsTerminal())

			got, err := s.Returns()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "cards %d/%d line %q", tc.p0Card, tc.p1Card, tc.line)

			for p, want := range tc.want {
				payoff, err := s.Payoff(p)
				require.NoError(t, err)
				assert.Equal(t, want, payoff)
			}
		})
	}
}

func TestBiggerBetSizeScalesPayoffs(t *testing.T) {
	cfg := kuhn.Config{NumPlayers: 2, DeckSize: 4, BetSize: 2, Ante: 1}
	s := play(t, deal(t, cfg, 3, 0), "bb")
	got, err := s.Returns()
	require.NoError(t, err)
	assert.Equal(t, []float32{3, -3}, got)
}

func TestPayoffNotTerminal(t *testing.T) {
	s := deal(t, kuhn.DefaultConfig(), 0, 1)
	_, err := s.Returns()
	assert.True(t, errors.Is(err, kuhn.ErrNotTerminal))

	_, err = s.Payoff(0)
	assert.True(t, errors.Is(err, kuhn.ErrNotTerminal))

	_, err = play(t, s, "pp").Payoff(5)
	assert.True(t, errors.Is(err, kuhn.ErrInvalidPlayer))

	_, err = play(t, s, "pp").Payoff(-1)
	assert.True(t, errors.Is(err, kuhn.ErrInvalidPlayer))
}

func TestApplyIllegalAction(t *testing.T) {
	root, err := kuhn.NewGame(kuhn.DefaultConfig())
	require.NoError(t, err)

	// Dealing the same card twice.
	s, err := root.Apply(1)
	require.NoError(t, err)
	_, err = s.Apply(1)
	assert.True(t, errors.Is(err, kuhn.ErrIllegalAction))

	// A card value is not a betting action.
	s = deal(t, kuhn.DefaultConfig(), 0, 1)
	_, err = s.Apply(2)
	assert.True(t, errors.Is(err, kuhn.ErrIllegalAction))

	// No actions once terminal.
	terminal := play(t, s, "pp")
	_, err = terminal.Apply(kuhn.Pass)
	assert.True(t, errors.Is(err, kuhn.ErrIllegalAction))

	// Failed applies never mutate the receiver.
	assert.Equal(t, []int{kuhn.Pass, kuhn.Bet}, s.LegalActions())
	assert.False(t, s.IsTerminal())
}

func TestCloneIndependence(t *testing.T) {
	s := deal(t, kuhn.DefaultConfig(), 0, 1)
	clone := s.Clone()

	_, err := clone.Apply(kuhn.Bet)
	require.NoError(t, err)
	terminal := play(t, clone, "bb")

	assert.False(t, s.IsTerminal(), "advancing a clone must not touch the original")
	assert.Equal(t, "0", s.InfoSetKey(0))
	assert.True(t, terminal.IsTerminal())
}

func TestInfoSetKey(t *testing.T) {
	s := deal(t, kuhn.DefaultConfig(), 2, 0)
	assert.Equal(t, "2", s.InfoSetKey(0))
	assert.Equal(t, "0", s.InfoSetKey(1))

	s = play(t, s, "pb")
	assert.Equal(t, "2pb", s.InfoSetKey(0))
	assert.Equal(t, "0pb", s.InfoSetKey(1))
}
