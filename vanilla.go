package cfr

import (
	"github.com/elanzuo/cfr-lab/internal/f32"
)

// Vanilla implements full-tree ("vanilla") counterfactual regret
// minimization: every chance outcome is enumerated with its exact
// probability and every player action is traversed on every iteration.
// Both players' regrets are updated in a single pass over the tree.
type Vanilla struct {
	table     *StrategyTable
	slicePool *floatSlicePool
}

// NewVanilla creates a solver that accumulates into the given table.
// The table is owned by exactly one solver for the duration of a run;
// it is never reset implicitly.
func NewVanilla(table *StrategyTable) *Vanilla {
	return &Vanilla{
		table:     table,
		slicePool: &floatSlicePool{},
	}
}

// Run performs a single CFR iteration over the full game tree rooted at
// the given node, and returns the expected game value for player 0
// under the strategy profile in play during the iteration.
func (v *Vanilla) Run(root GameTreeNode) float32 {
	ev := v.runHelper(root, 0, 1.0, 1.0, 1.0)
	v.table.Update()
	return ev
}

// runHelper returns the expected value of this subtree from the point
// of view of lastPlayer. reachP0 and reachP1 are the products of the
// action probabilities chosen by each player on the path from the root;
// reachChance is the product of the chance outcome probabilities.
func (v *Vanilla) runHelper(node GameTreeNode, lastPlayer int, reachP0, reachP1, reachChance float32) float32 {
	var ev float32
	switch node.Type() {
	case TerminalNodeType:
		ev = node.Utility(lastPlayer)
	case ChanceNodeType:
		ev = v.handleChanceNode(node, lastPlayer, reachP0, reachP1, reachChance)
	default:
		sgn := getSign(lastPlayer, node.Player())
		ev = sgn * v.handlePlayerNode(node, reachP0, reachP1, reachChance)
	}

	node.Close()
	return ev
}

func (v *Vanilla) handleChanceNode(node GameTreeNode, lastPlayer int, reachP0, reachP1, reachChance float32) float32 {
	var expectedValue float32
	for i := 0; i < node.NumChildren(); i++ {
		child := node.GetChild(i)
		p := node.GetChildProbability(i)
		expectedValue += p * v.runHelper(child, lastPlayer, reachP0, reachP1, reachChance*p)
	}

	return expectedValue
}

func (v *Vanilla) handlePlayerNode(node GameTreeNode, reachP0, reachP1, reachChance float32) float32 {
	player := node.Player()

	if node.NumChildren() == 1 { // Fast path for trivial nodes with no real choice.
		child := node.GetChild(0)
		return v.runHelper(child, player, reachP0, reachP1, reachChance)
	}

	strat := v.table.GetPolicy(node)
	actionUtils := v.slicePool.alloc(node.NumChildren())
	for i := 0; i < node.NumChildren(); i++ {
		child := node.GetChild(i)
		p := strat[i]
		if player == 0 {
			actionUtils[i] = v.runHelper(child, player, p*reachP0, reachP1, reachChance)
		} else {
			actionUtils[i] = v.runHelper(child, player, reachP0, p*reachP1, reachChance)
		}
	}

	cfValue := f32.DotUnitary(strat, actionUtils)

	// The instantaneous regret for each action is its counterfactual
	// value less the node's overall value, weighted by the probability
	// that the *other* player and chance reach this node.
	counterFactualP := counterFactualProb(player, reachP0, reachP1, reachChance)
	f32.AddConst(-cfValue, actionUtils)
	f32.ScalUnitary(counterFactualP, actionUtils)
	v.table.AddRegret(node, actionUtils)
	v.table.AddStrategyWeight(node, reachProb(player, reachP0, reachP1, reachChance))

	v.slicePool.free(actionUtils)
	return cfValue
}

func getSign(lastPlayer, player int) float32 {
	if player == lastPlayer {
		return 1.0
	}

	return -1.0
}

// The probability of reaching this node under the current profile,
// from the given player's point of view.
func reachProb(player int, reachP0, reachP1, reachChance float32) float32 {
	if player == 0 {
		return reachP0 * reachChance
	}

	return reachP1 * reachChance
}

// The probability of reaching this node, assuming that the given player
// tried to reach it.
func counterFactualProb(player int, reachP0, reachP1, reachChance float32) float32 {
	if player == 0 {
		return reachP1 * reachChance
	}

	return reachP0 * reachChance
}
