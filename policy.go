package cfr

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/elanzuo/cfr-lab/internal/f32"
)

// StrategyTable implements tabular CFR by storing accumulated regrets
// and strategy sums for each information set, looked up by its key.
//
// Entries are created lazily the first time an information set is
// touched and persist until the table is discarded. The two accumulator
// vectors for an entry always have the same length as the number of
// actions available at that information set.
type StrategyTable struct {
	params DiscountParams
	iter   int

	// Map of InfoSet Key -> strategy for that infoset.
	strategies  map[string]*strategy
	needsUpdate map[*strategy]struct{}
}

// NewStrategyTable creates a new StrategyTable with the given DiscountParams.
func NewStrategyTable(params DiscountParams) *StrategyTable {
	return &StrategyTable{
		params:      params,
		iter:        1,
		strategies:  make(map[string]*strategy),
		needsUpdate: make(map[*strategy]struct{}),
	}
}

// Update commits the current iteration: it folds the current strategy
// into the strategy sum (weighted by accumulated reach probability) and
// performs regret matching for all entries touched since the last call
// to Update.
func (st *StrategyTable) Update() {
	discountPos, discountNeg, discountSum := st.params.GetDiscountFactors(st.iter)
	glog.V(2).Infof("updating %d policies", len(st.needsUpdate))
	for s := range st.needsUpdate {
		s.nextStrategy(discountPos, discountNeg, discountSum)
	}

	st.needsUpdate = make(map[*strategy]struct{})
	st.iter++
}

// Iter returns the current iteration number (starting at 1).
func (st *StrategyTable) Iter() int {
	return st.iter
}

// NumInfoSets returns the number of information sets tracked so far.
func (st *StrategyTable) NumInfoSets() int {
	return len(st.strategies)
}

// AddRegret accumulates the given instantaneous regrets, already scaled
// by the counterfactual reach probability, for the node's information set.
func (st *StrategyTable) AddRegret(node GameTreeNode, instantaneousRegrets []float32) {
	s := st.getStrategy(node)
	s.AddRegret(instantaneousRegrets)
	st.needsUpdate[s] = struct{}{}
}

// GetPolicy returns the current (regret-matched) strategy for the
// node's information set. The returned slice is owned by the table and
// must not be modified or retained across a call to Update.
func (st *StrategyTable) GetPolicy(node GameTreeNode) []float32 {
	s := st.getStrategy(node)
	return s.GetPolicy()
}

// AddStrategyWeight accumulates the traversing player's reach
// probability for the node's information set. The pending weight is
// applied to the strategy sum on the next call to Update.
func (st *StrategyTable) AddStrategyWeight(node GameTreeNode, w float32) {
	s := st.getStrategy(node)
	s.AddStrategyWeight(w)
	st.needsUpdate[s] = struct{}{}
}

// GetAverageStrategy returns the normalized average strategy for the
// node's information set. The average strategy, not the current one, is
// the quantity that converges to equilibrium.
func (st *StrategyTable) GetAverageStrategy(node GameTreeNode) []float32 {
	s := st.getStrategy(node)
	return s.GetAverageStrategy()
}

func (st *StrategyTable) getStrategy(node GameTreeNode) *strategy {
	p := node.Player()
	key := node.InfoSetKey(p)

	s, ok := st.strategies[key]
	if !ok {
		s = newStrategy(node.NumChildren())
		st.strategies[key] = s
		if len(st.strategies)%100000 == 0 {
			glog.Infof("%d infosets", len(st.strategies))
		}
	}

	if s.numActions() != node.NumChildren() {
		panic(fmt.Errorf("strategy has n_actions=%v but node has n_children=%v: %v",
			s.numActions(), node.NumChildren(), node))
	}

	return s
}

type strategy struct {
	currentStrategy       []float32
	currentStrategyWeight float32

	regretSum   []float32
	strategySum []float32
}

func newStrategy(nActions int) *strategy {
	return &strategy{
		currentStrategy:       uniformDist(nActions),
		currentStrategyWeight: 0.0,
		regretSum:             make([]float32, nActions),
		strategySum:           make([]float32, nActions),
	}
}

func (s *strategy) GetPolicy() []float32 {
	return s.currentStrategy
}

func (s *strategy) nextStrategy(discountPositiveRegret, discountNegativeRegret, discountStrategySum float32) {
	if discountStrategySum != 1.0 {
		f32.ScalUnitary(discountStrategySum, s.strategySum)
	}

	f32.AxpyUnitary(s.currentStrategyWeight, s.currentStrategy, s.strategySum)

	if discountPositiveRegret != 1.0 {
		for i, x := range s.regretSum {
			if x > 0 {
				s.regretSum[i] *= discountPositiveRegret
			}
		}
	}

	if discountNegativeRegret != 1.0 {
		for i, x := range s.regretSum {
			if x < 0 {
				s.regretSum[i] *= discountNegativeRegret
			}
		}
	}

	s.regretMatching()
	s.currentStrategyWeight = 0.0
}

// regretMatching sets the current strategy proportional to the positive
// part of the accumulated regrets, falling back to the uniform
// distribution when no action has positive regret.
func (s *strategy) regretMatching() {
	copy(s.currentStrategy, s.regretSum)
	makePositive(s.currentStrategy)
	total := f32.Sum(s.currentStrategy)
	if total > 0 {
		f32.ScalUnitary(1.0/total, s.currentStrategy)
	} else {
		for i := range s.currentStrategy {
			s.currentStrategy[i] = 1.0 / float32(len(s.currentStrategy))
		}
	}
}

func (s *strategy) numActions() int {
	return len(s.regretSum)
}

func (s *strategy) AddRegret(instantaneousRegrets []float32) {
	f32.Add(s.regretSum, instantaneousRegrets)
}

func (s *strategy) AddStrategyWeight(w float32) {
	s.currentStrategyWeight += w
}

func (s *strategy) GetAverageStrategy() []float32 {
	total := f32.Sum(s.strategySum)
	if total > 0 {
		avgStrat := make([]float32, len(s.strategySum))
		f32.ScalUnitaryTo(avgStrat, 1.0/total, s.strategySum)
		return avgStrat
	}

	return uniformDist(len(s.regretSum))
}

func uniformDist(n int) []float32 {
	result := make([]float32, n)
	p := 1.0 / float32(n)
	f32.AddConst(p, result)
	return result
}

func makePositive(v []float32) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}

// ThreadSafeStrategyTable wraps StrategyTable and is safe to use from
// multiple goroutines. The table is the only shared mutable state in a
// training run; callers that interleave traversal and snapshotting from
// different goroutines must go through this wrapper.
type ThreadSafeStrategyTable struct {
	mu sync.Mutex
	st *StrategyTable
}

func NewThreadSafeStrategyTable(params DiscountParams) *ThreadSafeStrategyTable {
	st := NewStrategyTable(params)
	return &ThreadSafeStrategyTable{st: st}
}

func (st *ThreadSafeStrategyTable) Update() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.st.Update()
}

func (st *ThreadSafeStrategyTable) Iter() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.st.Iter()
}

func (st *ThreadSafeStrategyTable) AddRegret(node GameTreeNode, instantaneousRegrets []float32) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.st.AddRegret(node, instantaneousRegrets)
}

func (st *ThreadSafeStrategyTable) GetPolicy(node GameTreeNode) []float32 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.st.GetPolicy(node)
}

func (st *ThreadSafeStrategyTable) AddStrategyWeight(node GameTreeNode, w float32) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.st.AddStrategyWeight(node, w)
}

func (st *ThreadSafeStrategyTable) GetAverageStrategy(node GameTreeNode) []float32 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.st.GetAverageStrategy(node)
}

func (st *ThreadSafeStrategyTable) Snapshot(iter int) *Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.st.Snapshot(iter)
}

func (st *ThreadSafeStrategyTable) MarshalTo(w io.Writer) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.st.MarshalTo(w)
}
