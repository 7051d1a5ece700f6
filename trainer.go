package cfr

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Trainer drives batches of vanilla CFR iterations over a fixed game
// tree, accumulating into a single StrategyTable that it owns.
//
// Run is a blocking call and the Trainer is not safe for concurrent
// use: a snapshot must not be taken while a Run call is executing.
// A driver that wants progress reporting or pausable training calls
// Run repeatedly with small batch sizes, snapshotting in between.
type Trainer struct {
	root    GameTreeNode
	table   *StrategyTable
	vanilla *Vanilla
}

// NewTrainer creates a Trainer with a fresh table.
func NewTrainer(root GameTreeNode, params DiscountParams) *Trainer {
	table := NewStrategyTable(params)
	return &Trainer{
		root:    root,
		table:   table,
		vanilla: NewVanilla(table),
	}
}

// ResumeTrainer creates a Trainer that continues accumulating into a
// previously built table, e.g. one reloaded with LoadStrategyTable.
func ResumeTrainer(root GameTreeNode, table *StrategyTable) *Trainer {
	return &Trainer{
		root:    root,
		table:   table,
		vanilla: NewVanilla(table),
	}
}

// Run performs nIter full-tree CFR iterations. Calling Run N times with
// batch size 1 is equivalent to calling it once with batch size N.
func (t *Trainer) Run(nIter int) error {
	if nIter < 1 {
		return errors.Errorf("number of iterations must be positive, got %d", nIter)
	}

	for i := 0; i < nIter; i++ {
		ev := t.vanilla.Run(t.root)
		glog.V(1).Infof("[iter=%d] expected game value: %.4f (%d infosets)",
			t.Iter(), ev, t.table.NumInfoSets())
	}

	return nil
}

// Iter returns the number of completed iterations.
func (t *Trainer) Iter() int {
	return t.table.Iter() - 1
}

// Table exposes the underlying accumulator table, e.g. for persistence.
func (t *Trainer) Table() *StrategyTable {
	return t.table
}

// Snapshot exports the current accumulated state, tagged with the
// number of completed iterations. It must not be called while Run is
// executing.
func (t *Trainer) Snapshot() *Snapshot {
	return t.table.Snapshot(t.Iter())
}
