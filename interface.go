package cfr

// NodeType is the type of node in an extensive-form game tree.
type NodeType int

const (
	ChanceNodeType NodeType = iota
	TerminalNodeType
	PlayerNodeType
)

// GameTreeNode is the interface for a node in an extensive-form game tree.
type GameTreeNode interface {
	// Type returns the type of game node.
	Type() NodeType

	// The number of direct children of this node.
	NumChildren() int
	// Get the ith child of this node.
	GetChild(i int) GameTreeNode
	// Get the probability of the ith child of this node.
	// May only be called for nodes with Type() == ChanceNodeType.
	GetChildProbability(i int) float32

	// Player returns this node's acting player.
	// It may only be called for nodes with Type() == PlayerNodeType.
	Player() int
	// InfoSetKey returns an identifier for the information set containing
	// this node, from the point of view of the given player.
	//
	// It may be an arbitrary string of bytes and does not need to be
	// human-readable. For example, it could be a simplified abstraction
	// or hash of the full game history.
	InfoSetKey(player int) string
	// Utility returns this node's utility for the given player.
	// It may only be called for nodes with Type() == TerminalNodeType.
	Utility(player int) float32

	// Close releases resources allocated while expanding this node's
	// children. After calling Close, NumChildren, GetChild, and
	// GetChildProbability may no longer be called (unless the node
	// is re-expanded).
	Close()
}
