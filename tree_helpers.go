package cfr

// Visit walks the full game tree rooted at node in depth-first order,
// calling visitor for every node before its children.
func Visit(node GameTreeNode, visitor func(node GameTreeNode)) {
	visitor(node)
	for i := 0; i < node.NumChildren(); i++ {
		child := node.GetChild(i)
		Visit(child, visitor)
	}

	node.Close()
}

// VisitInfoSets calls visitor once for every distinct information set
// in the tree rooted at node.
func VisitInfoSets(node GameTreeNode, visitor func(player int, infoSet string)) {
	seen := make(map[string]struct{})
	Visit(node, func(node GameTreeNode) {
		if node.Type() != PlayerNodeType {
			return
		}

		player := node.Player()
		infoSet := node.InfoSetKey(player)
		if _, ok := seen[infoSet]; ok {
			return
		}

		visitor(player, infoSet)
		seen[infoSet] = struct{}{}
	})
}

func CountNodes(root GameTreeNode) int {
	total := 0
	Visit(root, func(node GameTreeNode) { total++ })
	return total
}

func CountTerminalNodes(root GameTreeNode) int {
	total := 0
	Visit(root, func(node GameTreeNode) {
		if node.Type() == TerminalNodeType {
			total++
		}
	})

	return total
}

func CountInfoSets(root GameTreeNode) int {
	total := 0
	VisitInfoSets(root, func(player int, infoSet string) { total++ })
	return total
}
