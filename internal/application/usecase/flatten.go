package usecase

import "github.com/diillson/es-profile-report/internal/domain/entity"

type stackItem struct {
	node           entity.ProfileNode
	depth          int
	parentDuration *int64
}

// Flatten walks a profile tree with an explicit stack and returns every node
// annotated with its depth and the duration of its parent.
//
// Children are pushed in their original order and popped from the end, so
// siblings come out in reverse order at every level. Reports produced by
// earlier versions of the tool rely on that order.
func Flatten(root entity.ProfileNode) []entity.FlatNode {
	stack := []stackItem{{node: root}}
	var nodes []entity.FlatNode

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodes = append(nodes, entity.FlatNode{
			ProfileNode:    item.node,
			Depth:          item.depth,
			ParentDuration: item.parentDuration,
		})

		if len(item.node.Children) == 0 {
			continue
		}
		duration := item.node.TimeInNanos
		for _, child := range item.node.Children {
			stack = append(stack, stackItem{
				node:           child,
				depth:          item.depth + 1,
				parentDuration: &duration,
			})
		}
	}

	return nodes
}

// CountNodes returns the number of nodes in the tree rooted at root.
func CountNodes(root entity.ProfileNode) int {
	n := 1
	for _, child := range root.Children {
		n += CountNodes(child)
	}
	return n
}
