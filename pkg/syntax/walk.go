package syntax

import "errors"

// WalkFunc is called for every node during Walk.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the nodes below and including root.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}
	if err := walkFunc(root); err != nil {
		return err
	}
	for _, child := range root.children {
		if c, ok := child.(*Node); ok {
			if err := Walk(c, walkFunc); err != nil {
				return err
			}
		}
	}
	return nil
}

// WalkWithContext calls enter before and leave after visiting a node's children.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}
	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}
	for _, child := range root.children {
		if c, ok := child.(*Node); ok {
			if err := WalkWithContext(c, enter, leave); err != nil {
				return err
			}
		}
	}
	if leave != nil {
		return leave(root)
	}
	return nil
}

// errStopWalk stops a walk early without reporting an error.
var errStopWalk = errors.New("stop walk")

// FindAll returns every node below root that satisfies pred, in document order.
func FindAll(root *Node, pred func(*Node) bool) []*Node {
	var result []*Node
	_ = Walk(root, func(n *Node) error {
		if pred(n) {
			result = append(result, n)
		}
		return nil
	})
	return result
}

// FindFirst returns the first node in document order that satisfies pred.
func FindFirst(root *Node, pred func(*Node) bool) *Node {
	var found *Node
	_ = Walk(root, func(n *Node) error {
		if pred(n) {
			found = n
			return errStopWalk
		}
		return nil
	})
	return found
}

// FindByKind returns every node whose kind is one of kinds.
func FindByKind(root *Node, kinds ...Kind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.kind.Is(kinds...)
	})
}

// Tokens returns every token below root in document order.
func Tokens(root *Node) []*Token {
	var tokens []*Token
	var collect func(n *Node)
	collect = func(n *Node) {
		for _, child := range n.children {
			switch c := child.(type) {
			case *Token:
				tokens = append(tokens, c)
			case *Node:
				collect(c)
			}
		}
	}
	if root != nil {
		collect(root)
	}
	return tokens
}

// Path returns the chain of nodes from root down to target, both inclusive.
// It returns nil when target is not below root. The tree stores no parent
// links, so ancestry is always recomputed from the root.
func Path(root, target *Node) []*Node {
	if root == nil || target == nil {
		return nil
	}
	if root == target {
		return []*Node{root}
	}
	r := target.Range()
	for _, child := range root.children {
		c, ok := child.(*Node)
		if !ok {
			continue
		}
		cr := c.Range()
		if r.Start < cr.Start || r.End > cr.End {
			continue
		}
		if sub := Path(c, target); sub != nil {
			return append([]*Node{root}, sub...)
		}
	}
	return nil
}

// Parent returns the node whose children include target, or nil.
func Parent(root, target *Node) *Node {
	path := Path(root, target)
	if len(path) < 2 {
		return nil
	}
	return path[len(path)-2]
}

// CoveringPath returns the chain of nodes, outermost first, whose range
// contains offset.
func CoveringPath(root *Node, offset int) []*Node {
	var path []*Node
	node := root
	for node != nil && node.Range().Contains(offset) {
		path = append(path, node)
		var next *Node
		for _, child := range node.children {
			if c, ok := child.(*Node); ok && c.Range().Contains(offset) {
				next = c
				break
			}
		}
		node = next
	}
	return path
}

// TokenAt returns the token containing offset, or nil.
func TokenAt(root *Node, offset int) *Token {
	path := CoveringPath(root, offset)
	if len(path) == 0 {
		return nil
	}
	for _, child := range path[len(path)-1].children {
		if t, ok := child.(*Token); ok && t.Range().Contains(offset) {
			return t
		}
	}
	return nil
}
