package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump renders the tree as indented text: one line per element with its kind
// and byte range, tokens followed by their quoted text. The format is meant
// for debugging and tests, not as a stable interchange format.
func Dump(root *Node) string {
	var sb strings.Builder
	_ = Fdump(&sb, root)
	return sb.String()
}

// Fdump writes the Dump output to w.
func Fdump(w io.Writer, root *Node) error {
	if root == nil {
		return nil
	}
	return dumpNode(w, root, 0)
}

func dumpNode(w io.Writer, n *Node, depth int) error {
	r := n.Range()
	if _, err := fmt.Fprintf(w, "%s%s@%d..%d\n", strings.Repeat("  ", depth), n.kind, r.Start, r.End); err != nil {
		return fmt.Errorf("write node: %w", err)
	}
	for _, child := range n.children {
		switch c := child.(type) {
		case *Node:
			if err := dumpNode(w, c, depth+1); err != nil {
				return err
			}
		case *Token:
			tr := c.Range()
			if _, err := fmt.Fprintf(w, "%s%s@%d..%d %s\n",
				strings.Repeat("  ", depth+1), c.kind, tr.Start, tr.End, strconv.Quote(c.text)); err != nil {
				return fmt.Errorf("write token: %w", err)
			}
		}
	}
	return nil
}
