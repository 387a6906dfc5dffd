package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/adarena/internal/arena"
)

// walk visits every distinct node reachable from root in post-order:
// inputs before the node itself. A node shared by several parents is
// visited once.
func walk(root Node, visit func(Node)) {
	seen := make(map[Node]struct{})
	var rec func(Node)
	rec = func(n Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		for _, in := range n.Inputs() {
			if in != nil {
				rec(in)
			}
		}
		visit(n)
	}
	rec(root)
}

// RequiredSize returns the total arena size of the graph rooted at root:
// each node's own slots plus those of its inputs.
func RequiredSize(root Node) arena.SizePack {
	var total arena.SizePack
	walk(root, func(n Node) {
		total = total.Add(n.SingleSize())
	})
	return total
}

// viewer is implemented by nodes that own arena storage.
type viewer interface {
	View() arena.View
}

// Bind assigns every node of the graph its own slice of the arena, inputs
// before parents, and returns the cursor just past the consumed slots.
//
// Bind panics if any node is already bound or reports an inconsistent
// size. Every node is checked before the first slice is carved, so a
// panicking Bind leaves the whole graph unbound.
func Bind(root Node, c arena.Cursor) arena.Cursor {
	var order []Node
	walk(root, func(n Node) {
		own := n.SingleSize()
		if own.IsZero() {
			return
		}
		shape := n.Shape()
		size := shape.Size()
		if own.Values != size || (own.Adjoints != 0 && own.Adjoints != size) {
			exceptions.Panicf("bind: %T reports %s for %s", n, own, shape)
		}
		if vw, ok := n.(viewer); ok && vw.View().Bound() {
			exceptions.Panicf("bind: %T already bound to an arena", n)
		}
		order = append(order, n)
	})
	if need, rem := RequiredSize(root), c.Remaining(); need.Values > rem.Values || need.Adjoints > rem.Adjoints {
		exceptions.Panicf("bind: graph needs %s but only %s remain", need, rem)
	}

	for _, n := range order {
		own := n.SingleSize()
		var v arena.View
		v, c = c.Take(n.Shape(), own.Adjoints > 0)
		n.BindSelf(v)
	}
	return c
}

// Validate checks every shape in the graph and rejects missing inputs.
func Validate(root Node) error {
	if root == nil {
		return errors.Wrap(ErrUnsupportedInput, "nil root")
	}
	var err error
	walk(root, func(n Node) {
		if err != nil {
			return
		}
		for i, in := range n.Inputs() {
			if in == nil {
				err = errors.Wrapf(ErrUnsupportedInput, "%T: nil input %d", n, i)
				return
			}
		}
		if e := n.Shape().Validate(); e != nil {
			err = errors.Wrapf(e, "%T", n)
		}
	})
	return err
}
