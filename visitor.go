package rtree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gospatial/rtree/geom"
)

// Visitor receives a depth-first, pre-order walk of a tree's structure.
// OnLeaf is called once per leaf node, OnNonLeaf once per inner node, each
// before its children are visited.
type Visitor[T comparable] interface {
	OnLeaf(box geom.Rectangle, entries []Entry[T], depth int)
	OnNonLeaf(box geom.Rectangle, childCount int, depth int)
}

// Visit walks the tree depth-first, pre-order, calling v for every node.
// An empty tree calls v zero times.
func (t *Tree[T]) Visit(v Visitor[T]) {
	if t.root == nil {
		return
	}
	visitNode(t.root, v, 0)
}

func visitNode[T comparable](n node[T], v Visitor[T], depth int) {
	switch nd := n.(type) {
	case *leafNode[T]:
		v.OnLeaf(nd.box, nd.entries, depth)
	case *innerNode[T]:
		v.OnNonLeaf(nd.box, len(nd.children), depth)
		for _, c := range nd.children {
			visitNode(c, v, depth+1)
		}
	}
}

// Dump writes a colorized, indented rendering of the tree's structure to w —
// inner nodes in cyan with their child count and MBR, leaves in green with
// their MBR followed by one line per entry (value and geometry) — intended
// for interactive debugging, not machine parsing.
func (t *Tree[T]) Dump(w io.Writer) {
	if t.root == nil {
		fmt.Fprintln(w, color.YellowString("(empty tree)"))
		return
	}
	dumpNode[T](w, t.root, 0)
}

func dumpNode[T comparable](w io.Writer, n node[T], depth int) {
	indent := strings.Repeat("  ", depth)
	switch nd := n.(type) {
	case *leafNode[T]:
		fmt.Fprintf(w, "%s%s %s\n", indent, color.GreenString("leaf"), nd.box)
		for _, e := range nd.entries {
			fmt.Fprintf(w, "%s  %s %v @ %s\n", indent, color.HiGreenString("-"), e.Value, e.Geometry)
		}
	case *innerNode[T]:
		fmt.Fprintf(w, "%s%s (%d children) %s\n", indent, color.CyanString("node"), len(nd.children), nd.box)
		for _, c := range nd.children {
			dumpNode[T](w, c, depth+1)
		}
	}
}

// DumpStdout is a convenience wrapper around Dump(os.Stdout).
func (t *Tree[T]) DumpStdout() {
	t.Dump(os.Stdout)
}
