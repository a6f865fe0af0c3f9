// Package huffman implements the Huffman coding primitives shared by the
// label generator and the Huffman bin codec: frequency counting, tree
// construction with deterministic tie-breaking, code derivation, and
// MSB-first bit packing.
package huffman

import "container/heap"

type nodeKind uint8

const (
	leafNode nodeKind = iota
	internalNode
)

// Node is one node of a Huffman tree: either a leaf carrying a symbol or an
// internal node carrying two children. The kind tag decides which fields are
// meaningful.
type Node struct {
	kind        nodeKind
	Frequency   uint64
	Symbol      byte  // leaf only
	Left, Right *Node // internal only

	// seq orders equal-frequency nodes by insertion so tree construction is
	// deterministic and reproducible from a serialized frequency table.
	seq int
}

// NewLeaf creates a leaf node for the given symbol.
func NewLeaf(symbol byte, frequency uint64) *Node {
	return &Node{kind: leafNode, Symbol: symbol, Frequency: frequency}
}

// NewInternal creates an internal node merging two subtrees.
func NewInternal(left, right *Node) *Node {
	return &Node{
		kind:      internalNode,
		Frequency: left.Frequency + right.Frequency,
		Left:      left,
		Right:     right,
	}
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.kind == leafNode
}

// nodeHeap is a min-heap over (Frequency, seq). The seq tie-break keeps the
// merge order identical between compression and decompression.
type nodeHeap []*Node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].Frequency != h[j].Frequency {
		return h[i].Frequency < h[j].Frequency
	}

	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*Node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	*h = old[:n-1]

	return node
}

// Tree is a built Huffman tree together with the total symbol count it was
// built over.
type Tree struct {
	root  *Node
	total uint64
}

// Build constructs a Huffman tree from a frequency table via greedy pairwise
// merging of the two lowest-frequency nodes. Entries must be in a stable
// order (first-appearance order for data-derived tables); ties are broken by
// insertion order so both sides of the wire build the same tree.
//
// Returns nil for an empty table.
func Build(freqs []SymbolFreq) *Tree {
	if len(freqs) == 0 {
		return nil
	}

	h := make(nodeHeap, 0, len(freqs))
	seq := 0
	total := uint64(0)

	for _, sf := range freqs {
		node := NewLeaf(sf.Symbol, uint64(sf.Count))
		node.seq = seq
		seq++
		total += uint64(sf.Count)
		h = append(h, node)
	}
	heap.Init(&h)

	for h.Len() > 1 {
		left := heap.Pop(&h).(*Node)
		right := heap.Pop(&h).(*Node)
		parent := NewInternal(left, right)
		parent.seq = seq
		seq++
		heap.Push(&h, parent)
	}

	return &Tree{root: heap.Pop(&h).(*Node), total: total}
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Node {
	return t.root
}

// TotalCount returns the sum of all symbol frequencies, i.e. the number of
// symbols a full bitstream for this tree decodes to.
func (t *Tree) TotalCount() uint64 {
	return t.total
}
