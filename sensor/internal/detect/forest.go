package detect

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/vitalsim/vitalsim/pkg/vitals"
)

// Forest is an extended isolation forest: an ensemble of binary trees whose
// internal nodes split the feature space along randomly oriented hyperplanes.
// It is loaded once at startup and read-only afterwards, shared by all
// Evaluate calls.
type Forest struct {
	Trees      []Tree
	SampleSize int // subsample size ψ each tree was built from
}

// Tree is one partition tree, nodes stored in a flat slice with index links.
type Tree struct {
	Nodes []Node
}

// Node is either an internal hyperplane split (Left/Right >= 0) or a leaf
// (Left == Right == -1). A point goes left when normal·x ≤ offset.
type Node struct {
	Normal []float64
	Offset float64
	Left   int
	Right  int
	Size   int // training points that reached this node; used on leaves
}

// leaf reports whether the node terminates a path.
func (n Node) leaf() bool { return n.Left < 0 && n.Right < 0 }

// artifact is the on-disk JSON layout of a serialized forest.
type artifact struct {
	Features   []string `json:"features"`
	SampleSize int      `json:"sample_size"`
	Trees      []struct {
		Nodes []struct {
			Normal []float64 `json:"normal"`
			Offset float64   `json:"offset"`
			Left   int       `json:"left"`
			Right  int       `json:"right"`
			Size   int       `json:"size"`
		} `json:"nodes"`
	} `json:"trees"`
}

// LoadForest reads and validates a serialized forest artifact. The artifact's
// feature list must match the vitals catalog exactly, names and order both —
// a mismatch means the model was trained against a different feature layout
// and silently scoring with it would be garbage.
func LoadForest(path string) (*Forest, error) {
	if path == "" {
		return nil, fmt.Errorf("no model path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	names := vitals.Names()
	if len(a.Features) != len(names) {
		return nil, fmt.Errorf("feature mismatch: artifact has %d features, catalog has %d",
			len(a.Features), len(names))
	}
	for i, f := range a.Features {
		if f != names[i] {
			return nil, fmt.Errorf("feature mismatch at %d: artifact %q, catalog %q", i, f, names[i])
		}
	}
	if a.SampleSize < 2 {
		return nil, fmt.Errorf("invalid sample_size %d", a.SampleSize)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("artifact has no trees")
	}

	f := &Forest{
		SampleSize: a.SampleSize,
		Trees:      make([]Tree, len(a.Trees)),
	}
	for ti, t := range a.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", ti)
		}
		nodes := make([]Node, len(t.Nodes))
		for ni, n := range t.Nodes {
			node := Node{
				Normal: n.Normal,
				Offset: n.Offset,
				Left:   n.Left,
				Right:  n.Right,
				Size:   n.Size,
			}
			if !node.leaf() {
				// Nodes are laid out in pre-order, so children always come
				// after their parent. Requiring that here also guarantees
				// every walk from the root terminates.
				if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
					return nil, fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
				}
				if len(n.Normal) != len(names) {
					return nil, fmt.Errorf("tree %d node %d: normal has %d coefficients, want %d",
						ti, ni, len(n.Normal), len(names))
				}
			}
			nodes[ni] = node
		}
		f.Trees[ti] = Tree{Nodes: nodes}
	}
	return f, nil
}

// PathLength walks one tree from the root and returns the path length for x,
// including the c(size) adjustment for the subtree collapsed into the leaf.
func (t Tree) PathLength(x []float64) float64 {
	depth := 0.0
	i := 0
	for {
		n := t.Nodes[i]
		if n.leaf() {
			return depth + avgUnsuccessfulSearch(n.Size)
		}
		var dot float64
		for j, c := range n.Normal {
			dot += c * x[j]
		}
		if dot <= n.Offset {
			i = n.Left
		} else {
			i = n.Right
		}
		depth++
	}
}

// Score returns the normalized anomaly score for x: the average path length
// across trees mapped through 2^(-E[h]/c(ψ)). Shorter paths — points that are
// easy to isolate — score closer to 1.
func (f *Forest) Score(x []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.PathLength(x)
	}
	avg := sum / float64(len(f.Trees))
	return math.Pow(2, -avg/avgUnsuccessfulSearch(f.SampleSize))
}

const eulerGamma = 0.5772156649015329

// avgUnsuccessfulSearch is c(n), the average path length of an unsuccessful
// BST search over n points — the standard isolation-forest normalizer.
func avgUnsuccessfulSearch(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + eulerGamma
	return 2*h - 2*float64(n-1)/float64(n)
}
