// Package memory implements the per-entity memory graph: an append-only event
// log clustered online into belief clusters carrying affective signals.
package memory

import (
	"math"
	"slices"
)

// activationFloor is the minimum activation for a node to contribute to a
// cluster's affective signal.
const activationFloor = 0.01

// Node is a single remembered event. The event vector is immutable after
// creation; only the activation decays.
type Node struct {
	Event      []float64
	Activation float64
	Timestamp  uint64
	ClusterID  int // -1 while unassigned
}

// Cluster groups semantically similar memory nodes.
type Cluster struct {
	ID int
	// Indices into the owning graph's node log.
	NodeIndices []int
	// Aggregate valence of member nodes, activation-weighted.
	AffectiveSignal float64
	Weight          float64
}

// Edge is an associative link between two nodes. Edges are recorded but not
// consumed by the clustering or affective pipelines yet.
type Edge struct {
	Src, Dst int
}

// Graph owns an append-only node log, associative edges, and belief clusters.
type Graph struct {
	nodes         []Node
	edges         []Edge
	clusters      map[int]*Cluster
	clusterOrder  []int // ascending IDs for deterministic iteration
	nextClusterID int
}

// NewGraph creates an empty memory graph.
func NewGraph() *Graph {
	return &Graph{clusters: make(map[int]*Cluster)}
}

// AddNode appends an event with activation 1.0 and returns its index.
func (g *Graph) AddNode(event []float64, timestamp uint64) int {
	idx := len(g.nodes)
	g.nodes = append(g.nodes, Node{
		Event:      event,
		Activation: 1.0,
		Timestamp:  timestamp,
		ClusterID:  -1,
	})
	return idx
}

// AddEdge records an associative link. Out-of-range indices are ignored.
func (g *Graph) AddEdge(src, dst int) {
	if src < 0 || dst < 0 || src >= len(g.nodes) || dst >= len(g.nodes) {
		return
	}
	g.edges = append(g.edges, Edge{Src: src, Dst: dst})
}

// Nodes returns the node log. Callers must not mutate event vectors.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the associative edge list.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of recorded events.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// ClusterCount returns the number of belief clusters.
func (g *Graph) ClusterCount() int {
	return len(g.clusterOrder)
}

// Cluster returns the cluster with the given id, or nil.
func (g *Graph) Cluster(id int) *Cluster {
	return g.clusters[id]
}

// ClusterIDs returns cluster ids in ascending order.
func (g *Graph) ClusterIDs() []int {
	return g.clusterOrder
}

// AffectiveSignals returns the affective signal of every cluster, ordered by
// ascending cluster id.
func (g *Graph) AffectiveSignals() []float64 {
	signals := make([]float64, 0, len(g.clusterOrder))
	for _, id := range g.clusterOrder {
		signals = append(signals, g.clusters[id].AffectiveSignal)
	}
	return signals
}

// CosineSimilarity between two vectors; 0 for empty or zero-norm inputs.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		normA += x * x
	}
	for _, x := range b {
		normB += x * x
	}
	if normA > 0 && normB > 0 {
		return dot / (math.Sqrt(normA) * math.Sqrt(normB))
	}
	return 0
}

// ClusterEvent assigns the node at nodeIdx to the best-matching cluster, or
// allocates a new one. A cluster matches when the mean cosine similarity of
// the event against its member events exceeds tau; the lowest-id cluster wins
// ties, keeping results reproducible.
func (g *Graph) ClusterEvent(event []float64, nodeIdx int, tau float64) int {
	if nodeIdx < 0 || nodeIdx >= len(g.nodes) {
		return -1
	}

	bestID := -1
	bestSimilarity := tau

	for _, id := range g.clusterOrder {
		cluster := g.clusters[id]
		if len(cluster.NodeIndices) == 0 {
			continue
		}
		total := 0.0
		for _, memberIdx := range cluster.NodeIndices {
			total += CosineSimilarity(event, g.nodes[memberIdx].Event) / float64(len(cluster.NodeIndices))
		}
		if total > bestSimilarity {
			bestSimilarity = total
			bestID = id
		}
	}

	if bestID < 0 {
		bestID = g.nextClusterID
		g.nextClusterID++
		g.clusters[bestID] = &Cluster{ID: bestID, Weight: 1.0}
		g.clusterOrder = append(g.clusterOrder, bestID)
	}

	cluster := g.clusters[bestID]
	cluster.NodeIndices = append(cluster.NodeIndices, nodeIdx)
	g.nodes[nodeIdx].ClusterID = bestID
	return bestID
}

// Decay multiplies every node activation by factor. Nodes are never removed,
// even at activation near zero.
func (g *Graph) Decay(factor float64) {
	for i := range g.nodes {
		g.nodes[i].Activation *= factor
	}
}

// UpdateAffectiveSignals recomputes each cluster's signal as the
// activation-weighted average valence of members above the activation floor.
// Valence quantizes event[0]: +1 above 0.5, -1 below -0.5, else 0.
func (g *Graph) UpdateAffectiveSignals() {
	for _, id := range g.clusterOrder {
		cluster := g.clusters[id]
		signal := 0.0
		count := 0

		for _, nodeIdx := range cluster.NodeIndices {
			node := &g.nodes[nodeIdx]
			if node.Activation <= activationFloor {
				continue
			}
			valence := 0.0
			if len(node.Event) > 0 {
				switch {
				case node.Event[0] > 0.5:
					valence = 1.0
				case node.Event[0] < -0.5:
					valence = -1.0
				}
			}
			signal += node.Activation * valence
			count++
		}

		if count > 0 {
			cluster.AffectiveSignal = signal / float64(count)
		} else {
			cluster.AffectiveSignal = 0
		}
	}
}

// Activations returns every node's activation in log order.
func (g *Graph) Activations() []float64 {
	out := make([]float64, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].Activation
	}
	return out
}

// Validate checks graph invariants: node cluster back-references point at
// existing clusters, and cluster member indices are in range.
func (g *Graph) Validate() bool {
	for i := range g.nodes {
		if cid := g.nodes[i].ClusterID; cid >= 0 {
			if _, ok := g.clusters[cid]; !ok {
				return false
			}
		}
	}
	for _, id := range g.clusterOrder {
		cluster, ok := g.clusters[id]
		if !ok {
			return false
		}
		for _, idx := range cluster.NodeIndices {
			if idx < 0 || idx >= len(g.nodes) {
				return false
			}
		}
	}
	return slices.IsSorted(g.clusterOrder)
}
