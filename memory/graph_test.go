package memory

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"empty first", nil, []float64{1, 2}, 0},
		{"empty second", []float64{1, 2}, nil, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAddNode(t *testing.T) {
	g := NewGraph()

	idx := g.AddNode([]float64{0.1, 0.2}, 7)
	if idx != 0 {
		t.Errorf("first node index = %d, want 0", idx)
	}

	node := g.Nodes()[idx]
	if node.Activation != 1.0 {
		t.Errorf("new node activation = %v, want 1.0", node.Activation)
	}
	if node.Timestamp != 7 {
		t.Errorf("timestamp = %d, want 7", node.Timestamp)
	}
	if node.ClusterID != -1 {
		t.Errorf("new node cluster = %d, want -1", node.ClusterID)
	}
}

func TestClusterEventRepeatedSameEvent(t *testing.T) {
	// Identical events are perfectly self-similar, so N nodes must all land
	// in a single cluster for any tau < 1.
	g := NewGraph()
	event := []float64{0.8, 0.1, -0.3}

	for i := 0; i < 10; i++ {
		idx := g.AddNode(event, uint64(i))
		g.ClusterEvent(event, idx, 0.7)
	}

	if g.ClusterCount() != 1 {
		t.Fatalf("cluster count = %d, want 1", g.ClusterCount())
	}
	cluster := g.Cluster(g.ClusterIDs()[0])
	if len(cluster.NodeIndices) != 10 {
		t.Errorf("cluster size = %d, want 10", len(cluster.NodeIndices))
	}
	if !g.Validate() {
		t.Error("graph invariants violated")
	}
}

func TestClusterEventDissimilarEvents(t *testing.T) {
	g := NewGraph()

	a := []float64{1, 0}
	b := []float64{0, 1} // orthogonal to a

	ia := g.AddNode(a, 0)
	g.ClusterEvent(a, ia, 0.7)
	ib := g.AddNode(b, 1)
	g.ClusterEvent(b, ib, 0.7)

	if g.ClusterCount() != 2 {
		t.Errorf("cluster count = %d, want 2", g.ClusterCount())
	}
}

func TestClusterEventMonotonicIDs(t *testing.T) {
	g := NewGraph()

	vectors := [][]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	for i, v := range vectors {
		idx := g.AddNode(v, uint64(i))
		g.ClusterEvent(v, idx, 0.9)
	}

	ids := g.ClusterIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("cluster ids not strictly increasing: %v", ids)
		}
	}
}

func TestDecay(t *testing.T) {
	g := NewGraph()
	g.AddNode([]float64{0.1}, 0)
	g.AddNode([]float64{0.2}, 1)

	g.Decay(0.5)
	g.Decay(0.5)

	for i, node := range g.Nodes() {
		if math.Abs(node.Activation-0.25) > 1e-9 {
			t.Errorf("node %d activation = %v, want 0.25", i, node.Activation)
		}
	}

	// Deep decay never removes nodes or cluster assignments
	for i := 0; i < 100; i++ {
		g.Decay(0.5)
	}
	if g.NodeCount() != 2 {
		t.Errorf("node count after decay = %d, want 2", g.NodeCount())
	}
}

func TestUpdateAffectiveSignals(t *testing.T) {
	g := NewGraph()

	// Positive valence event (event[0] > 0.5) with full activation
	idx := g.AddNode([]float64{0.9, 0}, 0)
	g.ClusterEvent([]float64{0.9, 0}, idx, 0.7)

	g.UpdateAffectiveSignals()
	signals := g.AffectiveSignals()
	if len(signals) != 1 {
		t.Fatalf("signal count = %d, want 1", len(signals))
	}
	if math.Abs(signals[0]-1.0) > 1e-9 {
		t.Errorf("signal = %v, want 1.0 (activation 1.0 x valence +1)", signals[0])
	}
}

func TestUpdateAffectiveSignalsValenceQuantization(t *testing.T) {
	tests := []struct {
		name  string
		first float64
		want  float64
	}{
		{"positive", 0.9, 1.0},
		{"negative", -0.9, -1.0},
		{"neutral high", 0.5, 0},
		{"neutral low", -0.5, 0},
		{"neutral zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			event := []float64{tt.first, 1.0}
			idx := g.AddNode(event, 0)
			g.ClusterEvent(event, idx, 0.7)
			g.UpdateAffectiveSignals()
			got := g.AffectiveSignals()[0]
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("signal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateAffectiveSignalsDecayedNodesExcluded(t *testing.T) {
	g := NewGraph()
	event := []float64{0.9}
	idx := g.AddNode(event, 0)
	g.ClusterEvent(event, idx, 0.7)

	// Decay below the 0.01 activation floor
	for i := 0; i < 20; i++ {
		g.Decay(0.5)
	}
	g.UpdateAffectiveSignals()

	if got := g.AffectiveSignals()[0]; got != 0 {
		t.Errorf("signal with all nodes decayed = %v, want 0", got)
	}
}

func TestAddEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode([]float64{1}, 0)
	g.AddNode([]float64{2}, 1)

	g.AddEdge(0, 1)
	g.AddEdge(0, 5) // out of range, ignored
	g.AddEdge(-1, 0)

	if len(g.Edges()) != 1 {
		t.Errorf("edge count = %d, want 1", len(g.Edges()))
	}
}
