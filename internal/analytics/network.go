package analytics

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"

	"franmap/domain/brand"
)

// Node kinds in the brand-group network.
const (
	NodeBrand = "brand"
	NodeGroup = "group"
)

// NetworkNode is one positioned node of the brand-group graph.
type NetworkNode struct {
	Label string  `json:"label"`
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// NetworkEdge connects a brand node to its franchise group node, by index
// into Nodes.
type NetworkEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Network is the rendered brand-to-franchise-group relationship graph.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// orderedGraph is an undirected graph over node IDs 0..order-1 whose
// iterators walk nodes and adjacency in insertion order. The layout
// update function draws starting positions from its random source while
// iterating Nodes(), so iteration order must be stable for a seeded
// layout to be reproducible; simple.UndirectedGraph iterates a map.
type orderedGraph struct {
	order int64
	adj   [][]int64
}

func newOrderedGraph(order int) *orderedGraph {
	return &orderedGraph{order: int64(order), adj: make([][]int64, order)}
}

func (g *orderedGraph) addEdge(uid, vid int64) {
	g.adj[uid] = append(g.adj[uid], vid)
	g.adj[vid] = append(g.adj[vid], uid)
}

func (g *orderedGraph) Node(id int64) graph.Node {
	if id < 0 || id >= g.order {
		return nil
	}
	return simple.Node(id)
}

func (g *orderedGraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, g.order)
	for i := range nodes {
		nodes[i] = simple.Node(i)
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *orderedGraph) From(id int64) graph.Nodes {
	neighbors := g.adj[id]
	nodes := make([]graph.Node, len(neighbors))
	for i, v := range neighbors {
		nodes[i] = simple.Node(v)
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *orderedGraph) HasEdgeBetween(xid, yid int64) bool {
	if xid < 0 || xid >= g.order {
		return false
	}
	for _, v := range g.adj[xid] {
		if v == yid {
			return true
		}
	}
	return false
}

func (g *orderedGraph) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeBetween(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}

// layout iteration budget; enough for the few hundred nodes a filtered
// view produces.
const layoutUpdates = 80

// BuildNetwork builds the brand-group relationship graph and positions it
// with a force-directed layout. Node numbering and graph iteration are
// both ordered and the random source is seeded, so the same filtered view
// always lays out the same way.
func BuildNetwork(records []brand.Brand) Network {
	if len(records) == 0 {
		return Network{Nodes: []NetworkNode{}, Edges: []NetworkEdge{}}
	}

	// Stable node numbering: groups first, then brands, both sorted.
	groupSet := make(map[string]bool)
	brandSet := make(map[string]bool)
	type link struct{ brand, group string }
	linkSet := make(map[link]bool)
	for _, rec := range records {
		groupSet[rec.FranchiseGroup] = true
		brandSet[rec.Name] = true
		linkSet[link{rec.Name, rec.FranchiseGroup}] = true
	}

	var nodes []NetworkNode
	ids := make(map[string]int64)
	add := func(label, kind string) {
		ids[kind+"\x00"+label] = int64(len(nodes))
		nodes = append(nodes, NetworkNode{Label: label, Kind: kind})
	}
	for _, group := range sortedKeys(groupSet) {
		add(group, NodeGroup)
	}
	for _, name := range sortedKeys(brandSet) {
		// A brand sharing a name with a group keeps its own node.
		add(name, NodeBrand)
	}

	links := make([]link, 0, len(linkSet))
	for l := range linkSet {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].brand != links[j].brand {
			return links[i].brand < links[j].brand
		}
		return links[i].group < links[j].group
	})

	g := newOrderedGraph(len(nodes))
	edges := make([]NetworkEdge, 0, len(links))
	for _, l := range links {
		from := ids[NodeBrand+"\x00"+l.brand]
		to := ids[NodeGroup+"\x00"+l.group]
		g.addEdge(from, to)
		edges = append(edges, NetworkEdge{From: int(from), To: int(to)})
	}

	eades := layout.EadesR2{
		Repulsion: 1,
		Rate:      0.05,
		Updates:   layoutUpdates,
		Theta:     0.2,
		Src:       rand.NewPCG(42, 1),
	}
	optimizer := layout.NewOptimizerR2(g, eades.Update)
	for optimizer.Update() {
	}

	for i := range nodes {
		pos := optimizer.Coord2(int64(i))
		nodes[i].X = pos.X
		nodes[i].Y = pos.Y
	}

	return Network{Nodes: nodes, Edges: edges}
}
