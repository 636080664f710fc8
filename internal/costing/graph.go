package costing

// Node identifies one costed entity in the dependency graph.
type Node struct {
	Kind string
	ID   string
}

// Node kinds
const (
	KindIngredient = "ingredient"
	KindBase       = "base"
	KindRecipe     = "recipe"
)

// Graph is a directed dependency graph. An edge A -> B means "A is consumed by
// B": a cost change in A affects B. The propagation driver builds the affected
// subgraph from resolver queries and processes it leaves-first, so suppliers
// are always final before their consumers are recomputed.
type Graph struct {
	nodes map[Node]struct{}
	edges map[Node][]Node
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[Node]struct{}),
		edges: make(map[Node][]Node),
	}
}

func (g *Graph) AddNode(n Node) {
	g.nodes[n] = struct{}{}
}

// AddEdge records that from is consumed by to.
func (g *Graph) AddEdge(from, to Node) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Consumers returns the direct dependents of n.
func (g *Graph) Consumers(n Node) []Node {
	return g.edges[n]
}

// Affected returns every node reachable from root, root included, in
// breadth-first order.
func (g *Graph) Affected(root Node) []Node {
	visited := map[Node]bool{root: true}
	queue := []Node{root}
	var out []Node
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		for _, m := range g.edges[n] {
			if !visited[m] {
				visited[m] = true
				queue = append(queue, m)
			}
		}
	}
	return out
}

// Order returns the affected subgraph of root in dependency order: every node
// appears before all of its consumers. Returns ErrCycleDetected if the
// traversal would revisit a node on the current path.
func (g *Graph) Order(root Node) ([]Node, error) {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // done
	)
	state := make(map[Node]int)
	var postorder []Node

	var visit func(n Node) error
	visit = func(n Node) error {
		switch state[n] {
		case gray:
			return ErrCycleDetected
		case black:
			return nil
		}
		state[n] = gray
		for _, m := range g.edges[n] {
			if err := visit(m); err != nil {
				return err
			}
		}
		state[n] = black
		postorder = append(postorder, n)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}

	// Reverse the postorder: root first, consumers last.
	out := make([]Node, len(postorder))
	for i, n := range postorder {
		out[len(postorder)-1-i] = n
	}
	return out, nil
}
