package lift

import "github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"

// baseGraph is a dependency graph between contract names, used to detect
// inheritance cycles before linearization runs.
type baseGraph struct {
	nodes   []string
	edges   map[string][]string
	nodeSet map[string]bool
}

func newBaseGraph() *baseGraph {
	return &baseGraph{
		edges:   make(map[string][]string),
		nodeSet: make(map[string]bool),
	}
}

func (g *baseGraph) addNode(name string) {
	if !g.nodeSet[name] {
		g.nodes = append(g.nodes, name)
		g.nodeSet[name] = true
		g.edges[name] = nil
	}
}

func (g *baseGraph) addEdge(child, base string) {
	g.addNode(child)
	g.addNode(base)
	g.edges[child] = append(g.edges[child], base)
}

// hasCycle reports whether the graph contains a cycle reachable from root.
func (g *baseGraph) hasCycle(root string) bool {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(string) bool
	visit = func(n string) bool {
		if visiting[n] {
			return true
		}
		if visited[n] {
			return false
		}
		visiting[n] = true
		for _, b := range g.edges[n] {
			if visit(b) {
				return true
			}
		}
		visiting[n] = false
		visited[n] = true
		return false
	}
	return visit(root)
}

// linearize computes the most-derived-wins base ordering for a contract
// (spec.md §9 Open Question: "ties among multiply-inherited members
// resolve to the most-derived contract's definition"). byName looks up a
// contract's declaration by name; contracts not found in byName (external
// interfaces the source file doesn't define) are treated as leaves.
//
// The result lists bases furthest-from-derived first, nearest-to-derived
// last, so a caller folding member tables left-to-right naturally lets a
// later (more derived) definition overwrite an earlier one.
func linearize(c *solast.Contract, byName map[string]*solast.Contract) ([]*solast.Contract, error) {
	graph := newBaseGraph()
	var build func(name string)
	build = func(name string) {
		contract, ok := byName[name]
		if !ok {
			return
		}
		graph.addNode(name)
		for _, base := range contract.Bases {
			graph.addEdge(name, base)
			build(base)
		}
	}
	build(c.Name)

	if graph.hasCycle(c.Name) {
		return nil, errLinearizeCycle(c.Name)
	}

	var order []*solast.Contract
	seen := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		contract, ok := byName[name]
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		for _, base := range contract.Bases {
			visit(base)
		}
		order = append(order, contract)
	}
	visit(c.Name)

	return order, nil
}
