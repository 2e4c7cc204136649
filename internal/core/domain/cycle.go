package domain

import (
	"strings"
)

// CycleError reports a dependency cycle. Path starts at the repeated vertex.
type CycleError struct {
	Path []Ref
}

// Error renders the cycle as a -> b -> a.
func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Path)+1)
	for _, r := range e.Path {
		parts = append(parts, r.String())
	}
	if len(e.Path) > 0 {
		parts = append(parts, e.Path[0].String())
	}
	return ErrCycleDetected.Error() + ": " + strings.Join(parts, " -> ")
}

// Is matches ErrCycleDetected.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// DanglingReferenceError reports an edge to a vertex that is not in the graph.
type DanglingReferenceError struct {
	From Ref
	To   Ref
}

// Error renders the missing edge.
func (e *DanglingReferenceError) Error() string {
	if e.From.ID == "" {
		return ErrDanglingReference.Error() + ": " + e.To.String()
	}
	return ErrDanglingReference.Error() + ": " + e.From.String() + " -> " + e.To.String()
}

// Is matches ErrDanglingReference.
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// BuildAdjacency collects the dependency edges of every module and stylesheet in g.
// Refs are keyed by bucket so aliased kinds resolve to the same vertex.
func BuildAdjacency(g *ResourceGraph) map[Ref][]Ref {
	adj := make(map[Ref][]Ref)
	for _, r := range g.All() {
		if !participatesInCycles(r.Kind()) {
			continue
		}
		from := Ref{Kind: g.Bucket(r.Kind()), ID: r.Core().ID}
		deps := r.Dependencies()
		edges := make([]Ref, 0, len(deps))
		for _, d := range deps {
			edges = append(edges, Ref{Kind: g.Bucket(d.Kind), ID: d.ID})
		}
		adj[from] = edges
	}
	return adj
}

func participatesInCycles(k Kind) bool {
	return k == KindModule || k == KindStylesheet
}

const (
	unvisited = iota
	visiting
	visited
)

// CycleChecker runs depth-first searches over an adjacency map.
// Its visited set is shared across calls to Check.
type CycleChecker struct {
	adj   map[Ref][]Ref
	state map[Ref]int
}

// NewCycleChecker creates a checker over adj.
func NewCycleChecker(adj map[Ref][]Ref) *CycleChecker {
	return &CycleChecker{adj: adj, state: make(map[Ref]int, len(adj))}
}

type dfsFrame struct {
	ref  Ref
	next int
}

// Check searches from start. It returns a *CycleError when an edge reaches a vertex
// still on the stack, or a *DanglingReferenceError when an edge leaves the graph.
func (c *CycleChecker) Check(start Ref) error {
	if _, ok := c.adj[start]; !ok {
		return &DanglingReferenceError{To: start}
	}
	if c.state[start] == visited {
		return nil
	}

	stack := []dfsFrame{{ref: start}}
	c.state[start] = visiting
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := c.adj[top.ref]
		if top.next == len(edges) {
			c.state[top.ref] = visited
			stack = stack[:len(stack)-1]
			continue
		}
		dep := edges[top.next]
		top.next++

		if _, ok := c.adj[dep]; !ok {
			return &DanglingReferenceError{From: top.ref, To: dep}
		}
		switch c.state[dep] {
		case visiting:
			return buildCycleError(stack, dep)
		case unvisited:
			c.state[dep] = visiting
			stack = append(stack, dfsFrame{ref: dep})
		}
	}
	return nil
}

func buildCycleError(stack []dfsFrame, dep Ref) error {
	startIdx := 0
	for i, f := range stack {
		if f.ref == dep {
			startIdx = i
			break
		}
	}
	path := make([]Ref, 0, len(stack)-startIdx)
	for _, f := range stack[startIdx:] {
		path = append(path, f.ref)
	}
	return &CycleError{Path: path}
}

// ValidateGraph checks every module and stylesheet of g in path order.
func ValidateGraph(g *ResourceGraph) error {
	checker := NewCycleChecker(BuildAdjacency(g))
	for _, r := range g.All() {
		if !participatesInCycles(r.Kind()) {
			continue
		}
		if err := checker.Check(Ref{Kind: g.Bucket(r.Kind()), ID: r.Core().ID}); err != nil {
			return err
		}
	}
	return nil
}
