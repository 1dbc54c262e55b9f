package scc

import (
	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"golang.org/x/exp/slices"
)

// Components. strongly connected components of a graph.
// component ids follow a topological order of the condensation: an edge between two components
// always goes from a smaller to a larger id.
type Components struct {
	// Of[v] is the component of vertex v.
	Of []int32
	// Sizes[c] is the number of vertices in component c.
	Sizes []int32
	// Condensation[c] lists the components reachable from c over one edge, sorted & without duplicates.
	Condensation [][]int32
}

func (c *Components) Count() int {
	return len(c.Sizes)
}

// Largest. id & size of the biggest component, the smallest id on ties. -1 for an empty graph.
func (c *Components) Largest() (int32, int32) {
	best, size := int32(-1), int32(0)
	for id, s := range c.Sizes {
		if s > size {
			best, size = int32(id), s
		}
	}
	return best, size
}

// SameComponent. u & v can reach each other.
func (c *Components) SameComponent(u, v datastructure.VertexID) bool {
	return c.Of[u] == c.Of[v]
}

type frame struct {
	v    datastructure.VertexID
	next int32
}

/*
Kosaraju. two pass strongly connected components.

first pass: dfs over out edges, record vertices in post order.
second pass: dfs over the reversed graph in reverse post order, every tree is one component.

both passes use an explicit stack, road networks are deep enough to make recursion expensive.
O(V+E)
*/
func Kosaraju(g *datastructure.Graph) *Components {
	n := g.NumVertices()
	order := postOrder(g.FirstOut, g.Head, n)

	revFirstOut, revHead := reverse(g)

	of := make([]int32, n)
	for i := range of {
		of[i] = -1
	}
	sizes := make([]int32, 0)
	stack := make([]datastructure.VertexID, 0, 64)

	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if of[root] != -1 {
			continue
		}
		id := int32(len(sizes))
		size := int32(0)
		of[root] = id
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, u := range revHead[revFirstOut[v]:revFirstOut[v+1]] {
				if of[u] == -1 {
					of[u] = id
					stack = append(stack, u)
				}
			}
		}
		sizes = append(sizes, size)
	}

	cond := make([][]int32, len(sizes))
	for v := 0; v < n; v++ {
		heads, _ := g.OutEdges(datastructure.VertexID(v))
		for _, u := range heads {
			if of[v] != of[u] {
				cond[of[v]] = append(cond[of[v]], of[u])
			}
		}
	}
	for c := range cond {
		slices.Sort(cond[c])
		cond[c] = slices.Compact(cond[c])
	}

	return &Components{Of: of, Sizes: sizes, Condensation: cond}
}

func postOrder(firstOut []int32, head []datastructure.VertexID, n int) []datastructure.VertexID {
	order := make([]datastructure.VertexID, 0, n)
	visited := make([]bool, n)
	stack := make([]frame, 0, 64)

	for s := 0; s < n; s++ {
		if visited[s] {
			continue
		}
		visited[s] = true
		stack = append(stack[:0], frame{v: datastructure.VertexID(s), next: firstOut[s]})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == firstOut[top.v+1] {
				order = append(order, top.v)
				stack = stack[:len(stack)-1]
				continue
			}
			u := head[top.next]
			top.next++
			if !visited[u] {
				visited[u] = true
				stack = append(stack, frame{v: u, next: firstOut[u]})
			}
		}
	}
	return order
}

// reverse. csr of the transposed graph, weights dropped.
func reverse(g *datastructure.Graph) ([]int32, []datastructure.VertexID) {
	n := g.NumVertices()
	firstOut := make([]int32, n+1)
	for _, v := range g.Head {
		firstOut[v+1]++
	}
	for v := 0; v < n; v++ {
		firstOut[v+1] += firstOut[v]
	}

	head := make([]datastructure.VertexID, len(g.Head))
	pos := make([]int32, n)
	copy(pos, firstOut[:n])
	for v := 0; v < n; v++ {
		heads, _ := g.OutEdges(datastructure.VertexID(v))
		for _, u := range heads {
			head[pos[u]] = datastructure.VertexID(v)
			pos[u]++
		}
	}
	return firstOut, head
}
