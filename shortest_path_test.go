package main

import (
	"container/heap"
	"math"
)

// searchNode is an entry of the reference A* open set
type searchNode struct {
	loc   Location
	g     float64 // cost from start
	f     float64 // g + straight-line estimate
	index int     // position in the heap
}

type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*searchNode)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*pq = old[:len(old)-1]
	return n
}

// shortestPathCost runs a complete offline A* on the graph. Tests compare
// online estimates against it; +Inf means goal is unreachable.
func shortestPathCost(graph *MapGraph, start, goal Location) float64 {
	goalPos, ok := graph.Position(goal)
	if !ok || !graph.Contains(start) {
		return math.Inf(1)
	}
	estimate := func(loc Location) float64 {
		p, _ := graph.Position(loc)
		return graph.Distance(p, goalPos)
	}

	open := &priorityQueue{}
	heap.Init(open)
	startNode := &searchNode{loc: start, f: estimate(start)}
	heap.Push(open, startNode)
	openMap := map[Location]*searchNode{start: startNode}
	closed := make(map[Location]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		delete(openMap, current.loc)
		if current.loc == goal {
			return current.g
		}
		closed[current.loc] = true

		for _, edge := range graph.Neighbors(current.loc) {
			if closed[edge.To] {
				continue
			}
			tentative := current.g + edge.Cost
			neighbor, exists := openMap[edge.To]
			if !exists {
				neighbor = &searchNode{loc: edge.To, g: tentative, f: tentative + estimate(edge.To)}
				heap.Push(open, neighbor)
				openMap[edge.To] = neighbor
			} else if tentative < neighbor.g {
				neighbor.g = tentative
				neighbor.f = tentative + estimate(edge.To)
				heap.Fix(open, neighbor.index)
			}
		}
	}
	return math.Inf(1)
}
