package main

import "fmt"

// Action is what an agent tells the environment to do
type Action interface {
	String() string
}

// MoveToAction moves the agent along an edge to a neighbouring node
type MoveToAction struct {
	To Location
}

func (a MoveToAction) String() string { return fmt.Sprintf("moveTo(%d)", a.To) }

// NoOpAction leaves the agent where it is. Agents that reached the goal emit it forever.
type NoOpAction struct{}

func (NoOpAction) String() string { return "noOp" }

// NoOp is the terminal action
var NoOp Action = NoOpAction{}

// OnlineSearchProblem answers the questions an online agent asks per step.
// It never computes a path itself.
type OnlineSearchProblem struct {
	graph *MapGraph
	goal  Location
}

func NewOnlineSearchProblem(graph *MapGraph, goal Location) *OnlineSearchProblem {
	return &OnlineSearchProblem{graph: graph, goal: goal}
}

func (p *OnlineSearchProblem) Goal() Location { return p.goal }

// Actions lists one move per outgoing edge, in graph neighbour order
func (p *OnlineSearchProblem) Actions(s Location) []Action {
	edges := p.graph.Neighbors(s)
	actions := make([]Action, 0, len(edges))
	for _, e := range edges {
		actions = append(actions, MoveToAction{To: e.To})
	}
	return actions
}

// Result returns the state reached by performing a in s
func (p *OnlineSearchProblem) Result(s Location, a Action) (Location, bool) {
	switch act := a.(type) {
	case MoveToAction:
		if _, ok := p.graph.EdgeTo(s, act.To); ok {
			return act.To, true
		}
		return s, false
	case NoOpAction:
		return s, true
	}
	return s, false
}

func (p *OnlineSearchProblem) GoalTest(s Location) bool {
	return s == p.goal
}

// StepCost is the edge cost of moving from s to sPrime. Staying costs nothing.
func (p *OnlineSearchProblem) StepCost(s Location, a Action, sPrime Location) float64 {
	if s == sPrime {
		return 0
	}
	if e, ok := p.graph.EdgeTo(s, sPrime); ok {
		return e.Cost
	}
	from, ok1 := p.graph.Position(s)
	to, ok2 := p.graph.Position(sPrime)
	if !ok1 || !ok2 {
		return 0
	}
	return p.graph.Distance(from, to)
}
