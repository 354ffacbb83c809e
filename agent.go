package main

import (
	"fmt"
	"math"
)

// Agent decides on an action given the perceived location
type Agent interface {
	Execute(percept Location) (Action, error)
}

// AgentStatus is the lifecycle of a learning agent within one run
type AgentStatus int

const (
	AgentInit AgentStatus = iota
	AgentRunning
	AgentDone
)

func (s AgentStatus) String() string {
	return [...]string{"init", "running", "done"}[s]
}

// LRTAStarAgent implements Learning Real-Time A*. It interleaves acting and
// learning: after each move the estimate of the state it left is raised to the
// realized step cost plus the estimate of the state it arrived in. Estimates
// never decrease, and the table survives Reset so repeated runs keep improving.
type LRTAStarAgent struct {
	problem   *OnlineSearchProblem
	heuristic Heuristic
	table     map[Location]float64

	status     AgentStatus
	prevState  Location
	prevAction Action // nil until the first move
}

func NewLRTAStarAgent(problem *OnlineSearchProblem, heuristic Heuristic) *LRTAStarAgent {
	return &LRTAStarAgent{
		problem:   problem,
		heuristic: heuristic,
		table:     make(map[Location]float64),
	}
}

// Execute performs one perceive-decide cycle.
// The estimate of the previous state is raised before the goal test, so the
// transition that arrives at the goal is learned as well; testing the goal
// first would drop the last update of every run.
// Ties between equally good moves go to the first one in neighbour order.
func (a *LRTAStarAgent) Execute(s Location) (Action, error) {
	if a.status == AgentDone {
		return NoOp, nil
	}

	hs, err := a.visit(s)
	if err != nil {
		return nil, err
	}

	if a.prevAction != nil {
		cost := a.problem.StepCost(a.prevState, a.prevAction, s)
		if learned := cost + hs; learned > a.table[a.prevState] {
			a.table[a.prevState] = learned
		}
	}

	if a.problem.GoalTest(s) {
		a.status = AgentDone
		a.prevAction = nil
		return NoOp, nil
	}

	actions := a.problem.Actions(s)
	if len(actions) == 0 {
		a.prevAction = nil
		return nil, fmt.Errorf("%w: location %d", ErrDeadEnd, s)
	}

	var best Action
	bestCost := math.Inf(1)
	for _, action := range actions {
		next, ok := a.problem.Result(s, action)
		if !ok {
			continue
		}
		h, err := a.estimate(next)
		if err != nil {
			return nil, err
		}
		if c := a.problem.StepCost(s, action, next) + h; c < bestCost {
			best, bestCost = action, c
		}
	}
	if best == nil {
		a.prevAction = nil
		return nil, fmt.Errorf("%w: location %d", ErrDeadEnd, s)
	}

	a.prevState, a.prevAction = s, best
	a.status = AgentRunning
	return best, nil
}

// visit returns the estimate of the current state, creating the table entry on first visit
func (a *LRTAStarAgent) visit(s Location) (float64, error) {
	if h, ok := a.table[s]; ok {
		return h, nil
	}
	h, err := a.heuristic.H(s)
	if err != nil {
		return 0, err
	}
	a.table[s] = h
	return h, nil
}

// estimate reads the learned value, falling back to the heuristic without storing it
func (a *LRTAStarAgent) estimate(s Location) (float64, error) {
	if h, ok := a.table[s]; ok {
		return h, nil
	}
	return a.heuristic.H(s)
}

// Estimate returns the learned cost-to-goal of a visited location
func (a *LRTAStarAgent) Estimate(s Location) (float64, bool) {
	h, ok := a.table[s]
	return h, ok
}

// GoalTest reports whether s is the goal of the agent's problem
func (a *LRTAStarAgent) GoalTest(s Location) bool { return a.problem.GoalTest(s) }

func (a *LRTAStarAgent) TableSize() int { return len(a.table) }

func (a *LRTAStarAgent) Status() AgentStatus { return a.status }

// Reset prepares the agent for another run from a new start, keeping what it learned
func (a *LRTAStarAgent) Reset() {
	a.status = AgentInit
	a.prevState = 0
	a.prevAction = nil
}
