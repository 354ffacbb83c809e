package main

import (
	"fmt"

	"github.com/paulmach/orb"
)

// EventKind distinguishes environment notifications
type EventKind int

const (
	EventAgentAdded EventKind = iota
	EventAgentActed
)

// Event describes an agent being placed or acting. Location and Position are
// the agent's whereabouts after the event.
type Event struct {
	Kind     EventKind
	Action   Action // nil for EventAgentAdded
	Location Location
	Position orb.Point
}

// Listener observes an environment. Listeners run on the simulation goroutine
// and must not block.
type Listener interface {
	Notify(e Event)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(e Event)

func (f ListenerFunc) Notify(e Event) { f(e) }

// MapEnvironment moves a single agent over a map graph and accounts for the distance travelled
type MapEnvironment struct {
	graph     *MapGraph
	agent     Agent
	location  Location
	distance  float64
	steps     int
	done      bool
	err       error
	listeners []Listener
}

func NewMapEnvironment(graph *MapGraph) *MapEnvironment {
	return &MapEnvironment{graph: graph}
}

func (e *MapEnvironment) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

// AddAgent places the agent at loc
func (e *MapEnvironment) AddAgent(agent Agent, loc Location) error {
	pos, ok := e.graph.Position(loc)
	if !ok {
		return fmt.Errorf("add agent at %d: %w", loc, ErrUnknownLocation)
	}
	e.agent = agent
	e.location = loc
	e.distance = 0
	e.steps = 0
	e.done = false
	e.err = nil
	e.notify(Event{Kind: EventAgentAdded, Location: loc, Position: pos})
	return nil
}

// Step runs one perceive-act-move cycle. An in-flight step always completes.
func (e *MapEnvironment) Step() error {
	if e.IsDone() {
		return e.err
	}
	if e.agent == nil {
		e.err = fmt.Errorf("step without agent: %w", ErrUnknownLocation)
		return e.err
	}

	action, err := e.agent.Execute(e.location)
	if err != nil {
		e.err = err
		return err
	}

	switch act := action.(type) {
	case MoveToAction:
		edge, ok := e.graph.EdgeTo(e.location, act.To)
		if !ok {
			e.err = fmt.Errorf("move %d -> %d: %w", e.location, act.To, ErrUnknownLocation)
			return e.err
		}
		e.location = act.To
		e.distance += edge.Cost
		e.steps++
	case NoOpAction:
		e.done = true
	}

	pos, _ := e.graph.Position(e.location)
	e.notify(Event{Kind: EventAgentActed, Action: action, Location: e.location, Position: pos})
	return nil
}

func (e *MapEnvironment) notify(ev Event) {
	for _, l := range e.listeners {
		l.Notify(ev)
	}
}

// goalTester is implemented by agents that know their goal
type goalTester interface {
	GoalTest(s Location) bool
}

// AtGoal reports whether the agent stands on its goal.
// Agents that do not expose a goal are never there.
func (e *MapEnvironment) AtGoal() bool {
	gt, ok := e.agent.(goalTester)
	return ok && gt.GoalTest(e.location)
}

// IsDone reports whether the agent stopped, either at the goal or after a failure
func (e *MapEnvironment) IsDone() bool {
	return e.done || e.err != nil
}

func (e *MapEnvironment) Location() Location { return e.location }

// TravelDistance is the sum of realized step costs so far
func (e *MapEnvironment) TravelDistance() float64 { return e.distance }

// Unit is the unit TravelDistance is measured in
func (e *MapEnvironment) Unit() string { return e.graph.Metric().Unit }

// Steps counts the moves made so far
func (e *MapEnvironment) Steps() int { return e.steps }
