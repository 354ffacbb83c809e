package main

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	StatusRunning           = "running"
	StatusSuccess           = "success"
	StatusCancelled         = "cancelled"
	StatusDeadEnd           = "dead_end"
	StatusNoLocation        = "no_location"
	StatusInsufficientInput = "insufficient_input"
	StatusFailed            = "failed"
)

// SimulationOptions controls pacing and bounds of a run
type SimulationOptions struct {
	StepDelay time.Duration // pause between steps, interrupted by cancellation
	MaxSteps  int           // stop after this many moves, 0 means unlimited
}

// SimulationResult is the outcome of driving an environment
type SimulationResult struct {
	Status   string
	Steps    int
	Distance float64
	Unit     string // unit of Distance, from the graph metric
	Err      error
}

// HasDistance reports whether at least one move was made
func (r SimulationResult) HasDistance() bool {
	return r.Steps > 0
}

// StatusText is the human readable outcome shown to users
func (r SimulationResult) StatusText() string {
	switch r.Status {
	case StatusSuccess:
		return fmt.Sprintf("Travel distance: %.1f %s", r.Distance, r.Unit)
	case StatusCancelled:
		if r.HasDistance() {
			return fmt.Sprintf("Cancelled after %d steps, travel distance: %.1f %s", r.Steps, r.Distance, r.Unit)
		}
		return "Cancelled before the first step"
	case StatusDeadEnd:
		return fmt.Sprintf("Dead end after %d steps: no way forward", r.Steps)
	}
	if r.Err != nil {
		return "Error: " + r.Err.Error()
	}
	return r.Status
}

// Simulate steps env until it is done, ctx is cancelled, the step limit is
// reached or the agent fails. Cancellation is checked once per step and during
// the pacing delay; it yields the partial distance, not an error.
func Simulate(ctx context.Context, env *MapEnvironment, opts SimulationOptions) SimulationResult {
	result := func(status string, err error) SimulationResult {
		return SimulationResult{Status: status, Steps: env.Steps(), Distance: env.TravelDistance(), Unit: env.Unit(), Err: err}
	}

	for !env.IsDone() {
		select {
		case <-ctx.Done():
			return result(StatusCancelled, nil)
		default:
		}
		// an agent standing on its goal still gets the step that stops it
		if opts.MaxSteps > 0 && env.Steps() >= opts.MaxSteps && !env.AtGoal() {
			return result(StatusCancelled, nil)
		}

		if err := env.Step(); err != nil {
			if errors.Is(err, ErrDeadEnd) {
				return result(StatusDeadEnd, err)
			}
			return result(StatusFailed, err)
		}

		if opts.StepDelay > 0 && !env.IsDone() {
			select {
			case <-ctx.Done():
				return result(StatusCancelled, nil)
			case <-time.After(opts.StepDelay):
			}
		}
	}

	return result(StatusSuccess, nil)
}
