// Package report compares policies over a single access sequence
// and renders the results as a table or chart.
package report

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/djdv/go-cachehits"
)

// Result is the outcome of one simulation.
type Result struct {
	Policy   cachehits.Policy
	Capacity int
	Accesses int
	Hits     int
}

// Ratio returns the hit ratio as a percentage.
func (r Result) Ratio() float64 {
	if r.Accesses == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Accesses) * 100
}

// Compare simulates every policy at every capacity.
// Rows follow the order of policies and columns the order of capacities.
func Compare(
	ctx context.Context, accesses []cachehits.Key,
	policies []cachehits.Policy, capacities []int,
) ([][]Result, error) {
	simulators := make([]cachehits.Simulator, len(policies))
	for i, policy := range policies {
		simulator, err := cachehits.Lookup(policy)
		if err != nil {
			return nil, err
		}
		simulators[i] = simulator
	}
	table := make([][]Result, len(policies))
	for i := range table {
		table[i] = make([]Result, len(capacities))
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for row, simulator := range simulators {
		for column, capacity := range capacities {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				hits, err := simulator.Simulate(accesses, capacity)
				if err != nil {
					return fmt.Errorf("%s at capacity %d: %w",
						policies[row], capacity, err)
				}
				result := Result{
					Policy:   policies[row],
					Capacity: capacity,
					Accesses: len(accesses),
					Hits:     hits,
				}
				table[row][column] = result
				logrus.Infof(
					"Simulation for policy %s at capacity %d completed with hit ratio %0.2f%%",
					result.Policy, result.Capacity, result.Ratio())
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	return table, nil
}
