// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs a fixed set of workers on their own goroutines. The first
// worker error cancels the context shared by the others.
type Group struct {
	workers []Worker
}

// NewGroup returns a Group over ws.
func NewGroup(ws ...Worker) *Group {
	return &Group{workers: ws}
}

// Run starts every worker and blocks until all of them have returned.
func (g *Group) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, worker := range g.workers {
		eg.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return eg.Wait()
}
