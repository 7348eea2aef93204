// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package concurrent bounds the concurrency of fan-out work, such as
// generating and dispatching one notification per recipient.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs batches of tasks with a fixed concurrency limit.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a pool limited to the given number of concurrent
// tasks, at least one.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{workerCount: workerCount}
}

// Run executes the tasks and returns the first error, cancelling tasks that
// have not started once one fails.
func (wp *WorkerPool) Run(ctx context.Context, tasks ...func() error) error {
	if len(tasks) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, task := range tasks {
		g.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			return task()
		})
	}

	return g.Wait()
}

// RunAll executes every task regardless of sibling failures and returns the
// errors that occurred. One recipient's failing mail must not suppress the
// others.
func (wp *WorkerPool) RunAll(ctx context.Context, tasks ...func() error) []error {
	if len(tasks) == 0 {
		return nil
	}

	errorChan := make(chan error, len(tasks))

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for _, task := range tasks {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				errorChan <- ctx.Err()
				return nil
			default:
			}
			if err := task(); err != nil {
				errorChan <- err
			}
			return nil
		})
	}

	// Tasks never hand their error to the group, so Wait only synchronizes.
	_ = g.Wait()
	close(errorChan)

	var errs []error
	for err := range errorChan {
		errs = append(errs, err)
	}
	return errs
}
